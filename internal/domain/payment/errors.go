package payment

import "errors"

var (
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrPaymentExists    = errors.New("order already has a payment")
	ErrInvalidSignature = errors.New("callback signature verification failed")
	ErrInvalidCallback  = errors.New("malformed callback payload")
)
