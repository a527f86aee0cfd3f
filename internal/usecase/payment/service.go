package payment

import (
	"context"

	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const defaultCurrency = "UAH"

type PaymentRepository interface {
	dompayment.Repository
}

type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*domorder.Order, error)
}

type ProviderFactory interface {
	Resolve(provider dompayment.Provider) (dompayment.Gateway, error)
}

// CallbackOutcome is what the callback endpoint reports back to the
// provider. Applied is false for idempotent replays of a terminal status.
type CallbackOutcome struct {
	Status  dompayment.Status
	Applied bool
}

type Service struct {
	paymentRepo PaymentRepository
	orderRepo   OrderRepository
	providers   ProviderFactory
}

func NewService(paymentRepo PaymentRepository, orderRepo OrderRepository, providers ProviderFactory) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		providers:   providers,
	}
}

// OpenSession initiates a provider checkout session for the order and
// records the pending payment. Network I/O happens before the write
// transaction; the provider payload is returned to the caller verbatim.
func (s *Service) OpenSession(ctx context.Context, orderID int64, provider dompayment.Provider) (*dompayment.Session, error) {
	gw, err := s.providers.Resolve(provider)
	if err != nil {
		return nil, err
	}

	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.Payable() {
		return nil, domorder.ErrInvalidStatus
	}

	sess, err := gw.Initiate(ctx, o)
	if err != nil {
		return nil, err
	}

	_, err = s.paymentRepo.CreateForOrder(ctx, &dompayment.Payment{
		OrderID:     o.ID,
		Provider:    provider,
		ExternalRef: sess.ExternalRef,
		Amount:      o.TotalAmount,
		Currency:    defaultCurrency,
		Status:      dompayment.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// HandleCallback processes an asynchronous provider notification. Nothing
// is mutated before the signature checks out; duplicate deliveries of a
// terminal status are acknowledged without reapplying side effects.
func (s *Service) HandleCallback(ctx context.Context, provider dompayment.Provider, body []byte, signature string) (*CallbackOutcome, error) {
	gw, err := s.providers.Resolve(provider)
	if err != nil {
		return nil, err
	}

	if !gw.VerifySignature(body, signature) {
		return nil, dompayment.ErrInvalidSignature
	}

	cb, err := gw.ParseCallback(body)
	if err != nil {
		return nil, err
	}

	if !cb.Status.Terminal() {
		// Intermediate notification: acknowledged, nothing to transition.
		p, err := s.paymentRepo.GetByExternalRef(ctx, cb.ExternalRef)
		if err != nil {
			return nil, err
		}
		return &CallbackOutcome{Status: p.Status, Applied: false}, nil
	}

	res, err := s.paymentRepo.ApplyCallback(ctx, cb.ExternalRef, cb.Status, body)
	if err != nil {
		return nil, err
	}
	return &CallbackOutcome{Status: res.Payment.Status, Applied: res.Applied}, nil
}
