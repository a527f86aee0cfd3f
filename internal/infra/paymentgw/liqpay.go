package paymentgw

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const liqpayCheckoutURL = "https://www.liqpay.ua/api/3/checkout"

// LiqpayGateway signs a base64-encoded JSON "data" blob with
// SHA-1(private_key + data + private_key). Checkout is a client-side form
// post, so Initiate builds the payload locally without network I/O.
type LiqpayGateway struct {
	publicKey  string
	privateKey string
}

func NewLiqpayGateway(publicKey, privateKey string) *LiqpayGateway {
	return &LiqpayGateway{publicKey: publicKey, privateKey: privateKey}
}

type liqpayRequest struct {
	Version     int     `json:"version"`
	PublicKey   string  `json:"public_key"`
	Action      string  `json:"action"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	OrderID     string  `json:"order_id"`
}

func (g *LiqpayGateway) Initiate(ctx context.Context, o *domorder.Order) (*dompayment.Session, error) {
	ref := fmt.Sprintf("LP-%s", uuid.NewString())
	raw, err := json.Marshal(liqpayRequest{
		Version:     3,
		PublicKey:   g.publicKey,
		Action:      "pay",
		Amount:      o.TotalAmount,
		Currency:    defaultCurrency,
		Description: fmt.Sprintf("Order #%d", o.ID),
		OrderID:     ref,
	})
	if err != nil {
		return nil, err
	}

	data := base64.StdEncoding.EncodeToString(raw)
	return &dompayment.Session{
		Provider:    dompayment.ProviderLiqpay,
		ExternalRef: ref,
		CheckoutURL: liqpayCheckoutURL,
		Payload: map[string]string{
			"data":      data,
			"signature": g.sign(data),
		},
	}, nil
}

func (g *LiqpayGateway) sign(data string) string {
	sum := sha1.Sum([]byte(g.privateKey + data + g.privateKey))
	return base64.StdEncoding.EncodeToString(sum[:])
}

type liqpayEnvelope struct {
	Data      string `json:"data"`
	Signature string `json:"signature"`
}

func (g *LiqpayGateway) VerifySignature(body []byte, signature string) bool {
	var env liqpayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	if signature == "" {
		signature = env.Signature
	}
	if env.Data == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(g.sign(env.Data)), []byte(signature))
}

func (g *LiqpayGateway) ParseCallback(body []byte) (*dompayment.Callback, error) {
	var env liqpayEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, dompayment.ErrInvalidCallback
	}

	decoded, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, dompayment.ErrInvalidCallback
	}

	var cb struct {
		OrderID string  `json:"order_id"`
		Status  string  `json:"status"`
		Amount  float64 `json:"amount"`
	}
	if err := json.Unmarshal(decoded, &cb); err != nil {
		return nil, dompayment.ErrInvalidCallback
	}
	if cb.OrderID == "" || cb.Status == "" {
		return nil, dompayment.ErrInvalidCallback
	}

	return &dompayment.Callback{
		ExternalRef: cb.OrderID,
		Status:      liqpayStatus(cb.Status),
		Amount:      cb.Amount,
	}, nil
}

func liqpayStatus(s string) dompayment.Status {
	switch s {
	case "success", "sandbox":
		return dompayment.StatusSucceeded
	case "failure", "error":
		return dompayment.StatusFailed
	case "expired":
		return dompayment.StatusExpired
	default:
		// processing, wait_accept and friends: not terminal yet.
		return dompayment.StatusPending
	}
}
