package paymentgw

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const (
	monobankDefaultBaseURL = "https://api.monobank.ua"
	uahISOCode             = 980
)

// MonobankGateway creates invoices through the merchant API and
// authenticates webhooks with hex-encoded HMAC-SHA256 over the raw body.
type MonobankGateway struct {
	token   string
	secret  []byte
	baseURL string
	client  *http.Client
}

func NewMonobankGateway(token, secret, baseURL string) *MonobankGateway {
	if baseURL == "" {
		baseURL = monobankDefaultBaseURL
	}
	return &MonobankGateway{
		token:   token,
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *MonobankGateway) Initiate(ctx context.Context, o *domorder.Order) (*dompayment.Session, error) {
	ref := fmt.Sprintf("MB-%s", uuid.NewString())
	body, err := json.Marshal(map[string]any{
		"amount": int64(math.Round(o.TotalAmount * 100)),
		"ccy":    uahISOCode,
		"merchantPaymInfo": map[string]any{
			"reference":   ref,
			"destination": fmt.Sprintf("Order #%d", o.ID),
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/merchant/invoice/create", bytes.NewReader(body))
	if err != nil {
		return nil, gateway.Wrap("monobank", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Token", g.token)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, gateway.Wrap("monobank", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, gateway.Wrap("monobank", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed struct {
		InvoiceID string `json:"invoiceId"`
		PageURL   string `json:"pageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, gateway.Wrap("monobank", err)
	}
	if parsed.PageURL == "" {
		return nil, gateway.Wrap("monobank", fmt.Errorf("empty invoice page url"))
	}

	return &dompayment.Session{
		Provider:    dompayment.ProviderMonobank,
		ExternalRef: ref,
		CheckoutURL: parsed.PageURL,
		Payload:     map[string]string{"invoice_id": parsed.InvoiceID},
	}, nil
}

func (g *MonobankGateway) VerifySignature(body []byte, signature string) bool {
	if len(body) == 0 || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (g *MonobankGateway) ParseCallback(body []byte) (*dompayment.Callback, error) {
	var cb struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	}
	if err := json.Unmarshal(body, &cb); err != nil {
		return nil, dompayment.ErrInvalidCallback
	}
	if cb.Reference == "" || cb.Status == "" {
		return nil, dompayment.ErrInvalidCallback
	}

	return &dompayment.Callback{
		ExternalRef: cb.Reference,
		Status:      monobankStatus(cb.Status),
		Amount:      float64(cb.Amount) / 100,
	}, nil
}

func monobankStatus(s string) dompayment.Status {
	switch s {
	case "success":
		return dompayment.StatusSucceeded
	case "failure", "reversed":
		return dompayment.StatusFailed
	case "expired":
		return dompayment.StatusExpired
	default:
		// created, processing, hold
		return dompayment.StatusPending
	}
}
