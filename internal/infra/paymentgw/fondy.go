package paymentgw

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const fondyDefaultBaseURL = "https://pay.fondy.eu"

// FondyGateway signs requests with SHA-1 over the merchant secret and all
// non-empty parameter values, sorted by key and joined with "|". Amounts
// are in minor units. Checkout URLs are obtained with a server-side call.
type FondyGateway struct {
	merchantID string
	secret     string
	baseURL    string
	client     *http.Client
}

func NewFondyGateway(merchantID, secret, baseURL string) *FondyGateway {
	if baseURL == "" {
		baseURL = fondyDefaultBaseURL
	}
	return &FondyGateway{
		merchantID: merchantID,
		secret:     secret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *FondyGateway) Initiate(ctx context.Context, o *domorder.Order) (*dompayment.Session, error) {
	ref := fmt.Sprintf("FD-%s", uuid.NewString())
	params := map[string]string{
		"merchant_id": g.merchantID,
		"order_id":    ref,
		"order_desc":  fmt.Sprintf("Order #%d", o.ID),
		"amount":      strconv.FormatInt(int64(math.Round(o.TotalAmount*100)), 10),
		"currency":    defaultCurrency,
	}
	params["signature"] = g.sign(params)

	body, err := json.Marshal(map[string]any{"request": params})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/checkout/url/", bytes.NewReader(body))
	if err != nil {
		return nil, gateway.Wrap("fondy", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, gateway.Wrap("fondy", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, gateway.Wrap("fondy", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed struct {
		Response struct {
			ResponseStatus string `json:"response_status"`
			CheckoutURL    string `json:"checkout_url"`
			ErrorMessage   string `json:"error_message"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, gateway.Wrap("fondy", err)
	}
	if parsed.Response.ResponseStatus != "success" || parsed.Response.CheckoutURL == "" {
		return nil, gateway.Wrap("fondy", fmt.Errorf("checkout rejected: %s", parsed.Response.ErrorMessage))
	}

	return &dompayment.Session{
		Provider:    dompayment.ProviderFondy,
		ExternalRef: ref,
		CheckoutURL: parsed.Response.CheckoutURL,
	}, nil
}

func (g *FondyGateway) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "signature" || params[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, g.secret)
	for _, k := range keys {
		parts = append(parts, params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// callbackParams flattens the callback JSON object into the string map the
// signature is computed over. Numbers keep their original textual form.
func callbackParams(body []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	params := make(map[string]string, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			params[k] = val
		case json.Number:
			params[k] = val.String()
		case bool:
			params[k] = strconv.FormatBool(val)
		case nil:
			// skipped, same as empty values in signing
		default:
			// nested objects are not part of the signature base
		}
	}
	return params, nil
}

func (g *FondyGateway) VerifySignature(body []byte, signature string) bool {
	params, err := callbackParams(body)
	if err != nil {
		return false
	}
	if signature == "" {
		signature = params["signature"]
	}
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(g.sign(params)), []byte(signature))
}

func (g *FondyGateway) ParseCallback(body []byte) (*dompayment.Callback, error) {
	params, err := callbackParams(body)
	if err != nil {
		return nil, dompayment.ErrInvalidCallback
	}

	ref := params["order_id"]
	status := params["order_status"]
	if ref == "" || status == "" {
		return nil, dompayment.ErrInvalidCallback
	}

	var amount float64
	if raw := params["amount"]; raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, dompayment.ErrInvalidCallback
		}
		amount = float64(cents) / 100
	}

	return &dompayment.Callback{
		ExternalRef: ref,
		Status:      fondyStatus(status),
		Amount:      amount,
	}, nil
}

func fondyStatus(s string) dompayment.Status {
	switch s {
	case "approved":
		return dompayment.StatusSucceeded
	case "declined", "reversed":
		return dompayment.StatusFailed
	case "expired":
		return dompayment.StatusExpired
	default:
		// created, processing
		return dompayment.StatusPending
	}
}
