package paymentgw

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	domgateway "example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
)

func fondySign(secret string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := []string{secret}
	for _, k := range keys {
		parts = append(parts, params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

func TestFondyInitiate_FetchesCheckoutURL(t *testing.T) {
	var received map[string]map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/checkout/url/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"response_status": "success",
				"checkout_url":    "https://pay.example/checkout/123",
			},
		})
	}))
	defer srv.Close()

	gw := NewFondyGateway("1396424", "test", srv.URL)
	sess, err := gw.Initiate(context.Background(), &domorder.Order{ID: 7, TotalAmount: 25.0})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(sess.ExternalRef, "FD-"))
	require.Equal(t, "https://pay.example/checkout/123", sess.CheckoutURL)

	params := received["request"]
	require.Equal(t, "1396424", params["merchant_id"])
	require.Equal(t, "2500", params["amount"])
	require.Equal(t, "UAH", params["currency"])
	require.Equal(t, fondySign("test", params), params["signature"])
}

func TestFondyInitiate_RejectedCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": map[string]any{
				"response_status": "failure",
				"error_message":   "invalid merchant",
			},
		})
	}))
	defer srv.Close()

	gw := NewFondyGateway("1396424", "test", srv.URL)
	_, err := gw.Initiate(context.Background(), &domorder.Order{ID: 7, TotalAmount: 25.0})
	require.Error(t, err)
	require.True(t, domgateway.Is(err))
}

func TestFondyVerifySignature(t *testing.T) {
	gw := NewFondyGateway("1396424", "test", "")

	params := map[string]string{
		"order_id":     "FD-abc",
		"order_status": "approved",
		"amount":       "2500",
		"currency":     "UAH",
	}
	params["signature"] = fondySign("test", params)
	body, err := json.Marshal(params)
	require.NoError(t, err)

	require.True(t, gw.VerifySignature(body, ""))
	require.True(t, gw.VerifySignature(body, params["signature"]))
	require.False(t, gw.VerifySignature(body, "deadbeef"))
	require.False(t, gw.VerifySignature([]byte("not json"), ""))
}

func TestFondyVerifySignature_EmptyValuesExcluded(t *testing.T) {
	gw := NewFondyGateway("1396424", "test", "")

	// Empty fields do not participate in the signature base.
	withEmpty := map[string]string{
		"order_id":     "FD-abc",
		"order_status": "approved",
		"amount":       "2500",
		"payment_id":   "",
	}
	sig := fondySign("test", map[string]string{
		"order_id": "FD-abc", "order_status": "approved", "amount": "2500",
	})
	withEmpty["signature"] = sig
	body, err := json.Marshal(withEmpty)
	require.NoError(t, err)

	require.True(t, gw.VerifySignature(body, ""))
}

func TestFondyParseCallback(t *testing.T) {
	gw := NewFondyGateway("1396424", "test", "")

	body := []byte(`{"order_id":"FD-abc","order_status":"approved","amount":2500}`)
	cb, err := gw.ParseCallback(body)
	require.NoError(t, err)
	require.Equal(t, "FD-abc", cb.ExternalRef)
	require.Equal(t, dompayment.StatusSucceeded, cb.Status)
	require.InDelta(t, 25.0, cb.Amount, 0.001)

	_, err = gw.ParseCallback([]byte(`{"order_status":"approved"}`))
	require.ErrorIs(t, err, dompayment.ErrInvalidCallback)
}

func TestFondyStatusNormalization(t *testing.T) {
	require.Equal(t, dompayment.StatusSucceeded, fondyStatus("approved"))
	require.Equal(t, dompayment.StatusFailed, fondyStatus("declined"))
	require.Equal(t, dompayment.StatusFailed, fondyStatus("reversed"))
	require.Equal(t, dompayment.StatusExpired, fondyStatus("expired"))
	require.Equal(t, dompayment.StatusPending, fondyStatus("processing"))
}
