package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	dompayment "example.com/ecom-backend/internal/domain/payment"
)

const maxCallbackBody = 1 << 20

type openPaymentRequest struct {
	Provider string `json:"provider" validate:"required"`
}

func (a *API) handleOpenPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	orderID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req openPaymentRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	// Ownership check before touching the provider.
	if _, err := a.orderSvc.GetOrder(r.Context(), userID, orderID); err != nil {
		handleDomainError(w, err)
		return
	}

	session, err := a.paymentSvc.OpenSession(r.Context(), orderID, dompayment.Provider(req.Provider))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSession(session))
}

func (a *API) handlePaymentCallback(w http.ResponseWriter, r *http.Request) {
	provider := dompayment.Provider(chi.URLParam(r, "provider"))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCallbackBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("unreadable body"))
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Signature")
	if signature == "" {
		signature = r.Header.Get("X-Sign")
	}

	outcome, err := a.paymentSvc.HandleCallback(r.Context(), provider, body, signature)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  outcome.Status,
		"applied": outcome.Applied,
	})
}
