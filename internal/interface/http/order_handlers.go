package http

import (
	"errors"
	"net/http"
)

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	orders, err := a.orderSvc.ListOrders(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	payload := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		payload = append(payload, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": payload})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
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

	o, err := a.orderSvc.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
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

	o, err := a.orderSvc.Cancel(r.Context(), userID, orderID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}
