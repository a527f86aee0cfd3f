package http

import (
	"errors"
	"net/http"
)

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := a.cartSvc.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if _, err := a.cartSvc.UpdateItem(r.Context(), userID, itemID, req.Quantity); err != nil {
		handleDomainError(w, err)
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	if _, err := a.cartSvc.RemoveItem(r.Context(), userID, itemID); err != nil {
		handleDomainError(w, err)
		return
	}

	cart, err := a.cartSvc.GetCart(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	if err := a.cartSvc.Clear(r.Context(), userID); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
