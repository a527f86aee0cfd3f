package http

import (
	"errors"
	"net/http"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
)

type checkoutRequest struct {
	Carrier        string `json:"carrier" validate:"required"`
	PointRef       string `json:"point_ref" validate:"required"`
	RecipientName  string `json:"recipient_name" validate:"required"`
	RecipientPhone string `json:"recipient_phone" validate:"required"`
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.checkoutSvc.Checkout(r.Context(), userID,
		domdelivery.Selection{
			Carrier:  domdelivery.Carrier(req.Carrier),
			PointRef: req.PointRef,
		},
		domdelivery.Contact{
			Name:  req.RecipientName,
			Phone: req.RecipientPhone,
		},
	)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"order":    mapOrder(res.Order),
		"delivery": mapDelivery(res.Delivery),
	})
}
