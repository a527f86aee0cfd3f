package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	domdelivery "example.com/ecom-backend/internal/domain/delivery"
)

func carrierParam(r *http.Request) (domdelivery.Carrier, error) {
	carrier := domdelivery.Carrier(chi.URLParam(r, "carrier"))
	if !carrier.IsValid() {
		return "", errors.New("unknown carrier")
	}
	return carrier, nil
}

func (a *API) handleListRegions(w http.ResponseWriter, r *http.Request) {
	carrier, err := carrierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	regions, err := a.deliverySvc.Regions(r.Context(), carrier)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"regions": regions})
}

func (a *API) handleListCities(w http.ResponseWriter, r *http.Request) {
	carrier, err := carrierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	regionRef := r.URL.Query().Get("region_ref")
	if regionRef == "" {
		respondError(w, http.StatusBadRequest, errors.New("region_ref is required"))
		return
	}

	cities, err := a.deliverySvc.Cities(r.Context(), carrier, regionRef)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

func (a *API) handleListPoints(w http.ResponseWriter, r *http.Request) {
	carrier, err := carrierParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	cityRef := r.URL.Query().Get("city_ref")
	if cityRef == "" {
		respondError(w, http.StatusBadRequest, errors.New("city_ref is required"))
		return
	}

	points, err := a.deliverySvc.Points(r.Context(), carrier, cityRef)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}
