package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "example.com/ecom-backend/internal/domain/cart"
	domdelivery "example.com/ecom-backend/internal/domain/delivery"
	domgateway "example.com/ecom-backend/internal/domain/gateway"
	domorder "example.com/ecom-backend/internal/domain/order"
	dompayment "example.com/ecom-backend/internal/domain/payment"
	domproduct "example.com/ecom-backend/internal/domain/product"
	"example.com/ecom-backend/internal/infra/metrics"
	"example.com/ecom-backend/internal/infra/security"
	cartuc "example.com/ecom-backend/internal/usecase/cart"
	checkoutuc "example.com/ecom-backend/internal/usecase/checkout"
	deliveryuc "example.com/ecom-backend/internal/usecase/delivery"
	orderuc "example.com/ecom-backend/internal/usecase/order"
	paymentuc "example.com/ecom-backend/internal/usecase/payment"
)

type TokenService interface {
	ParseToken(token string) (*security.Claims, error)
}

type API struct {
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	paymentSvc  *paymentuc.Service
	deliverySvc *deliveryuc.Service
	orderSvc    *orderuc.Service
	validator   *validator.Validate
	tokenSvc    TokenService
}

type Dependencies struct {
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	PaymentService  *paymentuc.Service
	DeliveryService *deliveryuc.Service
	OrderService    *orderuc.Service
	TokenService    TokenService
}

func NewAPI(deps Dependencies) *API {
	return &API{
		cartSvc:     deps.CartService,
		checkoutSvc: deps.CheckoutService,
		paymentSvc:  deps.PaymentService,
		deliverySvc: deps.DeliveryService,
		orderSvc:    deps.OrderService,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/delivery/{carrier}", func(dr chi.Router) {
			dr.Get("/regions", a.handleListRegions)
			dr.Get("/cities", a.handleListCities)
			dr.Get("/points", a.handleListPoints)
		})

		// Provider callbacks authenticate through their signature, not a
		// bearer token.
		r.Post("/payments/{provider}/callback", a.handlePaymentCallback)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me/cart", a.handleGetCart)
			pr.Delete("/me/cart", a.handleClearCart)
			pr.Post("/me/cart/items", a.handleAddCartItem)
			pr.Put("/me/cart/items/{itemID}", a.handleUpdateCartItem)
			pr.Delete("/me/cart/items/{itemID}", a.handleRemoveCartItem)
			pr.Post("/me/checkout", a.handleCheckout)
			pr.Get("/me/orders", a.handleListOrders)
			pr.Get("/me/orders/{id}", a.handleGetOrder)
			pr.Post("/me/orders/{id}/cancel", a.handleCancelOrder)
			pr.Post("/me/orders/{id}/payment", a.handleOpenPayment)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapCart(cart *domcart.DetailedCart) map[string]any {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, map[string]any{
			"item_id":    item.ID,
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"name":       item.ProductName,
			"price":      item.ProductPrice,
		})
	}
	return map[string]any{
		"user_id": cart.UserID,
		"items":   items,
		"total":   cart.Total(),
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	lines := make([]map[string]any, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, map[string]any{
			"product_id": line.ProductID,
			"name":       line.Name,
			"unit_price": line.UnitPrice,
			"quantity":   line.Quantity,
		})
	}
	return map[string]any{
		"id":           o.ID,
		"user_id":      o.UserID,
		"status":       o.Status,
		"total_amount": o.TotalAmount,
		"created_at":   o.CreatedAt,
		"lines":        lines,
	}
}

func mapDelivery(d *domdelivery.Delivery) map[string]any {
	return map[string]any{
		"id":              d.ID,
		"order_id":        d.OrderID,
		"carrier":         d.Carrier,
		"point_ref":       d.PointRef,
		"recipient_name":  d.RecipientName,
		"recipient_phone": d.RecipientPhone,
		"tracking_number": d.TrackingNumber,
		"status":          d.Status,
	}
}

func mapSession(s *dompayment.Session) map[string]any {
	return map[string]any{
		"provider":     s.Provider,
		"external_ref": s.ExternalRef,
		"checkout_url": s.CheckoutURL,
		"payload":      s.Payload,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	var gwErr *domgateway.Error
	switch {
	case errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domdelivery.ErrInvalidContact),
		errors.Is(err, domproduct.ErrOutOfStock),
		errors.Is(err, domorder.ErrEmptyCart),
		errors.Is(err, domorder.ErrCheckoutValidation):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domcart.ErrCartNotFound),
		errors.Is(err, domcart.ErrItemNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, dompayment.ErrPaymentNotFound),
		errors.Is(err, domdelivery.ErrPointNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, dompayment.ErrPaymentExists):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domgateway.ErrUnsupported),
		errors.Is(err, dompayment.ErrInvalidCallback):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, dompayment.ErrInvalidSignature):
		respondError(w, http.StatusForbidden, err)
	case errors.As(err, &gwErr):
		respondError(w, http.StatusBadGateway, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
