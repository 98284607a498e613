// Package handler exposes the storefront over HTTP/JSON.
package handler

import (
	"net/http"

	"bumpbox-be/internal/cart"
	"bumpbox-be/internal/catalog"
	"bumpbox-be/internal/listing"
	"bumpbox-be/internal/metrics"
	"bumpbox-be/internal/order"
	"bumpbox-be/internal/payment"
	"bumpbox-be/internal/utils"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

type Handler struct {
	catalog  catalog.Service
	carts    cart.Service
	orders   order.Service
	payments payment.Service
	listings listing.Service
	metrics  *metrics.Registry
}

type Deps struct {
	Catalog  catalog.Service
	Carts    cart.Service
	Orders   order.Service
	Payments payment.Service
	Listings listing.Service
	Metrics  *metrics.Registry
}

func New(d Deps) *Handler {
	m := d.Metrics
	if m == nil {
		m = metrics.NewRegistry()
	}

	return &Handler{
		catalog:  d.Catalog,
		carts:    d.Carts,
		orders:   d.Orders,
		payments: d.Payments,
		listings: d.Listings,
		metrics:  m,
	}
}

// Register mounts the session-scoped API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /items", h.listItems)
	mux.HandleFunc("GET /items/{id}", h.getItem)
	mux.HandleFunc("GET /lockers", h.listLockers)
	mux.HandleFunc("GET /categories", h.listCategories)

	mux.HandleFunc("GET /cart", h.getCart)
	mux.HandleFunc("POST /cart/items", h.addCartItem)
	mux.HandleFunc("PATCH /cart/items/{id}", h.updateCartItem)
	mux.HandleFunc("DELETE /cart/items/{id}", h.removeCartItem)
	mux.HandleFunc("DELETE /cart", h.clearCart)

	mux.HandleFunc("POST /checkout", h.checkout)
	mux.HandleFunc("POST /checkout/payment", h.checkoutWithPayment)
	mux.HandleFunc("POST /checkout/qr", h.generateQR)
	mux.HandleFunc("GET /checkout/qr", h.qrStatus)
	mux.HandleFunc("GET /checkout/instructions/{method}", h.paymentInstructions)
	mux.HandleFunc("GET /orders/last", h.lastOrder)

	mux.HandleFunc("POST /listings", h.createListing)
	mux.HandleFunc("GET /listings/last", h.lastListing)
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.metrics.Snapshot())
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return utils.DecodeStrict(http.MaxBytesReader(w, r.Body, maxJSONBody), v)
}

func sessionID(r *http.Request) (string, bool) {
	return utils.GetSessionIDFromContext(r.Context())
}
