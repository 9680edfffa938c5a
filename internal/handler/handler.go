// Package handler exposes the REST API over the domain services.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ventify/salesdesk/internal/domain/address"
	"github.com/ventify/salesdesk/internal/domain/client"
	"github.com/ventify/salesdesk/internal/domain/dashboard"
	"github.com/ventify/salesdesk/internal/domain/product"
	"github.com/ventify/salesdesk/internal/domain/purchase"
)

// Handler holds the domain dependencies behind the REST routes.
type Handler struct {
	clients   client.Repository
	products  product.Repository
	addresses *address.Service
	purchases *purchase.Service
	dashboard *dashboard.Service
	validate  *validator.Validate
}

// New constructs a Handler with the required domain dependencies.
func New(
	clients client.Repository,
	products product.Repository,
	addresses *address.Service,
	purchases *purchase.Service,
	dash *dashboard.Service,
) *Handler {
	return &Handler{
		clients:   clients,
		products:  products,
		addresses: addresses,
		purchases: purchases,
		dashboard: dash,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", h.createClient)
			r.Get("/", h.listClients)
			r.Get("/{id}", h.getClient)
			r.Patch("/{id}", h.updateClient)
			r.Delete("/{id}", h.deleteClient)
			r.Get("/{id}/purchases", h.listClientPurchases)
			r.Get("/{id}/addresses", h.listClientAddresses)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", h.createProduct)
			r.Get("/", h.listProducts)
			r.Get("/{id}", h.getProduct)
			r.Patch("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Post("/", h.createAddress)
			r.Patch("/{id}", h.updateAddress)
			r.Delete("/{id}", h.deleteAddress)
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", h.createPurchase)
			r.Get("/", h.listPurchases)
			r.Get("/{id}", h.getPurchase)
		})

		r.Get("/dashboard", h.getDashboard)
	})

	return r
}
