package transport

import (
	"net/http"
	"time"

	"tokoria-be/internal/cart"
	"tokoria-be/internal/logger"
	"tokoria-be/internal/middleware"
	"tokoria-be/internal/order"
	"tokoria-be/internal/product"
	"tokoria-be/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the router needs.
type Services struct {
	Users    user.Service
	Carts    cart.Service
	Orders   order.Service
	Products product.Repository
}

// NewRouter builds the full HTTP surface: public catalog and auth
// endpoints, authenticated cart/order endpoints, an admin status
// endpoint, and the gateway webhook.
func NewRouter(svcs Services) http.Handler {
	auth := &authHandler{users: svcs.Users}
	carts := &cartHandler{carts: svcs.Carts}
	orders := &orderHandler{orders: svcs.Orders}
	products := &productHandler{products: svcs.Products}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Authenticate)
	r.Use(middleware.RateLimit)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", auth.register)
		r.Post("/auth/login", auth.login)

		r.Get("/products", products.list)
		r.Get("/products/{variantID}", products.get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/profile", auth.getProfile)
			r.Put("/profile", auth.updateProfile)

			r.Get("/cart", carts.get)
			r.Post("/cart/items", carts.addItem)
			r.Put("/cart/items/{variantID}", carts.updateItem)
			r.Delete("/cart/items/{variantID}", carts.removeItem)
			r.Delete("/cart", carts.clear)

			r.Post("/checkout", orders.checkout)
			r.Get("/orders", orders.list)
			r.Get("/orders/{orderID}", orders.get)
			r.Post("/orders/{orderID}/cancel", orders.cancel)
			r.Post("/orders/{orderID}/payment-session", orders.retryPaymentSession)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Patch("/orders/{orderID}/status", orders.updateStatus)
		})
	})

	// signature-verified inside the reconciler, no bearer token
	r.Get("/webhooks/payment", orders.paymentCallback)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
