package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/session"
)

// RouterConfig carries the pieces the router needs beyond its handlers.
type RouterConfig struct {
	Sessions       *session.Manager
	RequestTimeout time.Duration
	Logger         *zap.Logger
}

// NewRouter assembles the storefront's route surface: the JSON API, the
// webhook endpoint, and the auth gate ahead of everything.
func NewRouter(cfg RouterConfig, carts *CartHandler, authH *AuthHandler, products *ProductHandler, webhooks *WebhookHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(AuthGateMiddleware(cfg.Sessions))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Post("/", carts.EnsureCart)
			r.Get("/", carts.GetCart)
			r.Post("/lines", carts.AddLines)
			r.Patch("/lines", carts.UpdateLine)
			r.Delete("/lines", carts.RemoveLines)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authH.Login)
			r.Post("/register", authH.Register)
			r.Post("/logout", authH.Logout)
			r.Get("/session", authH.Session)
		})

		r.Get("/account/orders", authH.AccountOrders)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", products.List)
			r.Get("/{handle}", products.ByHandle)
		})
	})

	r.Post("/api/webhooks", webhooks.Handle)

	return r
}
