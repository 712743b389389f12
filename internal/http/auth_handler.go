package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/auth"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/orders"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/shopify"
)

type AuthHandler struct {
	auth   *auth.Service
	orders orders.Repository
	log    *zap.Logger
}

// NewAuthHandler wires the auth endpoints. orderRepo may be nil when
// the orders projection is disabled.
func NewAuthHandler(authSvc *auth.Service, orderRepo orders.Repository, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authSvc,
		orders: orderRepo,
		log:    log,
	}
}

type loginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequestDTO struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Login verifies credentials; rejections carry the platform's message
// so the form can render it inline.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_credentials", "email and password are required")
		return
	}

	customer, err := h.auth.Login(r.Context(), w, req.Email, req.Password)
	if err != nil {
		var domainErr *shopify.DomainError
		if errors.As(err, &domainErr) {
			respondError(w, http.StatusUnauthorized, "login_failed", domainErr.Message)
			return
		}
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	customer, err := h.auth.Register(r.Context(), w, domain.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		var domainErr *shopify.DomainError
		if errors.As(err, &domainErr) {
			respondError(w, http.StatusUnprocessableEntity, "register_failed", domainErr.Message)
			return
		}
		respondGatewayError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, customer)
}

// Logout destroys the session cookie and sends the shopper home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Session reports the current session without the access token.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	rec := h.auth.Current(r)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"is_logged_in": rec.IsLoggedIn,
		"email":        rec.Email,
		"customer_id":  rec.CustomerID,
	})
}

// AccountOrders lists the logged-in customer's projected orders.
func (h *AuthHandler) AccountOrders(w http.ResponseWriter, r *http.Request) {
	rec, err := h.auth.RequireAuth(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	if h.orders == nil {
		respondJSON(w, http.StatusOK, []domain.Order{})
		return
	}

	list, err := h.orders.ListOrdersByEmail(r.Context(), rec.Email, 50)
	if err != nil {
		h.log.Warn("list account orders failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	respondJSON(w, http.StatusOK, list)
}
