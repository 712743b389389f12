package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/domain"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/session"
)

// ErrUnauthenticated is terminal for the calling code path: protected
// content must not render.
var ErrUnauthenticated = errors.New("authentication required")

// Gateway is the slice of the platform client the auth layer needs.
type Gateway interface {
	CreateAccessToken(ctx context.Context, email, password string) (string, error)
	GetCustomer(ctx context.Context, accessToken string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, input domain.RegisterInput) (*domain.Customer, error)
}

type Service struct {
	gateway  Gateway
	sessions *session.Manager
	log      *zap.Logger
}

func NewService(gateway Gateway, sessions *session.Manager, log *zap.Logger) *Service {
	return &Service{
		gateway:  gateway,
		sessions: sessions,
		log:      log,
	}
}

// Login verifies credentials against the platform and seals a session
// into the response. Credential rejections carry the platform's first
// user-facing message verbatim; there is no retry.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*domain.Customer, error) {
	token, err := s.gateway.CreateAccessToken(ctx, email, password)
	if err != nil {
		return nil, err
	}

	customer, err := s.gateway.GetCustomer(ctx, token)
	if err != nil {
		return nil, err
	}

	rec := session.Record{
		IsLoggedIn:          true,
		Email:               customer.Email,
		CustomerID:          customer.ID,
		CustomerAccessToken: token,
	}
	if err := s.sessions.Save(w, rec); err != nil {
		return nil, err
	}

	s.log.Info("customer logged in", zap.String("customer_id", customer.ID))
	return customer, nil
}

// Register creates a customer account, then logs it straight in.
func (s *Service) Register(ctx context.Context, w http.ResponseWriter, input domain.RegisterInput) (*domain.Customer, error) {
	if _, err := s.gateway.CreateCustomer(ctx, input); err != nil {
		return nil, err
	}
	return s.Login(ctx, w, input.Email, input.Password)
}

// Logout destroys the session cookie outright.
func (s *Service) Logout(w http.ResponseWriter) {
	s.sessions.Destroy(w)
}

// Current returns whatever record the request carries; never an error.
func (s *Service) Current(r *http.Request) session.Record {
	return s.sessions.Load(r)
}

// RequireAuth loads and verifies the session. Absent or invalid cookies
// make protected code paths unreachable.
func (s *Service) RequireAuth(r *http.Request) (session.Record, error) {
	rec := s.sessions.Load(r)
	if !rec.IsLoggedIn {
		return session.Anonymous(), ErrUnauthenticated
	}
	return rec, nil
}
