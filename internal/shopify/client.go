package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

var (
	// ErrCartNotFound is returned when the platform no longer knows the
	// cart id. Callers treat the cart as empty, not as a failure.
	ErrCartNotFound = errors.New("cart not found")

	// ErrProductNotFound is returned when no product matches a handle.
	ErrProductNotFound = errors.New("product not found")
)

// UserError is a domain-level error reported inside a successful GraphQL
// response (userErrors / customerUserErrors).
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// DomainError carries the first user-facing error message of a mutation
// response. It is surfaced verbatim and never retried.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// firstUserError converts a non-empty user error list into a DomainError.
func firstUserError(errs []UserError) error {
	if len(errs) == 0 {
		return nil
	}
	return &DomainError{Message: errs[0].Message}
}

// Client talks to the commerce platform's storefront GraphQL API. Every
// call runs through a circuit breaker; transport failures and an open
// breaker surface the same way.
type Client struct {
	gql     *graphql.Client
	token   string
	breaker *gobreaker.CircuitBreaker[struct{}]
	log     *zap.Logger
}

func NewClient(endpoint, token string, log *zap.Logger) *Client {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:     "storefront-api",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		gql:     graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		token:   token,
		breaker: cb,
		log:     log,
	}
}

// run executes a single GraphQL request and decodes the data payload
// into out.
func (c *Client) run(ctx context.Context, req *graphql.Request, out interface{}) error {
	req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.gql.Run(ctx, req, out)
	})
	if err != nil {
		c.log.Warn("storefront request failed", zap.Error(err))
		return fmt.Errorf("storefront request: %w", err)
	}
	return nil
}
