package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/i18n"
	"github.com/DIYSecurityLAB/dseclab-marketplace/internal/session"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDMiddleware adds a unique request ID to each request.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// LoggerMiddleware emits one structured line per request.
func LoggerMiddleware(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", getRequestID(r.Context())),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// Paths requiring an authenticated session, and paths only guests may
// see. Both are matched after the locale prefix is stripped.
var (
	protectedRoutes = []string{"/account", "/orders"}
	guestOnlyRoutes = []string{"/login", "/register"}
)

// AuthGateMiddleware runs ahead of page rendering. Cookie decryption
// never throws: a cookie that fails to unseal is a logged-out session.
// Logged-out requests to protected paths bounce to the login page with
// the original path as the return-redirect parameter; logged-in
// requests to guest-only paths bounce to the account page.
func AuthGateMiddleware(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale, rest := i18n.StripLocale(r.URL.Path)

			// Keep whatever prefix form the request used.
			prefix := ""
			if strings.HasPrefix(r.URL.Path, "/"+locale+"/") || r.URL.Path == "/"+locale {
				prefix = "/" + locale
			}

			isLoggedIn := sessions.Load(r).IsLoggedIn

			if !isLoggedIn && matchesAny(rest, protectedRoutes) {
				target := prefix + "/login?redirect=" + url.QueryEscape(rest)
				http.Redirect(w, r, target, http.StatusFound)
				return
			}

			if isLoggedIn && matchesAny(rest, guestOnlyRoutes) {
				http.Redirect(w, r, prefix+"/account", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchesAny(path string, routes []string) bool {
	for _, route := range routes {
		if path == route || strings.HasPrefix(path, route+"/") {
			return true
		}
	}
	return false
}
