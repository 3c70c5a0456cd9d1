package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pristeneo/storefront/pkg/logger"
)

// CartSessionOptions configures the cart cookie.
type CartSessionOptions struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// CartSession resolves the cart session from its cookie, issuing a fresh id
// when the cookie is missing or not a UUID.
func CartSession(opts CartSessionOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(opts.CookieName); err == nil {
				if parsed, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
					sessionID = parsed.String()
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(opts.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   opts.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type cartSessionKey struct{}

// CartSessionFromContext returns the cart session bound by CartSession, or "".
func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	sessionID, _ := ctx.Value(cartSessionKey{}).(string)
	return sessionID
}

func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, cartSessionKey{}, sessionID)
}
