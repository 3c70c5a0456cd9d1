package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/pristeneo/storefront/api/responses"
	pkgerrors "github.com/pristeneo/storefront/pkg/errors"
	"github.com/pristeneo/storefront/pkg/logger"
	pkgredis "github.com/pristeneo/storefront/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
	idempotencyHeader      = "Idempotency-Key"
	replayedHeader         = "Idempotent-Replayed"
	// pendingTTL bounds how long a reservation survives a request that never
	// completes, e.g. after a panic.
	pendingTTL = 2 * time.Minute
)

// Form submissions whose repeat would send email again, keyed by
// "METHOD route-pattern".
var idempotentRoutes = map[string]time.Duration{
	http.MethodPost + " /api/cart-order":    defaultIdempotencyTTL,
	http.MethodPost + " /api/contact":       defaultIdempotencyTTL,
	http.MethodPost + " /api/cart/checkout": criticalIdempotencyTTL,
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	ttl, ok := idempotentRoutes[method+" "+pattern]
	return ttl, ok
}

// storedResponse is either a completed response or, with Pending set, the
// reservation held while the first request runs.
type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        string `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

func (s storedResponse) replay(w http.ResponseWriter) {
	if s.ContentType != "" {
		w.Header().Set("Content-Type", s.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(s.Status)
	_, _ = io.WriteString(w, s.Body)
}

// Idempotency replays the stored response when a form submission is repeated
// with the same Idempotency-Key. The header is optional; requests without it
// run normally. The key is reserved before the handler runs, so a concurrent
// duplicate gets 409 instead of sending email twice. Server failures release
// the reservation so a retry can succeed.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ttl, guarded := routeTTL(r.Method, routePattern(r))
			id := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !guarded || store == nil || id == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteAckError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintOf(body)
			key := store.IdempotencyKey(strings.Join([]string{CartSessionFromContext(ctx), r.Method, r.URL.Path}, "|"), id)

			if prior, found, err := loadRecord(ctx, store, key); err != nil {
				responses.WriteAckError(ctx, logg, w, err)
				return
			} else if found {
				respondToDuplicate(ctx, logg, w, prior, fingerprint)
				return
			}

			reservation, _ := json.Marshal(storedResponse{Pending: true, Fingerprint: fingerprint})
			reserved, err := store.SetNX(ctx, key, string(reservation), pendingTTL)
			if err != nil {
				responses.WriteAckError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				// Lost the race to a concurrent request with the same key.
				prior, found, err := loadRecord(ctx, store, key)
				if err != nil {
					responses.WriteAckError(ctx, logg, w, err)
					return
				}
				if !found {
					prior = storedResponse{Pending: true, Fingerprint: fingerprint}
				}
				respondToDuplicate(ctx, logg, w, prior, fingerprint)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)
			status := capture.statusCode()
			if status >= http.StatusInternalServerError {
				if err := store.Del(ctx, key); err != nil && logg != nil {
					logg.Error(ctx, "release idempotency key", err)
				}
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.String(),
				Fingerprint: fingerprint,
			})
			if err == nil {
				err = store.Set(ctx, key, string(payload), ttl)
			}
			if err != nil && logg != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

func loadRecord(ctx context.Context, store pkgredis.IdempotencyStore, key string) (storedResponse, bool, error) {
	var record storedResponse
	raw, err := store.Get(ctx, key)
	switch {
	case errors.Is(err, redis.Nil):
		return record, false, nil
	case err != nil:
		return record, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	case raw == "":
		return record, false, nil
	}
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return record, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return record, true, nil
}

func respondToDuplicate(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, prior storedResponse, fingerprint string) {
	switch {
	case prior.Fingerprint != fingerprint:
		responses.WriteAckError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case prior.Pending:
		responses.WriteAckError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this idempotency key is in progress"))
	default:
		prior.replay(w)
	}
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}
