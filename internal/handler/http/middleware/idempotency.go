package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/presensi-backend-go/internal/handler/http/response"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

func encodeCached(status int, contentType string, body []byte) string {
	raw, _ := json.Marshal(cachedResponse{Status: status, ContentType: contentType, Body: body})
	return string(raw)
}

func idempotencyKeys(r *http.Request, userID, key string) (cacheKey, lockKey string) {
	cacheKey = "idemp:" + r.Method + ":" + r.URL.Path + ":" + userID + ":" + key
	return cacheKey, cacheKey + ":lock"
}

// capture tees the handler's response so it can be cached.
type capture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (c *capture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *capture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key from the same user. A nil client disables it.
// Redis failures fall through to the handler.
func Idempotency(rdb *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if rdb == nil || key == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			id, _ := IdentityFrom(r.Context())
			cacheKey, lockKey := idempotencyKeys(r, id.UserID, key)
			ctx := r.Context()

			val, err := rdb.Get(ctx, cacheKey).Result()
			switch {
			case err == nil:
				var cached cachedResponse
				if json.Unmarshal([]byte(val), &cached) == nil {
					w.Header().Set("Content-Type", cached.ContentType)
					w.Header().Set(ReplayedHeader, "true")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
			case !errors.Is(err, redis.Nil):
				slog.Warn("idempotency lookup failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			locked, err := rdb.SetNX(ctx, lockKey, "1", idempotencyLockTTL).Result()
			if err != nil {
				slog.Warn("idempotency lock failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !locked {
				response.Conflict(w, "A request with this Idempotency-Key is still being processed")
				return
			}

			rec := &capture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// The client may already be gone; finish the bookkeeping anyway.
			ctx = context.WithoutCancel(ctx)
			if rec.status >= 200 && rec.status < 300 {
				value := encodeCached(rec.status, rec.Header().Get("Content-Type"), rec.body.Bytes())
				if err := rdb.Set(ctx, cacheKey, value, ttl).Err(); err != nil {
					slog.Warn("idempotency store failed", "error", err)
				}
			}
			if err := rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Warn("idempotency unlock failed", "error", err)
			}
		})
	}
}
