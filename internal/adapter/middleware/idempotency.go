package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"compliance-portal/internal/infrastructure/logging"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxClockSkew = 10 * time.Minute
	storeTimeout = 2 * time.Second
)

// recorder tees the response body so it can be stored for replay.
type recorder struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// replayable reports whether a final response may be served again for the
// same request id. Conflicts and server failures release the id instead so
// the client can retry.
func replayable(status int) bool {
	return status < http.StatusInternalServerError && status != http.StatusConflict
}

// Idempotency makes mutating requests safe to retry. Each request carries
// Ax-Request-Id and Ax-Request-At; the first response for (method, route,
// acting organization, request id) is replayed for ttl. A reused id with a
// different body is a 409.
func Idempotency(rdb *redis.Client, ttl time.Duration, log *zap.Logger) echo.MiddlewareFunc {
	log = logging.OrNop(log)
	store := replayStore{rdb: rdb, ttl: ttl}
	now := func() time.Time { return time.Now().UTC() }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			st, err := readStamp(req.Header, now(), maxClockSkew)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
			org, ok := orgFromRequest(c)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing or unknown " + HeaderOrgCode})
			}

			var body []byte
			if req.Body != nil {
				if body, err = io.ReadAll(req.Body); err != nil {
					return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable request body"})
				}
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			key := replayKey(req.Method, c.Path(), org, st.id)
			entry := replayEntry{Digest: digest(body), RequestAtMS: st.at.UnixMilli(), StoredAt: now()}
			log := log.With(zap.String("key", key))

			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()
			claimed, err := store.reserve(ctx, key, entry)
			if err != nil {
				log.Warn("idempotency store unavailable", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !claimed {
				prev, found, err := store.lookup(ctx, key)
				if err != nil {
					log.Warn("idempotency entry unreadable", zap.Error(err))
				}
				switch {
				case found && prev.Digest != entry.Digest:
					return c.JSON(http.StatusConflict, map[string]string{"error": HeaderRequestID + " reused with different body"})
				case found && prev.replay():
					c.Response().Header().Set(HeaderReplayed, "true")
					return c.Blob(prev.Status, echo.MIMEApplicationJSON, prev.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			// the request context may already be gone; finish bookkeeping regardless
			bg, done := context.WithTimeout(context.Background(), storeTimeout)
			defer done()
			if !replayable(rec.status) {
				if err := store.release(bg, key); err != nil {
					log.Warn("idempotency reservation not released", zap.Error(err))
				}
				return nil
			}
			entry.Status, entry.Body, entry.StoredAt = rec.status, rec.body.Bytes(), now()
			if err := store.complete(bg, key, entry); err != nil {
				log.Warn("idempotency response not stored", zap.Error(err))
			}
			return nil
		}
	}
}
