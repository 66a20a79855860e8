package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/entity"
	"github.com/frogshopping/PharmaCare-POS-sub000/internal/domain/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the replay store.
	ReplayedHeader = "X-Idempotency-Replayed"
	ReplayTTL      = 24 * time.Hour
)

// IdempotencyConfig configures Idempotency.
type IdempotencyConfig struct {
	Repo repository.ReplayRepository
	Log  *zap.Logger
	// TTL defaults to ReplayTTL.
	TTL time.Duration
}

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency guards a write route with the Idempotency-Key header. A repeat
// of a stored request gets the stored response back; reusing a key for a
// different request is a 422. Responses of 500 and above are not stored.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = ReplayTTL
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		clientID := ClientID(c)
		route := c.Request.Method + " " + c.Request.URL.Path

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid request body",
			})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		fingerprint := hex.EncodeToString(sum[:])

		stored, err := cfg.Repo.Find(c.Request.Context(), clientID, key)
		if err != nil {
			cfg.Log.Warn("replay lookup failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if stored != nil {
			if !stored.Matches(route, fingerprint) {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
					"success": false,
					"message": "Idempotency-Key was already used for a different request",
				})
				return
			}
			c.Header(ReplayedHeader, "true")
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			c.Abort()
			return
		}

		capture := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = capture
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		record := &entity.ReplayRecord{
			ClientID:    clientID,
			Key:         key,
			Route:       route,
			Fingerprint: fingerprint,
			Status:      status,
			Body:        capture.body.Bytes(),
			ExpiresAt:   time.Now().Add(ttl),
		}
		if err := cfg.Repo.Save(c.Request.Context(), record); err != nil {
			cfg.Log.Warn("replay store failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// PurgeReplays drops expired replay records every interval until ctx ends.
func PurgeReplays(ctx context.Context, repo repository.ReplayRepository, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.Purge(ctx, now)
			if err != nil {
				log.Warn("replay purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("replay records purged", zap.Int64("count", n))
			}
		}
	}
}
