// Package cache provides caching implementations for external collaborators.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"logo_backend/internal/feature/logodetection/usecase"
)

const (
	defaultTTL       = 24 * time.Hour
	defaultNamespace = "brands"
)

// CachingRecognizer decorates a Recognizer with Redis caching.
// Identical crops sent with the same instruction are answered from Redis
// instead of calling the model again. Only successful answers are stored.
type CachingRecognizer struct {
	inner     usecase.Recognizer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.Recognizer = (*CachingRecognizer)(nil)

// NewCachingRecognizer decorates a Recognizer with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "brands".
// The model name should be part of the namespace so that switching models does not
// serve stale answers.
func NewCachingRecognizer(rdb *redis.Client, ttl time.Duration, inner usecase.Recognizer, namespace string) *CachingRecognizer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingRecognizer{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: safe(namespace),
	}
}

// Recognize returns the cached answer for the crop if present, otherwise calls the inner recognizer.
func (c *CachingRecognizer) Recognize(ctx context.Context, imageJPEG []byte, instruction string) (string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Recognize(ctx, imageJPEG, instruction)
	}

	key := c.cacheKey(imageJPEG, instruction)

	// 1) Check cache
	if v, err := c.rdb.Get(ctx, key).Result(); err == nil {
		return v, nil
	} else if err != redis.Nil {
		slog.Warn("recognition cache read failed", "error", err, "key", key)
	}

	// 2) Fallback to the model
	text, err := c.inner.Recognize(ctx, imageJPEG, instruction)
	if err != nil {
		return "", err
	}

	// 3) Store in cache (best effort)
	if err := c.rdb.Set(ctx, key, text, c.ttl).Err(); err != nil {
		slog.Warn("recognition cache write failed", "error", err, "key", key)
	}

	return text, nil
}

// cacheKey generates a cache key from a digest of the crop and the instruction.
func (c *CachingRecognizer) cacheKey(imageJPEG []byte, instruction string) string {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write([]byte(instruction))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(imageJPEG)
	return fmt.Sprintf("%s:%s", c.namespace, hex.EncodeToString(h.Sum(nil)))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
