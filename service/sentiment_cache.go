package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const sentimentCacheTTL = 24 * time.Hour

type cachedSentiment struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// SentimentCache is an optional redis-backed cache of classification
// results, keyed by a hash of the preprocessed text. Every operation is
// best-effort: unreachable redis only costs a reclassification.
type SentimentCache struct {
	client *redis.Client
	ctx    context.Context
}

// NewSentimentCache returns nil when the redis connection cannot be
// established; the classifier treats a nil cache as a permanent miss.
func NewSentimentCache(addr, password string) *SentimentCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.WithError(err).Warn("redis unavailable, sentiment cache disabled")
		return nil
	}
	return &SentimentCache{client: client, ctx: ctx}
}

func sentimentCacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("sentiment:%s", hex.EncodeToString(sum[:]))
}

func (c *SentimentCache) Get(text string) (string, float64, bool) {
	data, err := c.client.Get(c.ctx, sentimentCacheKey(text)).Result()
	if err != nil {
		return "", 0, false
	}
	var entry cachedSentiment
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return "", 0, false
	}
	return entry.Label, entry.Confidence, true
}

func (c *SentimentCache) Set(text, label string, confidence float64) {
	data, err := json.Marshal(cachedSentiment{Label: label, Confidence: confidence})
	if err != nil {
		return
	}
	if err := c.client.Set(c.ctx, sentimentCacheKey(text), data, sentimentCacheTTL).Err(); err != nil {
		log.WithError(err).Debug("sentiment cache write failed")
	}
}
