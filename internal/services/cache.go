package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ResponseCache stores model replies by key. Get reports a miss with ok=false.
type ResponseCache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(ctx context.Context, url string) (ResponseCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisCache{client: client, prefix: "careerlink:ai:"}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// cachedGemini serves repeated prompts from a ResponseCache. Only replies that
// carry a JSON object are stored. Embeddings pass through.
type cachedGemini struct {
	GeminiService
	cache ResponseCache
	ttl   time.Duration
}

func NewCachedGeminiService(inner GeminiService, cache ResponseCache, ttl time.Duration) GeminiService {
	return &cachedGemini{GeminiService: inner, cache: cache, ttl: ttl}
}

func (g *cachedGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	key := promptKey(g.ModelName(), prompt, temperature)

	if val, ok, err := g.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("⚠️ AI cache read failed")
	} else if ok && replyUsable(val) {
		return val, nil
	}

	text, err := g.GeminiService.GenerateText(ctx, prompt, temperature)
	if err != nil {
		return "", err
	}

	if !replyUsable(text) {
		log.Debug().Str("model", g.ModelName()).Msg("🗑️ Reply has no JSON, not caching")
		return text, nil
	}
	if err := g.cache.Set(ctx, key, text, g.ttl); err != nil {
		log.Warn().Err(err).Msg("⚠️ AI cache write failed")
	}
	return text, nil
}

func replyUsable(text string) bool {
	_, err := ExtractJSONObject(text)
	return err == nil
}

func (g *cachedGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxAttempts int) (string, error) {
	return generateWithRetry(ctx, g, prompt, temperature, maxAttempts)
}

func promptKey(model, prompt string, temperature float32) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%.2f|%s", model, temperature, prompt)))
	return hex.EncodeToString(sum[:])
}
