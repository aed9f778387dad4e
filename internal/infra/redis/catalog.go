package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"blindtest-service/internal/domain"
	"blindtest-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// StageCatalog caches stage question lists in Redis (one JSON blob per
// stage) and falls back to a loader on cache miss, so several service
// instances can share one warmed catalog.
type StageCatalog struct {
	client *redis.Client
	loader memory.StageLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewStageCatalog(client *redis.Client, loader memory.StageLoader, ttl time.Duration) *StageCatalog {
	return &StageCatalog{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *StageCatalog) StageQuestions(ctx context.Context, stageID string) ([]domain.Question, error) {
	key := c.stageKey(stageID)

	if questions, ok := c.fromCache(ctx, key); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(stageID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := c.fromCache(ctx, key); ok {
			return questions, nil
		}

		questions, err := c.loader.LoadStage(ctx, stageID)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(questions)
		if err != nil {
			return nil, fmt.Errorf("marshal stage: %w", err)
		}
		// best-effort cache fill
		_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()

		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *StageCatalog) fromCache(ctx context.Context, key string) ([]domain.Question, bool) {
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, false
	}
	return questions, true
}

func (c *StageCatalog) stageKey(stageID string) string {
	return "blindtest:pack:" + stageID
}

func (c *StageCatalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
