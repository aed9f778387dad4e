package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"blindtest-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// StageLoader fetches stage content from a backing store (files, document DB).
type StageLoader interface {
	LoadStage(ctx context.Context, stageID string) ([]domain.Question, error)
}

// StageCatalog caches stage question lists with TTL to avoid repeated
// loader hits while a stage is being played.
type StageCatalog struct {
	loader StageLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedStage
}

type cachedStage struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewStageCatalog(loader StageLoader, ttl time.Duration) *StageCatalog {
	return &StageCatalog{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedStage),
	}
}

func (c *StageCatalog) StageQuestions(ctx context.Context, stageID string) ([]domain.Question, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[stageID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.questions, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(stageID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[stageID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.questions, nil
		}
		c.mu.RUnlock()

		questions, err := c.loader.LoadStage(ctx, stageID)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.cache[stageID] = cachedStage{
			questions: questions,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *StageCatalog) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// StaticStageLoader serves stages from a fixed map (useful for tests/demos).
type StaticStageLoader struct {
	stages map[string][]domain.Question
}

func NewStaticStageLoader(stages map[string][]domain.Question) *StaticStageLoader {
	return &StaticStageLoader{stages: stages}
}

func (l *StaticStageLoader) LoadStage(_ context.Context, stageID string) ([]domain.Question, error) {
	if questions, ok := l.stages[stageID]; ok {
		return questions, nil
	}
	return nil, domain.ErrStageNotFound
}
