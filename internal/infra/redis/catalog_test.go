package redis

import (
	"context"
	"testing"
	"time"

	"blindtest-service/internal/domain"
	"blindtest-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestStageCatalogCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		StageLoader: memory.NewStaticStageLoader(map[string][]domain.Question{
			"pop_1": sampleStage(),
		}),
	}
	catalog := NewStageCatalog(newClient(mr), loader, time.Minute)

	questions, err := catalog.StageQuestions(context.Background(), "pop_1")
	if err != nil {
		t.Fatalf("load stage: %v", err)
	}
	if len(questions) != 2 || questions[0].ID != "POP01_Q01" {
		t.Fatalf("unexpected questions %+v", questions)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("blindtest:pack:pop_1") {
		t.Fatalf("expected stage cached in redis")
	}

	// Second call should hit the redis cache, loader not incremented.
	cached, err := catalog.StageQuestions(context.Background(), "pop_1")
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != 2 || cached[1].CorrectAnswer.Song != "Toxic" {
		t.Fatalf("cache lost question data: %+v", cached)
	}
}

type countingLoader struct {
	memory.StageLoader
	calls int
}

func (l *countingLoader) LoadStage(ctx context.Context, stageID string) ([]domain.Question, error) {
	l.calls++
	return l.StageLoader.LoadStage(ctx, stageID)
}

func sampleStage() []domain.Question {
	return []domain.Question{
		{
			ID:            "POP01_Q01",
			StageID:       "pop_1",
			CorrectAnswer: domain.CorrectAnswer{Artist: "Shakira ft. Wyclef Jean", Song: "Hips Don't Lie"},
		},
		{
			ID:            "POP01_Q03",
			StageID:       "pop_1",
			Order:         1,
			CorrectAnswer: domain.CorrectAnswer{Artist: "Britney Spears", Song: "Toxic"},
		},
	}
}
