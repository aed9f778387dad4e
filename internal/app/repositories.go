package app

import (
	"context"

	"blindtest-service/internal/domain"
)

// SessionRepository abstracts how game sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(gameID string) *GameSession
	Get(gameID string) (*GameSession, bool)
	DeleteIfEmpty(gameID string)
}

// QuestionBank loads the static question content of a stage
// (from cache/backing store).
type QuestionBank interface {
	StageQuestions(ctx context.Context, stageID string) ([]domain.Question, error)
}

// ResultLedger stores the finalized answers of one game session, keyed by
// (stage, question). Saving the same question again overwrites the previous
// entry; the only deletion is a full Reset. Lookups for never-played keys
// report absence, never an error.
type ResultLedger interface {
	SaveQuestionResults(ctx context.Context, stageID, questionID string, questionIndex int, answers map[string]domain.Answer) error
	QuestionResults(ctx context.Context, stageID, questionID string) (domain.QuestionResult, bool, error)
	StageResults(ctx context.Context, stageID string) (map[string]domain.QuestionResult, error)
	AllResults(ctx context.Context) (map[string]map[string]domain.QuestionResult, error)
	PlayedStageIDs(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
}
