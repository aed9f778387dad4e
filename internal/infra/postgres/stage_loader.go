package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"blindtest-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// StageLoader loads stage question packs stored as JSONB in Postgres.
type StageLoader struct {
	pool *pgxpool.Pool
}

func NewStageLoader(pool *pgxpool.Pool) *StageLoader {
	return &StageLoader{pool: pool}
}

func (l *StageLoader) LoadStage(ctx context.Context, stageID string) ([]domain.Question, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT questions FROM stages WHERE id=$1`, stageID).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrStageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load stage: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal stage: %w", err)
	}
	// The column is the source of truth for content but not for identity.
	for i := range questions {
		questions[i].StageID = stageID
	}
	return questions, nil
}
