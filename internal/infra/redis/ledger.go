package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"blindtest-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Ledger is a Redis-backed result store for one game session.
// Layout:
//
//	HSET blindtest:{gameID}:results:{stageID} {questionID} {QuestionResult JSON}
//	SADD blindtest:{gameID}:stages {stageID}
//
// Reset deletes every key of the game, which is the only deletion the
// ledger supports.
type Ledger struct {
	client *redis.Client
	gameID string
}

func NewLedger(client *redis.Client, gameID string) *Ledger {
	return &Ledger{client: client, gameID: gameID}
}

func (l *Ledger) SaveQuestionResults(ctx context.Context, stageID, questionID string, questionIndex int, answers map[string]domain.Answer) error {
	result := domain.QuestionResult{QuestionIndex: questionIndex, AnswersByPlayer: answers}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.HSet(ctx, l.stageKey(stageID), questionID, raw)
	pipe.SAdd(ctx, l.stagesKey(), stageID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save round: %w", err)
	}
	return nil
}

func (l *Ledger) QuestionResults(ctx context.Context, stageID, questionID string) (domain.QuestionResult, bool, error) {
	raw, err := l.client.HGet(ctx, l.stageKey(stageID), questionID).Result()
	if err == redis.Nil {
		return domain.QuestionResult{}, false, nil
	}
	if err != nil {
		return domain.QuestionResult{}, false, fmt.Errorf("load round: %w", err)
	}
	var result domain.QuestionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return domain.QuestionResult{}, false, fmt.Errorf("unmarshal round: %w", err)
	}
	return result, true, nil
}

func (l *Ledger) StageResults(ctx context.Context, stageID string) (map[string]domain.QuestionResult, error) {
	entries, err := l.client.HGetAll(ctx, l.stageKey(stageID)).Result()
	if err != nil {
		return nil, fmt.Errorf("load stage rounds: %w", err)
	}
	out := make(map[string]domain.QuestionResult, len(entries))
	for questionID, raw := range entries {
		var result domain.QuestionResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("unmarshal round %s: %w", questionID, err)
		}
		out[questionID] = result
	}
	return out, nil
}

func (l *Ledger) AllResults(ctx context.Context) (map[string]map[string]domain.QuestionResult, error) {
	stageIDs, err := l.PlayedStageIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]domain.QuestionResult, len(stageIDs))
	for _, stageID := range stageIDs {
		stage, err := l.StageResults(ctx, stageID)
		if err != nil {
			return nil, err
		}
		if len(stage) > 0 {
			out[stageID] = stage
		}
	}
	return out, nil
}

func (l *Ledger) PlayedStageIDs(ctx context.Context) ([]string, error) {
	stageIDs, err := l.client.SMembers(ctx, l.stagesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("load played stages: %w", err)
	}
	return stageIDs, nil
}

func (l *Ledger) Reset(ctx context.Context) error {
	stageIDs, err := l.PlayedStageIDs(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(stageIDs)+1)
	for _, stageID := range stageIDs {
		keys = append(keys, l.stageKey(stageID))
	}
	keys = append(keys, l.stagesKey())
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	return nil
}

func (l *Ledger) stageKey(stageID string) string {
	return "blindtest:" + l.gameID + ":results:" + stageID
}

func (l *Ledger) stagesKey() string {
	return "blindtest:" + l.gameID + ":stages"
}
