package memory

import (
	"context"
	"sync"

	"blindtest-service/internal/domain"
)

// Ledger is the in-memory result store of one game session:
// stageID -> questionID -> QuestionResult. Empty at game start, grows as
// rounds are finalized, fully cleared on Reset. There is no per-question
// deletion; replaying a question overwrites its entry.
type Ledger struct {
	mu      sync.RWMutex
	results map[string]map[string]domain.QuestionResult
}

func NewLedger() *Ledger {
	return &Ledger{results: make(map[string]map[string]domain.QuestionResult)}
}

func (l *Ledger) SaveQuestionResults(_ context.Context, stageID, questionID string, questionIndex int, answers map[string]domain.Answer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stage, ok := l.results[stageID]
	if !ok {
		stage = make(map[string]domain.QuestionResult)
		l.results[stageID] = stage
	}
	stage[questionID] = domain.QuestionResult{
		QuestionIndex:   questionIndex,
		AnswersByPlayer: copyAnswers(answers),
	}
	return nil
}

func (l *Ledger) QuestionResults(_ context.Context, stageID, questionID string) (domain.QuestionResult, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result, ok := l.results[stageID][questionID]
	if !ok {
		return domain.QuestionResult{}, false, nil
	}
	result.AnswersByPlayer = copyAnswers(result.AnswersByPlayer)
	return result, true, nil
}

func (l *Ledger) StageResults(_ context.Context, stageID string) (map[string]domain.QuestionResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]domain.QuestionResult, len(l.results[stageID]))
	for questionID, result := range l.results[stageID] {
		result.AnswersByPlayer = copyAnswers(result.AnswersByPlayer)
		out[questionID] = result
	}
	return out, nil
}

func (l *Ledger) AllResults(_ context.Context) (map[string]map[string]domain.QuestionResult, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]map[string]domain.QuestionResult, len(l.results))
	for stageID, stage := range l.results {
		inner := make(map[string]domain.QuestionResult, len(stage))
		for questionID, result := range stage {
			result.AnswersByPlayer = copyAnswers(result.AnswersByPlayer)
			inner[questionID] = result
		}
		out[stageID] = inner
	}
	return out, nil
}

func (l *Ledger) PlayedStageIDs(_ context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.results))
	for stageID, stage := range l.results {
		if len(stage) > 0 {
			out = append(out, stageID)
		}
	}
	return out, nil
}

func (l *Ledger) Reset(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = make(map[string]map[string]domain.QuestionResult)
	return nil
}

// copyAnswers keeps stored rounds immutable: callers never share a map with
// the ledger.
func copyAnswers(in map[string]domain.Answer) map[string]domain.Answer {
	out := make(map[string]domain.Answer, len(in))
	for playerID, answer := range in {
		out[playerID] = answer
	}
	return out
}
