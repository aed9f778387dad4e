// Package scoring turns raw stored answers into per-question verdicts and
// aggregates them into ranked leaderboards. Scores are always recomputed
// from the raw answers so a scoring-rule change applies retroactively to
// everything already in the ledger.
package scoring

import (
	"blindtest-service/internal/domain"
	"blindtest-service/internal/matching"
)

// ScoreAnswer scores one player's answer against a question. A nil answer
// (player never submitted) yields the zero result, not an error. A question
// without a canonical answer is broken content and fails fast.
//
// The answer is checked against the full candidate pool (the canonical
// answer plus every accepted alternative) and the best-scoring candidate's
// breakdown is returned; ties keep the first candidate in pool order.
func ScoreAnswer(ans *domain.Answer, q domain.Question) (domain.ScoreResult, error) {
	if q.CorrectAnswer == (domain.CorrectAnswer{}) {
		return domain.ScoreResult{}, domain.ErrMissingCorrectAnswer
	}
	if ans == nil {
		return domain.ScoreResult{}, nil
	}

	pool := make([]domain.CorrectAnswer, 0, 1+len(q.AcceptedAnswers))
	pool = append(pool, q.CorrectAnswer)
	pool = append(pool, q.AcceptedAnswers...)

	var best domain.ScoreResult
	for _, candidate := range pool {
		artistOK := matching.IsArtistCorrect(ans.Artist, candidate.Artist)
		songOK := matching.IsSongCorrect(ans.Song, candidate.Song)

		score := 0
		if artistOK {
			score++
		}
		if songOK {
			score++
		}
		if score > best.Score {
			best = domain.ScoreResult{ArtistOK: artistOK, SongOK: songOK, Score: score}
			if best.Score == 2 {
				break
			}
		}
	}
	return best, nil
}
