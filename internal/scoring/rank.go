package scoring

import (
	"fmt"
	"sort"

	"blindtest-service/internal/domain"
)

// StageTotals sums each roster player's score over the questions of one
// stage, using the stored results for that stage. Questions without a stored
// result are skipped; players without a stored answer contribute 0.
func StageTotals(roster []domain.Player, questions []domain.Question, results map[string]domain.QuestionResult) (map[string]int, error) {
	totals := make(map[string]int, len(roster))
	for _, p := range roster {
		totals[p.ID] = 0
	}

	for _, q := range questions {
		res, ok := results[q.ID]
		if !ok {
			continue
		}
		for _, p := range roster {
			var ans *domain.Answer
			if a, ok := res.AnswersByPlayer[p.ID]; ok {
				ans = &a
			}
			verdict, err := ScoreAnswer(ans, q)
			if err != nil {
				return nil, err
			}
			totals[p.ID] += verdict.Score
		}
	}
	return totals, nil
}

// Standings orders the roster by total, best first, and assigns competition
// ("1224") ranks: equal totals share a rank, the next distinct total takes
// its 1-based position. The sort is stable, so roster order breaks ties in
// the listing while the rank numbers still reflect true ties.
func Standings(roster []domain.Player, totals map[string]int) []domain.Standing {
	out := make([]domain.Standing, 0, len(roster))
	for _, p := range roster {
		out = append(out, domain.Standing{PlayerID: p.ID, Name: p.Name, Total: totals[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})

	lastTotal, lastRank := 0, 0
	for i := range out {
		switch {
		case i == 0:
			out[i].Rank = 1
		case out[i].Total == lastTotal:
			out[i].Rank = lastRank
		default:
			out[i].Rank = i + 1
		}
		lastTotal, lastRank = out[i].Total, out[i].Rank
	}
	return out
}

// Winners returns every standing tied for the best total, or nothing at all
// when the best total is 0: a scoreless game has no victor.
func Winners(standings []domain.Standing) []domain.Standing {
	if len(standings) == 0 || standings[0].Total == 0 {
		return nil
	}
	max := standings[0].Total
	var out []domain.Standing
	for _, s := range standings {
		if s.Total == max {
			out = append(out, s)
		}
	}
	return out
}

// Podium returns the top three standings in leaderboard order, independent
// of the winner set (a scoreless game still has a podium ordering).
func Podium(standings []domain.Standing) []domain.Standing {
	if len(standings) > 3 {
		standings = standings[:3]
	}
	return standings
}

// Headline phrases the winner announcement the way the result screen shows
// it; empty when there is no winner.
func Headline(winners []domain.Standing, noun string) string {
	switch len(winners) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s wins the %s !", winners[0].Name, noun)
	case 2:
		return fmt.Sprintf("%s and %s win the %s !", winners[0].Name, winners[1].Name, noun)
	default:
		return fmt.Sprintf("%s, %s and %s win the %s !", winners[0].Name, winners[1].Name, winners[2].Name, noun)
	}
}
