package app

import (
	"context"
	"errors"

	"blindtest-service/internal/domain"
	"blindtest-service/internal/scoring"
)

// GameService contains the blind-test use cases: roster management, round
// finalization, recap, leaderboards and game reset.
type GameService struct {
	sessions SessionRepository
	bank     QuestionBank
}

func NewGameService(sessions SessionRepository, bank QuestionBank) *GameService {
	return &GameService{sessions: sessions, bank: bank}
}

// Join registers or renames a player in a game session and returns the
// current game leaderboard.
func (s *GameService) Join(ctx context.Context, gameID, playerID, name string) (domain.Leaderboard, error) {
	session := s.sessions.GetOrCreate(gameID)
	session.join(playerID, name)
	return s.refreshLeaderboard(ctx, session)
}

// SubmitRound finalizes one question: it stores every player's raw answer in
// the ledger, then returns the scored recap alongside the refreshed game
// leaderboard. Replaying a question overwrites the earlier round.
func (s *GameService) SubmitRound(ctx context.Context, gameID, stageID, questionID string, questionIndex int, answers map[string]domain.Answer) (domain.Recap, domain.Leaderboard, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.Recap{}, domain.Leaderboard{}, domain.ErrSessionNotFound
	}

	question, err := s.findQuestion(ctx, stageID, questionID)
	if err != nil {
		return domain.Recap{}, domain.Leaderboard{}, err
	}

	if err := session.ledger.SaveQuestionResults(ctx, stageID, questionID, questionIndex, answers); err != nil {
		return domain.Recap{}, domain.Leaderboard{}, err
	}

	recap, err := buildRecap(session.roster(), question, answers)
	if err != nil {
		return domain.Recap{}, domain.Leaderboard{}, err
	}

	lb, err := s.refreshLeaderboard(ctx, session)
	if err != nil {
		return domain.Recap{}, domain.Leaderboard{}, err
	}
	return recap, lb, nil
}

// QuestionRecap recomputes the correction view of an already-played question
// from the raw stored answers. The bool reports whether the question has a
// stored round at all.
func (s *GameService) QuestionRecap(ctx context.Context, gameID, stageID, questionID string) (domain.Recap, bool, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.Recap{}, false, domain.ErrSessionNotFound
	}

	result, ok, err := session.ledger.QuestionResults(ctx, stageID, questionID)
	if err != nil || !ok {
		return domain.Recap{}, false, err
	}

	question, err := s.findQuestion(ctx, stageID, questionID)
	if err != nil {
		return domain.Recap{}, false, err
	}

	recap, err := buildRecap(session.roster(), question, result.AnswersByPlayer)
	if err != nil {
		return domain.Recap{}, false, err
	}
	return recap, true, nil
}

// StageResults returns every stored round of one stage; empty if the stage
// was never played.
func (s *GameService) StageResults(ctx context.Context, gameID, stageID string) (map[string]domain.QuestionResult, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.ledger.StageResults(ctx, stageID)
}

// AllResults returns every stored round of the game, keyed by stage then question.
func (s *GameService) AllResults(ctx context.Context, gameID string) (map[string]map[string]domain.QuestionResult, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.ledger.AllResults(ctx)
}

// PlayedStageIDs lists the stages with at least one stored round.
func (s *GameService) PlayedStageIDs(ctx context.Context, gameID string) ([]string, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.ledger.PlayedStageIDs(ctx)
}

// StageLeaderboard ranks the roster over a single stage.
func (s *GameService) StageLeaderboard(ctx context.Context, gameID, stageID string) (domain.Leaderboard, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.Leaderboard{}, domain.ErrSessionNotFound
	}

	roster := session.roster()
	totals, err := s.stageTotals(ctx, session, stageID, roster)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	lb := assembleLeaderboard(session.id, stageID, roster, totals, "stage")
	lb.UpdatedAt = session.now()
	return lb, nil
}

// GameLeaderboard ranks the roster over every stage played so far.
func (s *GameService) GameLeaderboard(ctx context.Context, gameID string) (domain.Leaderboard, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.Leaderboard{}, domain.ErrSessionNotFound
	}
	return s.gameLeaderboard(ctx, session)
}

// ResetGame wipes the session's ledger for a fresh game (back to menu) and
// pushes the zeroed leaderboard to subscribers. The roster survives.
func (s *GameService) ResetGame(ctx context.Context, gameID string) (domain.Leaderboard, error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return domain.Leaderboard{}, domain.ErrSessionNotFound
	}
	if err := session.ledger.Reset(ctx); err != nil {
		return domain.Leaderboard{}, err
	}
	return s.refreshLeaderboard(ctx, session)
}

// Subscribe returns a channel that receives leaderboard updates for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, gameID string) (<-chan domain.Leaderboard, func(), error) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave removes a player from the session and drops the session once empty.
func (s *GameService) Leave(ctx context.Context, gameID, playerID string) {
	session, ok := s.sessions.Get(gameID)
	if !ok {
		return
	}
	session.leave(playerID)
	if session.isEmpty() {
		s.sessions.DeleteIfEmpty(gameID)
	} else {
		_, _ = s.refreshLeaderboard(ctx, session)
	}
}

func (s *GameService) findQuestion(ctx context.Context, stageID, questionID string) (domain.Question, error) {
	questions, err := s.bank.StageQuestions(ctx, stageID)
	if err != nil {
		return domain.Question{}, err
	}
	for _, q := range questions {
		if q.ID == questionID {
			return q, nil
		}
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *GameService) stageTotals(ctx context.Context, session *GameSession, stageID string, roster []domain.Player) (map[string]int, error) {
	questions, err := s.bank.StageQuestions(ctx, stageID)
	if err != nil {
		// A played stage whose content disappeared contributes nothing,
		// mirroring how the result screens skip unknown stages.
		if errors.Is(err, domain.ErrStageNotFound) {
			questions = nil
		} else {
			return nil, err
		}
	}
	results, err := session.ledger.StageResults(ctx, stageID)
	if err != nil {
		return nil, err
	}
	return scoring.StageTotals(roster, questions, results)
}

func (s *GameService) gameLeaderboard(ctx context.Context, session *GameSession) (domain.Leaderboard, error) {
	roster := session.roster()
	totals := make(map[string]int, len(roster))
	for _, p := range roster {
		totals[p.ID] = 0
	}

	stageIDs, err := session.ledger.PlayedStageIDs(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	for _, stageID := range stageIDs {
		stage, err := s.stageTotals(ctx, session, stageID, roster)
		if err != nil {
			return domain.Leaderboard{}, err
		}
		for id, total := range stage {
			totals[id] += total
		}
	}

	lb := assembleLeaderboard(session.id, "", roster, totals, "game")
	lb.UpdatedAt = session.now()
	return lb, nil
}

func (s *GameService) refreshLeaderboard(ctx context.Context, session *GameSession) (domain.Leaderboard, error) {
	lb, err := s.gameLeaderboard(ctx, session)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	session.broadcast(lb)
	return lb, nil
}

func assembleLeaderboard(gameID, stageID string, roster []domain.Player, totals map[string]int, noun string) domain.Leaderboard {
	standings := scoring.Standings(roster, totals)
	winners := scoring.Winners(standings)
	return domain.Leaderboard{
		GameID:    gameID,
		StageID:   stageID,
		Standings: standings,
		Winners:   winners,
		Podium:    scoring.Podium(standings),
		Headline:  scoring.Headline(winners, noun),
	}
}

func buildRecap(roster []domain.Player, question domain.Question, answers map[string]domain.Answer) (domain.Recap, error) {
	scores := make(map[string]domain.ScoreResult, len(roster))
	for _, p := range roster {
		var ans *domain.Answer
		if a, ok := answers[p.ID]; ok {
			ans = &a
		}
		verdict, err := scoring.ScoreAnswer(ans, question)
		if err != nil {
			return domain.Recap{}, err
		}
		scores[p.ID] = verdict
	}
	return domain.Recap{StageID: question.StageID, QuestionID: question.ID, Scores: scores}, nil
}
