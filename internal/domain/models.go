package domain

import "time"

// Player is one entry of the roster handed to the engine by the host app.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Answer is a raw, possibly empty, user-submitted guess. Immutable once stored.
type Answer struct {
	Artist string `json:"artist"`
	Song   string `json:"song"`
}

// CorrectAnswer is the canonical (or an additionally accepted) answer for a question.
type CorrectAnswer struct {
	Artist string `json:"artist"`
	Song   string `json:"song"`
}

// Question is static stage content. AcceptedAnswers lists extra valid answers
// beyond CorrectAnswer; it may be empty.
type Question struct {
	ID              string          `json:"id"`
	StageID         string          `json:"stageId"`
	Order           int             `json:"order"`
	Title           string          `json:"title,omitempty"`
	CorrectAnswer   CorrectAnswer   `json:"correctAnswer"`
	AcceptedAnswers []CorrectAnswer `json:"acceptedAnswers,omitempty"`
}

// ScoreResult is the per-question verdict for one answer, recomputed on
// demand and never persisted.
type ScoreResult struct {
	ArtistOK bool `json:"artistOk"`
	SongOK   bool `json:"songOk"`
	Score    int  `json:"score"` // 0, 1 or 2
}

// QuestionResult holds the finalized answers of one round. Replaying the same
// question overwrites the previous entry; last write wins.
type QuestionResult struct {
	QuestionIndex   int               `json:"questionIndex"`
	AnswersByPlayer map[string]Answer `json:"answersByPlayer"`
}

// Standing is one ranked row of a leaderboard. Rank uses competition
// ("1224") numbering: equal totals share a rank.
type Standing struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Total    int    `json:"total"`
	Rank     int    `json:"rank"`
}

// Leaderboard is a freshly derived scoreboard for a whole game or one stage
// (StageID empty for game-wide). Winners is empty when the top total is 0.
type Leaderboard struct {
	GameID    string     `json:"gameId"`
	StageID   string     `json:"stageId,omitempty"`
	Standings []Standing `json:"standings"`
	Winners   []Standing `json:"winners"`
	Podium    []Standing `json:"podium"`
	Headline  string     `json:"headline,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Recap is the correction view of one question: every roster player's answer
// scored against the question, recomputed from the raw stored answers.
type Recap struct {
	StageID    string                 `json:"stageId"`
	QuestionID string                 `json:"questionId"`
	Scores     map[string]ScoreResult `json:"scores"`
}
