package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a game session has not been initialized.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrStageNotFound indicates the stage content could not be loaded.
	ErrStageNotFound = errors.New("stage not found")
	// ErrQuestionNotFound indicates a submitted question ID is not part of the stage.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrMissingCorrectAnswer indicates broken static content: a question
	// without a canonical answer cannot be scored.
	ErrMissingCorrectAnswer = errors.New("question has no correct answer")
)
