// Package file loads stage question packs from YAML files on disk, one file
// per stage (<dir>/<stageID>.yaml).
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blindtest-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// StageLoader reads stage packs from a directory.
type StageLoader struct {
	dir string
}

func NewStageLoader(dir string) *StageLoader {
	return &StageLoader{dir: dir}
}

type stageFile struct {
	Stage     string `yaml:"stage"`
	Questions []struct {
		ID            string `yaml:"id"`
		Order         int    `yaml:"order"`
		Title         string `yaml:"title"`
		CorrectAnswer struct {
			Artist string `yaml:"artist"`
			Song   string `yaml:"song"`
		} `yaml:"correctAnswer"`
		AcceptedAnswers []struct {
			Artist string `yaml:"artist"`
			Song   string `yaml:"song"`
		} `yaml:"acceptedAnswers"`
	} `yaml:"questions"`
}

func (l *StageLoader) LoadStage(_ context.Context, stageID string) ([]domain.Question, error) {
	// stageID becomes a file name; keep path traversal out.
	if stageID == "" || strings.ContainsAny(stageID, `/\.`) {
		return nil, domain.ErrStageNotFound
	}

	data, err := os.ReadFile(filepath.Join(l.dir, stageID+".yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrStageNotFound
		}
		return nil, fmt.Errorf("read stage pack: %w", err)
	}

	var pack stageFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse stage pack %s: %w", stageID, err)
	}

	questions := make([]domain.Question, 0, len(pack.Questions))
	for _, q := range pack.Questions {
		question := domain.Question{
			ID:      q.ID,
			StageID: stageID,
			Order:   q.Order,
			Title:   q.Title,
			CorrectAnswer: domain.CorrectAnswer{
				Artist: q.CorrectAnswer.Artist,
				Song:   q.CorrectAnswer.Song,
			},
		}
		for _, alt := range q.AcceptedAnswers {
			question.AcceptedAnswers = append(question.AcceptedAnswers, domain.CorrectAnswer{
				Artist: alt.Artist,
				Song:   alt.Song,
			})
		}
		questions = append(questions, question)
	}
	return questions, nil
}
