package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mini-maxit/grader/internal/session"
	"github.com/mini-maxit/grader/pkg/errors"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/questions"
)

// answer is one entry of the answers file. Option answers a multiple choice
// question, Code answers a programming question.
type answer struct {
	QuestionID questions.ID `json:"questionId"`
	Option     *int         `json:"option,omitempty"`
	Language   string       `json:"language,omitempty"`
	Code       string       `json:"code,omitempty"`
}

func loadTest(path string) (*questions.Test, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var test questions.Test
	if err := json.Unmarshal(data, &test); err != nil {
		return nil, err
	}
	if len(test.Questions) == 0 {
		return nil, fmt.Errorf("%w: %s has no questions", errors.ErrInvalidTest, path)
	}
	return &test, nil
}

func loadAnswers(path string) ([]answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var answers []answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("decode answers %s: %w", path, err)
	}
	return answers, nil
}

func applyAnswers(s session.Session, answers []answer) error {
	for _, a := range answers {
		if a.Option != nil {
			if err := s.SelectOption(a.QuestionID, *a.Option); err != nil {
				return fmt.Errorf("question %s: %w", a.QuestionID, err)
			}
			continue
		}

		lt := languages.DefaultLanguage()
		if a.Language != "" {
			var err error
			if lt, err = languages.ParseLanguageType(a.Language); err != nil {
				return fmt.Errorf("question %s: %w", a.QuestionID, err)
			}
		}
		if err := s.SetCode(a.QuestionID, lt, a.Code); err != nil {
			return fmt.Errorf("question %s: %w", a.QuestionID, err)
		}
	}
	return nil
}
