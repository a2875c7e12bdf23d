// Package questions holds the immutable question set of a test attempt and
// decodes it from the question source payload.
package questions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// ID accepts both numeric and string identifiers and keeps their literal text.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// Question is either a *MultipleChoice or a *Programming question.
type Question interface {
	GetID() ID
	GetMarks() int
	Validate() error
	isQuestion()
}

type MultipleChoice struct {
	ID            ID       `json:"id"`
	Type          string   `json:"type"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // 1-based
	Marks         int      `json:"marks"`
}

func (q *MultipleChoice) GetID() ID     { return q.ID }
func (q *MultipleChoice) GetMarks() int { return q.Marks }
func (q *MultipleChoice) isQuestion()   {}

func (q *MultipleChoice) Validate() error {
	if len(q.Options) == 0 {
		return fmt.Errorf("%w: question %s has no options", errors.ErrInvalidQuestion, q.ID)
	}
	if q.CorrectAnswer < 1 || q.CorrectAnswer > len(q.Options) {
		return fmt.Errorf("%w: question %s correct answer %d out of range", errors.ErrInvalidQuestion, q.ID, q.CorrectAnswer)
	}
	if q.Marks < 0 {
		return fmt.Errorf("%w: question %s has negative marks", errors.ErrInvalidQuestion, q.ID)
	}
	return nil
}

// IsCorrect reports whether the 1-based option matches the correct answer.
func (q *MultipleChoice) IsCorrect(option int) bool {
	return option == q.CorrectAnswer
}

type Programming struct {
	ID             ID         `json:"id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Difficulty     Difficulty `json:"difficulty"`
	Marks          int        `json:"marks"`
	TestCases      []TestCase `json:"testCases"`
	SampleSolution string     `json:"sampleSolution,omitempty"`
}

func (q *Programming) GetID() ID     { return q.ID }
func (q *Programming) GetMarks() int { return q.Marks }
func (q *Programming) isQuestion()   {}

func (q *Programming) Validate() error {
	if len(q.TestCases) == 0 {
		return fmt.Errorf("%w: question %s has no test cases", errors.ErrInvalidQuestion, q.ID)
	}
	if q.Marks < 0 {
		return fmt.Errorf("%w: question %s has negative marks", errors.ErrInvalidQuestion, q.ID)
	}
	switch q.Difficulty {
	case "", Easy, Medium, Hard:
		return nil
	default:
		return fmt.Errorf("%w: question %s has unknown difficulty %q", errors.ErrInvalidQuestion, q.ID, q.Difficulty)
	}
}

// SampleCount is the number of leading test cases visible before submission.
func (q *Programming) SampleCount() int {
	return min(constants.SampleCaseLimit, len(q.TestCases))
}

func (q *Programming) SampleCases() []TestCase {
	return q.TestCases[:q.SampleCount()]
}

func IsSample(index int) bool {
	return index < constants.SampleCaseLimit
}

// DecodeQuestions dispatches every element on its type tag once. Anything
// that is not tagged as multiple choice is a programming question.
func DecodeQuestions(data []byte) ([]Question, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidTest, err)
	}

	result := make([]Question, 0, len(raws))
	for i, raw := range raws {
		q, err := DecodeQuestion(raw)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		assignDefaultID(q, i)
		result = append(result, q)
	}
	return result, nil
}

func DecodeQuestion(raw []byte) (Question, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidQuestion, err)
	}

	var q Question
	if strings.EqualFold(tag.Type, constants.QuestionTypeMultipleChoice) {
		q = &MultipleChoice{}
	} else {
		q = &Programming{}
	}
	if err := json.Unmarshal(raw, q); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidQuestion, err)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func assignDefaultID(q Question, index int) {
	if q.GetID() != "" {
		return
	}
	id := ID(strconv.Itoa(index + 1))
	switch v := q.(type) {
	case *MultipleChoice:
		v.ID = id
	case *Programming:
		v.ID = id
	}
}

// Test is one loaded attempt, the question set is immutable once decoded.
type Test struct {
	ID              ID         `json:"id"`
	Title           string     `json:"title"`
	ClassName       string     `json:"className,omitempty"`
	DurationMinutes int        `json:"duration"`
	TotalMarks      int        `json:"totalMarks"`
	AlreadyTaken    bool       `json:"alreadyTaken"`
	Questions       []Question `json:"-"`
}

// UnmarshalJSON accepts questions as an array or as a string holding the array.
func (t *Test) UnmarshalJSON(data []byte) error {
	type plain Test
	var raw struct {
		plain
		Questions json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidTest, err)
	}
	*t = Test(raw.plain)

	payload := bytes.TrimSpace(raw.Questions)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		t.Questions = nil
		return nil
	}
	if payload[0] == '"' {
		var s string
		if err := json.Unmarshal(payload, &s); err != nil {
			return fmt.Errorf("%w: %w", errors.ErrInvalidTest, err)
		}
		payload = []byte(s)
	}

	qs, err := DecodeQuestions(payload)
	if err != nil {
		return err
	}
	t.Questions = qs
	return nil
}

func (t Test) MarshalJSON() ([]byte, error) {
	type plain Test
	return json.Marshal(struct {
		plain
		Questions []Question `json:"questions"`
	}{plain: plain(t), Questions: t.Questions})
}

// MaxMarks sums the marks of every question.
func (t *Test) MaxMarks() int {
	total := 0
	for _, q := range t.Questions {
		total += q.GetMarks()
	}
	return total
}

func (t *Test) Question(id ID) (Question, error) {
	for _, q := range t.Questions {
		if q.GetID() == id {
			return q, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", errors.ErrQuestionNotFound, id)
}
