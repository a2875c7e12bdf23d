package messages

import (
	"encoding/json"

	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/questions"
	"github.com/mini-maxit/grader/pkg/solution"
)

type QueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Payload   json.RawMessage `json:"payload"`
}

// EvaluateQueueMessage asks a grading worker to run code against one question.
type EvaluateQueueMessage struct {
	Question json.RawMessage `json:"question"`
	Code     string          `json:"code"`
	Language string          `json:"language"`
	Mode     string          `json:"mode"`
}

type ResponseQueueMessage struct {
	Type      string          `json:"type"`
	MessageID string          `json:"message_id"`
	Ok        bool            `json:"ok"`
	Payload   json.RawMessage `json:"payload"`
}

// WorkerStatus is one entry of the status response.
type WorkerStatus struct {
	WorkerID            int                    `json:"worker_id"`
	Status              constants.WorkerStatus `json:"status"`
	ProcessingMessageID string                 `json:"processing_message_id,omitempty"`
}

// SubmissionRequest is the payload handed to the submission collaborator.
// Answers holds the JSON encoded answer list.
type SubmissionRequest struct {
	TestID     questions.ID `json:"testId"`
	StudentID  questions.ID `json:"studentId"`
	Score      int          `json:"score"`
	TotalMarks int          `json:"totalMarks"`
	Answers    string       `json:"answers"`
}

type MultipleChoiceAnswer struct {
	QuestionID questions.ID `json:"questionId"`
	Type       string       `json:"type"`
	Answer     *int         `json:"answer"`
	Correct    bool         `json:"correct"`
	Marks      int          `json:"marks"`
}

type ProgrammingAnswer struct {
	QuestionID questions.ID `json:"questionId"`
	Type       string       `json:"type"`
	Code       string       `json:"code"`
	Language   string       `json:"language"`
	solution.QuestionEvaluation
}
