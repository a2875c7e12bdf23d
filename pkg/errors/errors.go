package errors

import "errors"

// Error messages.
var (
	ErrInvalidLanguageType   = errors.New("invalid language type")
	ErrInvalidEvaluationMode = errors.New("invalid evaluation mode")
	ErrFailedToGetFreeWorker = errors.New("failed to get free worker")
	ErrUnknownMessageType    = errors.New("unknown message type")
	ErrRemoteUnavailable     = errors.New("remote execution service unavailable")
	ErrInvalidQuestion       = errors.New("invalid question")
	ErrInvalidTest           = errors.New("invalid test")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrWrongQuestionType     = errors.New("answer does not match question type")
	ErrInvalidOption         = errors.New("option index out of range")
	ErrInvalidTransition     = errors.New("invalid session state transition")
	ErrNotConfirmed          = errors.New("action not confirmed")
	ErrSubmissionFailed      = errors.New("submission failed")
	ErrStaleResult           = errors.New("result arrived after the session ended")
	ErrTestAlreadyTaken      = errors.New("test already taken")
	ErrCodeTooShort          = errors.New("code too short to run")
	ErrUnknownSubmitter      = errors.New("unknown submitter")
	ErrUnknownCacheBackend   = errors.New("unknown execution cache backend")
)
