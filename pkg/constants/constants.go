package constants

import (
	"encoding/json"
	"time"
)

// Queue message types.
const (
	QueueMessageTypeEvaluate  = "evaluate"
	QueueMessageTypeHandshake = "handshake"
	QueueMessageTypeStatus    = "status"
)

// Evaluation modes accepted on the queue.
const (
	EvaluationModeAll     = "all"
	EvaluationModeSamples = "samples"
)

// Question type tag used by the question source.
const (
	QuestionTypeMultipleChoice = "MCQ"
	QuestionTypeProgramming    = "Programming"
)

// Python simulator messages.
const (
	PythonMessageNoFunction        = "No function definition found"
	PythonMessageNoReturnOrPrint   = "Function must return or print a value"
	PythonMessageInvalidDefinition = "Invalid function definition"
	PythonMessageUnableToExecute   = "Unable to execute code"
)

// Java simulator messages.
const (
	JavaMessageNoClass        = "No class definition found"
	JavaMessageNoMainMethod   = "No main method found"
	JavaMessageNoInputReading = "Code does not read input properly"
	JavaMessageNoConditional  = "Code needs conditional logic (if-else)"
	JavaMessageNoParityOutput = "Code does not print correct output"
	JavaMessageInvalidInput   = "Invalid input"
	JavaMessageLogicError     = "Logic error in code"
)

// Executor messages.
const (
	ExecutorMessageNoReturnValue      = "Function did not return a value"
	ExecutorMessageRuntimeError       = "Runtime Error: %s"
	ExecutorMessageTimeout            = "execution timed out after %d ms"
	ExecutorMessageStackOverflow      = "Maximum call stack size exceeded"
	ExecutorMessageCPPRequiresBackend = "C++ execution requires backend service"
	ExecutorMessageNotSupported       = "Language not supported for real execution yet"
)

// Session messages.
const (
	SessionMessageCodeTooShort   = "Please write some code first!"
	SessionMessageConfirmSubmit  = "Are you sure you want to submit? You cannot change your answers after submission."
	SessionMessageConfirmAbort   = "Are you sure you want to close the test? Your progress will be lost and cannot be recovered."
	SessionSummaryMultipleChoice = "Q%d (MCQ): %s - %d/%d marks"
	SessionSummaryProgramming    = "Q%d (%s): %d/%d tests passed (%s%%) - %d/%d marks"
	SessionSummaryCorrect        = "✓ Correct"
	SessionSummaryWrong          = "✗ Wrong"
)

// Grading policy.
const (
	SampleCaseLimit          = 2
	NumericTolerance         = 1e-4
	HighPassRatio            = 0.8
	SampleOnlyCreditRatio    = 0.35
	PartialCreditDiscount    = 0.7
	MinRunnableCodeLength    = 10
	MinutesToSeconds         = 60
	TimerTickInterval        = time.Second
	DefaultQuestionLanguage  = "python"
	SimulatedExecutionTimeMs = 0
)

// Grade bands, highest first.
const (
	GradeExcellent     = "Excellent"
	GradeVeryGood      = "Very Good"
	GradeGood          = "Good"
	GradeNeedToImprove = "Need to Improve"
	GradePoor          = "Poor"
)

// Worker specific constants.
type WorkerStatus int

const (
	WorkerStatusIdle WorkerStatus = iota
	WorkerStatusBusy
)

func (s WorkerStatus) String() string {
	switch s {
	case WorkerStatusIdle:
		return "idle"
	case WorkerStatusBusy:
		return "busy"
	default:
		return "unknown"
	}
}

func (s WorkerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Configuration constants.
const (
	DefaultBackendAPIURL        = "https://training-center-backend-y3bq.onrender.com/api"
	SubmitEndpointPath          = "/student/tests/submit"
	DefaultSubmitter            = "http"
	DefaultSubmissionQueueName  = "test_submissions"
	DefaultPistonURL            = "https://emkc.org/api/v2/piston/execute"
	DefaultPythonVersion        = "3.10.0"
	DefaultJDoodleURL           = "https://api.jdoodle.com/v1/execute"
	DefaultJavaVersionIndex     = "4"
	DefaultRemoteTimeoutSec     = 30
	DefaultJSTimeoutMs          = 2000
	DefaultRunnerParallelism    = 1
	DefaultExecutionCache       = "memory"
	DefaultCacheTTLMinutes      = 60
	DefaultRedisAddr            = "localhost:6379"
	DefaultRedisDB              = 0
	DefaultRabbitmqHost         = "localhost"
	DefaultRabbitmqUser         = "guest"
	DefaultRabbitmqPassword     = "guest"
	DefaultRabbitmqPort         = "5672"
	DefaultWorkerQueueName      = "grading_queue"
	DefaultMaxWorkers           = 10
	DefaultEvaluationTimeoutSec = 300
	DefaultLogDir               = "logs"
	DefaultLogLevel             = "info"
)

// JSMaxCallStackSize bounds recursion depth inside the JavaScript runtime.
const JSMaxCallStackSize = 1024

// Log file rotation. LogDirDisabled as LOG_DIR keeps logs on stderr only.
const (
	LogFileName    = "grader.log"
	LogDirDisabled = "off"
	LogMaxSizeMB   = 50
	LogMaxBackups  = 10
	LogMaxAgeDays  = 28
)

// Execution cache configuration.
const (
	ExecutionCacheNone   = "none"
	ExecutionCacheMemory = "memory"
	ExecutionCacheRedis  = "redis"

	CacheMaxEntries = 1000
	RedisKeyPrefix  = "grader:exec:"
)

// Submitter kinds.
const (
	SubmitterHTTP  = "http"
	SubmitterQueue = "queue"
)

// RabbitMQ specific constants.
const (
	RabbitMQReconnectTries  = 10
	RabbitMQMaxPriority     = 3
	RabbitMQRequeuePriority = 2
	RabbitMQPublishTimeout  = 5 * time.Second
)
