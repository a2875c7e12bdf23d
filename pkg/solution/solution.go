package solution

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/errors"
)

type ExecutionStatus int

const (
	// Means the code ran and produced an output.
	ExecutionSucceeded ExecutionStatus = iota + 1
	// Means the code was rejected or crashed, Error holds the reason.
	ExecutionFailed
)

// ExecutionResult is the outcome of running code against a single input.
// Output and Error are mutually exclusive.
type ExecutionResult struct {
	Status          ExecutionStatus `json:"status"`
	Output          string          `json:"output,omitempty"`
	ExecutionTimeMs float64         `json:"executionTime,omitempty"`
	Error           string          `json:"error,omitempty"`
}

func Succeeded(output string, executionTimeMs float64) ExecutionResult {
	return ExecutionResult{Status: ExecutionSucceeded, Output: output, ExecutionTimeMs: executionTimeMs}
}

func Failed(message string) ExecutionResult {
	return ExecutionResult{Status: ExecutionFailed, Error: message}
}

func (r ExecutionResult) Failed() bool {
	return r.Status == ExecutionFailed
}

// Valid reports whether exactly one of output or error is populated.
func (r ExecutionResult) Valid() bool {
	switch r.Status {
	case ExecutionSucceeded:
		return r.Error == ""
	case ExecutionFailed:
		return r.Error != "" && r.Output == ""
	default:
		return false
	}
}

type Mode int

const (
	// Every test case is run, used on submission.
	ModeAll Mode = iota + 1
	// Only the sample cases are run, used for the preview action.
	ModeSamples
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return constants.EvaluationModeAll
	case ModeSamples:
		return constants.EvaluationModeSamples
	default:
		return ""
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", constants.EvaluationModeAll:
		return ModeAll, nil
	case constants.EvaluationModeSamples:
		return ModeSamples, nil
	default:
		return 0, errors.ErrInvalidEvaluationMode
	}
}

type TestCaseOutcome struct {
	TestCase        int     `json:"testCase"` // 1-based position in the question
	Input           string  `json:"input"`
	ExpectedOutput  string  `json:"expectedOutput"`
	ActualOutput    string  `json:"actualOutput"`
	Passed          bool    `json:"passed"`
	IsSample        bool    `json:"isSample"`
	Error           string  `json:"error,omitempty"`
	ExecutionTimeMs float64 `json:"executionTime"`
}

type QuestionEvaluation struct {
	SamplePassedCount int               `json:"sampleTestsPassed"`
	SampleCount       int               `json:"totalSampleTests"`
	AllPassedCount    int               `json:"allTestsPassed"`
	TotalTestCount    int               `json:"totalTests"`
	EarnedMarks       int               `json:"earnedMarks"`
	TotalMarks        int               `json:"totalMarks"`
	PassPercentage    string            `json:"passPercentage"`
	Outcomes          []TestCaseOutcome `json:"results"`
}

// Percentage formats passed/total*100 with one decimal. An empty set is "0.0".
func Percentage(passed, total int) string {
	if total <= 0 {
		return ToFixed1(0)
	}
	return ToFixed1(float64(passed) / float64(total) * 100)
}

// ToFixed1 renders x with one decimal, breaking exact ties upward.
func ToFixed1(x float64) string {
	neg := x < 0
	if neg {
		x = -x
	}
	scaled := new(big.Float).SetPrec(256).SetFloat64(x)
	scaled.Mul(scaled, big.NewFloat(10))

	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).Sub(scaled, new(big.Float).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	whole, tenth := new(big.Int).QuoRem(n, big.NewInt(10), new(big.Int))
	s := whole.String() + "." + tenth.String()
	if neg && n.Sign() != 0 {
		s = "-" + s
	}
	return s
}

// Grade maps a one-decimal percentage string to its grade band.
func Grade(percentage string) string {
	p, err := strconv.ParseFloat(percentage, 64)
	if err != nil {
		return constants.GradePoor
	}
	switch {
	case p >= 90:
		return constants.GradeExcellent
	case p >= 75:
		return constants.GradeVeryGood
	case p >= 60:
		return constants.GradeGood
	case p >= 40:
		return constants.GradeNeedToImprove
	default:
		return constants.GradePoor
	}
}

// FormatNumber renders f the way a JavaScript engine prints a number.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if f < 0 {
		return "-" + FormatNumber(-f)
	}

	// Shortest round-trip digits and decimal exponent.
	mantissa, expPart, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	e := strconv.Itoa(int(math.Abs(float64(n - 1))))
	if k == 1 {
		return digits + "e" + sign + e
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + e
}
