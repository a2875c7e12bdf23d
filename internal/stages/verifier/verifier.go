package verifier

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/pkg/constants"
	"github.com/mini-maxit/grader/pkg/solution"
	"go.uber.org/zap"
)

// Verifier decides whether a program output matches the expected output.
// A nil argument never matches.
type Verifier interface {
	CompareOutput(actual, expected *string) bool
}

type DefaultVerifier struct {
	tolerance float64
	logger    *zap.SugaredLogger
}

func NewDefaultVerifier() Verifier {
	return &DefaultVerifier{
		tolerance: constants.NumericTolerance,
		logger:    logger.NewNamedLogger("verifier"),
	}
}

// CompareOutput tries three tiers in order: normalized text, numeric prefix
// and order independent JSON arrays. The numeric tier is final once both
// sides parse as numbers.
func (dv *DefaultVerifier) CompareOutput(actual, expected *string) bool {
	if actual == nil || expected == nil {
		return false
	}

	if normalize(*actual) == normalize(*expected) {
		return true
	}

	numActual, okActual := parseFloatPrefix(*actual)
	numExpected, okExpected := parseFloatPrefix(*expected)
	if okActual && okExpected {
		match := math.Abs(numActual-numExpected) < dv.tolerance
		dv.logger.Debugf("Numeric comparison %v vs %v matched=%t", numActual, numExpected, match)
		return match
	}

	arrActual, okActual := parseArray(*actual)
	arrExpected, okExpected := parseArray(*expected)
	if okActual && okExpected {
		left, errLeft := json.Marshal(sortLikeJS(arrActual))
		right, errRight := json.Marshal(sortLikeJS(arrExpected))
		if errLeft != nil || errRight != nil {
			return false
		}
		return string(left) == string(right)
	}

	return false
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), isBlank), " ")
}

var floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)`)

// parseFloatPrefix reads the longest leading decimal literal, ignoring
// leading whitespace and any trailing text.
func parseFloatPrefix(s string) (float64, bool) {
	match := floatPrefix.FindString(strings.TrimLeftFunc(s, isBlank))
	if match == "" {
		return 0, false
	}

	sign := 1.0
	body := match
	switch body[0] {
	case '-':
		sign = -1
		body = body[1:]
	case '+':
		body = body[1:]
	}
	if body == "Infinity" {
		return math.Inf(int(sign)), true
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(body, "."), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return sign * f, true
}

func parseArray(s string) ([]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// sortLikeJS orders a shallow copy by the string form of each element,
// keeping equal keys in their original order.
func sortLikeJS(arr []any) []any {
	keys := make([]string, len(arr))
	idx := make([]int, len(arr))
	for i := range arr {
		idx[i] = i
		keys[i] = toJSString(arr[i], false)
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]] < keys[idx[b]] })

	out := make([]any, len(arr))
	for i, j := range idx {
		out[i] = canonical(arr[j])
	}
	return out
}

func canonical(v any) any {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return 0.0
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = canonical(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = canonical(val)
		}
		return out
	default:
		return v
	}
}

func toJSString(v any, nested bool) string {
	switch t := v.(type) {
	case nil:
		if nested {
			return ""
		}
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return solution.FormatNumber(t)
	case string:
		return t
	case []any:
		parts := make([]string, len(t))
		for i := range t {
			parts[i] = toJSString(t[i], true)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}
