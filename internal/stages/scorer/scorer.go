package scorer

import (
	"math"

	"github.com/mini-maxit/grader/pkg/constants"
)

// Score converts pass counts into awarded marks. Tiers are checked in order
// and every fractional award is rounded up:
//
//  1. every case passed: full marks
//  2. nothing passed: zero
//  3. pass ratio of at least 0.8: ceil(maxMarks * ratio)
//  4. only the sample cases passed: ceil(maxMarks * 0.35)
//  5. anything else: ceil(maxMarks * ratio * 0.7)
//
// A question without test cases awards nothing. The result is always within
// [0, maxMarks].
func Score(allPassed, samplePassed, total, maxMarks int) int {
	if total <= 0 || maxMarks <= 0 {
		return 0
	}

	marks := float64(maxMarks)
	ratio := float64(allPassed) / float64(total)
	sampleCount := min(constants.SampleCaseLimit, total)

	var earned int
	switch {
	case allPassed == total:
		earned = maxMarks
	case allPassed == 0:
		earned = 0
	case ratio >= constants.HighPassRatio:
		earned = int(math.Ceil(marks * ratio))
	case samplePassed == sampleCount && allPassed == samplePassed:
		earned = int(math.Ceil(marks * constants.SampleOnlyCreditRatio))
	default:
		earned = int(math.Ceil(marks * ratio * constants.PartialCreditDiscount))
	}

	return max(0, min(earned, maxMarks))
}
