package scorer_test

import (
	"math"
	"testing"

	. "github.com/mini-maxit/grader/internal/stages/scorer"
)

func TestScore_Tiers(t *testing.T) {
	cases := []struct {
		name                    string
		allPassed, samplePassed int
		total, maxMarks, want   int
	}{
		{"all passed", 5, 2, 5, 10, 10},
		{"none passed", 0, 0, 5, 10, 0},
		{"high ratio", 4, 2, 5, 10, 8},
		{"high ratio rounds up", 9, 2, 11, 7, 6},
		{"only samples", 2, 2, 5, 10, 4},
		{"only samples rounds up", 2, 2, 5, 3, 2},
		{"partial credit", 3, 2, 5, 10, 5},
		{"partial credit without samples", 2, 0, 5, 10, 3},
		{"single case passed", 1, 1, 1, 7, 7},
		{"single case failed", 0, 0, 1, 7, 0},
		{"two cases one passed", 1, 1, 2, 10, 4},
		{"two cases second passed", 1, 0, 2, 10, 4},
		{"zero marks", 3, 2, 5, 0, 0},
		{"no test cases", 0, 0, 0, 10, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Score(c.allPassed, c.samplePassed, c.total, c.maxMarks)
			if got != c.want {
				t.Fatalf("Score(%d, %d, %d, %d) = %d, want %d",
					c.allPassed, c.samplePassed, c.total, c.maxMarks, got, c.want)
			}
		})
	}
}

func TestScore_SampleOnlyScenario(t *testing.T) {
	for maxMarks := 1; maxMarks <= 40; maxMarks++ {
		want := int(math.Ceil(0.35 * float64(maxMarks)))
		if got := Score(2, 2, 5, maxMarks); got != want {
			t.Fatalf("maxMarks=%d: got %d, want %d", maxMarks, got, want)
		}
	}
}

// sampleRange lists every sample pass count consistent with allPassed.
func sampleRange(allPassed, total int) []int {
	sampleCount := min(2, total)
	var out []int
	for s := max(0, allPassed-(total-sampleCount)); s <= min(allPassed, sampleCount); s++ {
		out = append(out, s)
	}
	return out
}

func TestScore_Bounds(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for maxMarks := 0; maxMarks <= 30; maxMarks++ {
			for all := 0; all <= total; all++ {
				for _, sample := range sampleRange(all, total) {
					got := Score(all, sample, total, maxMarks)
					if got < 0 || got > maxMarks {
						t.Fatalf("Score(%d, %d, %d, %d) = %d out of range", all, sample, total, maxMarks, got)
					}
				}
			}
		}
	}
}

func TestScore_MonotonicWithFixedSamples(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for maxMarks := 0; maxMarks <= 30; maxMarks++ {
			prev := -1
			for all := 0; all <= total; all++ {
				sample := sampleRange(all, total)[0]
				got := Score(all, sample, total, maxMarks)
				if got < prev {
					t.Fatalf("total=%d maxMarks=%d: score dropped from %d to %d at allPassed=%d",
						total, maxMarks, prev, got, all)
				}
				prev = got
			}
		}
	}
}

// The sample-only tier can outrank generic partial credit once a question has
// seven or more cases, so full monotonicity only holds up to six.
func TestScore_MonotonicUpToSixCases(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for maxMarks := 0; maxMarks <= 50; maxMarks++ {
			for all := 0; all < total; all++ {
				highest := 0
				for _, s := range sampleRange(all, total) {
					highest = max(highest, Score(all, s, total, maxMarks))
				}
				for _, s := range sampleRange(all+1, total) {
					if got := Score(all+1, s, total, maxMarks); got < highest {
						t.Fatalf("total=%d maxMarks=%d: allPassed=%d scores %d below %d",
							total, maxMarks, all+1, got, highest)
					}
				}
			}
		}
	}

	if Score(2, 2, 10, 10) <= Score(3, 2, 10, 10) {
		t.Fatalf("expected the sample-only tier to outrank three of ten passes")
	}
}
