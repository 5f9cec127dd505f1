package ledger

import (
	"fmt"
	"strings"
)

// ValidationError carries every field problem found in one pass so the
// caller can surface them together. No partial writes happen behind it.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid bet: " + strings.Join(e.Problems, "; ")
}

// Validate checks a bet before any write. The settlement invariant is the
// important one: a FINAL row must carry a settled result, and an OPEN row
// must not.
func Validate(b Bet) error {
	var problems []string
	if strings.TrimSpace(b.Play) == "" {
		problems = append(problems, "play is required")
	}
	if b.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if b.Units < 0 {
		problems = append(problems, "units cannot be negative")
	}
	if !ValidStatus(b.Status) {
		problems = append(problems, fmt.Sprintf("unknown status %q", b.Status))
	}
	if !ValidResult(b.Result) {
		problems = append(problems, fmt.Sprintf("unknown result %q", b.Result))
	}
	if b.Status == StatusFinal && b.Result == ResultOpen {
		problems = append(problems, "a FINAL bet requires a settled result")
	}
	if b.Status == StatusOpen && ValidResult(b.Result) && b.Result != ResultOpen {
		problems = append(problems, "an OPEN bet cannot carry a settled result")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
