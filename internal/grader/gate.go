package grader

import (
	"fmt"
	"sort"
	"strings"
)

// commitFloor is the minimum confidence every proposal in a batch must
// reach before any of them is written. One shaky match blocks the whole
// slip so the caller can review it instead of half-applying it.
const commitFloor = 0.75

// Decision says whether a proposal batch may be written. Blockers explain
// a refusal; in preview mode there are no blockers, proposals are simply
// reported without being applied.
type Decision struct {
	Apply    bool
	Blockers []string
}

// Gate decides whether proposals may be committed. All writes are gated as
// a single batch: either every proposal clears the confidence floor or
// nothing is applied.
func Gate(proposals []Proposal, commit bool) Decision {
	if !commit {
		return Decision{}
	}
	if len(proposals) == 0 {
		return Decision{Blockers: []string{"no settlements proposed"}}
	}
	var low []string
	for _, p := range proposals {
		if p.Confidence < commitFloor {
			low = append(low, fmt.Sprintf("%s (%.2f)", p.Bet.ID, p.Confidence))
		}
	}
	if len(low) > 0 {
		sort.Strings(low)
		return Decision{Blockers: []string{
			fmt.Sprintf("low-confidence matches below %.2f: %s", commitFloor, strings.Join(low, ", ")),
		}}
	}
	return Decision{Apply: true}
}
