package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// LedgerAnswer is the structured reply to a ledger question. Figures must
// restate numbers from the supplied fact set byte-for-byte in meaning; the
// validator rejects invented ids and mismatched figures.
type LedgerAnswer struct {
	Answer           string             `json:"answer"`
	ReferencedBetIDs []string           `json:"referenced_bet_ids,omitempty"`
	Figures          map[string]float64 `json:"figures,omitempty"`
}

type AnswerResult struct {
	Valid  bool
	Data   LedgerAnswer
	Reason string
}

func invalidAnswer(format string, args ...any) AnswerResult {
	return AnswerResult{Reason: fmt.Sprintf(format, args...)}
}

const figureEpsilon = 1e-6

func ParseAnswer(content string) AnswerResult {
	raw, ok := jsonObject(content)
	if !ok {
		return invalidAnswer("no JSON object in content")
	}
	var data LedgerAnswer
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return invalidAnswer("decode: %v", err)
	}
	if strings.TrimSpace(data.Answer) == "" {
		return invalidAnswer("missing answer text")
	}
	return AnswerResult{Valid: true, Data: data}
}

// ValidateAnswer checks a parsed answer against the known bet-id set and
// the exact numeric facts computed from the ledger.
func ValidateAnswer(a LedgerAnswer, knownIDs map[string]bool, facts map[string]float64) AnswerResult {
	for _, id := range a.ReferencedBetIDs {
		if !knownIDs[id] {
			return invalidAnswer("referenced bet id %q is not in the ledger", id)
		}
	}
	for key, val := range a.Figures {
		want, ok := facts[key]
		if !ok {
			return invalidAnswer("figure %q is not a known fact", key)
		}
		if math.Abs(val-want) > figureEpsilon {
			return invalidAnswer("figure %q = %v does not match ledger value %v", key, val, want)
		}
	}
	return AnswerResult{Valid: true, Data: a}
}
