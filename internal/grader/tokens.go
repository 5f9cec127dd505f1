package grader

import "strings"

// tokenSet lowercases, strips punctuation and splits into a set of tokens.
func tokenSet(s string) map[string]struct{} {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(b.String()) {
		out[tok] = struct{}{}
	}
	return out
}

// overlap is Jaccard similarity over the two token sets. Identical
// non-empty text scores exactly 1.
func overlap(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}
