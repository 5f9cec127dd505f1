// Package leagues resolves free-text league labels to canonical
// sport/league keys, backed by a built-in table and an optional external
// scoreboard index cached for a few hours.
package leagues

import "strings"

// League is one canonical sport/league entry.
type League struct {
	Key     string   `json:"key"`
	Sport   string   `json:"sport"`
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
}

// Candidate is a ranked near-miss returned when no alias matches exactly.
type Candidate struct {
	League League  `json:"league"`
	Score  float64 `json:"score"`
}

// Resolution is the tagged outcome of a lookup: either Exact with League
// set, or a ranked candidate list (possibly empty).
type Resolution struct {
	Exact      bool        `json:"exact"`
	League     League      `json:"league,omitempty"`
	Candidates []Candidate `json:"candidates,omitempty"`
}

// builtin covers the leagues that show up on slips whether or not the
// external index is configured or reachable.
var builtin = []League{
	{Key: "nba", Sport: "basketball", Name: "NBA", Aliases: []string{"national basketball association", "nba basketball"}},
	{Key: "wnba", Sport: "basketball", Name: "WNBA"},
	{Key: "ncaab", Sport: "basketball", Name: "NCAA Basketball", Aliases: []string{"college basketball", "ncaa mens basketball", "cbb"}},
	{Key: "nfl", Sport: "football", Name: "NFL", Aliases: []string{"national football league"}},
	{Key: "ncaaf", Sport: "football", Name: "NCAA Football", Aliases: []string{"college football", "cfb"}},
	{Key: "mlb", Sport: "baseball", Name: "MLB", Aliases: []string{"major league baseball"}},
	{Key: "nhl", Sport: "hockey", Name: "NHL", Aliases: []string{"national hockey league"}},
	{Key: "epl", Sport: "soccer", Name: "Premier League", Aliases: []string{"english premier league", "premier league england"}},
	{Key: "laliga", Sport: "soccer", Name: "La Liga", Aliases: []string{"la liga spain", "spanish la liga"}},
	{Key: "seriea", Sport: "soccer", Name: "Serie A", Aliases: []string{"serie a italy", "italian serie a"}},
	{Key: "bundesliga", Sport: "soccer", Name: "Bundesliga", Aliases: []string{"german bundesliga"}},
	{Key: "ligue1", Sport: "soccer", Name: "Ligue 1", Aliases: []string{"french ligue 1"}},
	{Key: "ucl", Sport: "soccer", Name: "Champions League", Aliases: []string{"uefa champions league"}},
	{Key: "mls", Sport: "soccer", Name: "MLS", Aliases: []string{"major league soccer"}},
	{Key: "ufc", Sport: "mma", Name: "UFC", Aliases: []string{"ultimate fighting championship", "mma"}},
	{Key: "atp", Sport: "tennis", Name: "ATP", Aliases: []string{"atp tour", "mens tennis"}},
	{Key: "wta", Sport: "tennis", Name: "WTA", Aliases: []string{"wta tour", "womens tennis"}},
	{Key: "pga", Sport: "golf", Name: "PGA Tour", Aliases: []string{"pga", "golf"}},
}

// normalizeLabel flattens case, punctuation and spacing so aliases match
// the way people actually type league names.
func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func labelTokens(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, tok := range strings.Fields(normalizeLabel(s)) {
		out[tok] = struct{}{}
	}
	return out
}

func labelOverlap(a, b string) float64 {
	sa := labelTokens(a)
	sb := labelTokens(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(sa)+len(sb)-inter)
}
