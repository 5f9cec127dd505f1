package ledger

import "sort"

// Summary aggregates settled performance over a set of rows. Units wagered
// counts FINAL win/loss bets only; pushes, voids and cashouts return the
// stake and open bets are still at risk.
type Summary struct {
	Bets         int     `json:"bets"`
	Open         int     `json:"open"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Pushes       int     `json:"pushes"`
	Voids        int     `json:"voids"`
	Cashouts     int     `json:"cashouts"`
	UnitsWagered float64 `json:"units_wagered"`
	NetUnits     float64 `json:"net_units"`
	WinRate      float64 `json:"win_rate"`
	ROI          float64 `json:"roi"`
}

type Breakdown struct {
	Key string `json:"key"`
	Summary
}

func Summarize(bets []Bet) Summary {
	var s Summary
	for _, b := range bets {
		s.Bets++
		if b.Status != StatusFinal {
			s.Open++
			continue
		}
		switch b.Result {
		case ResultWin:
			s.Wins++
			s.UnitsWagered += b.Units
		case ResultLoss:
			s.Losses++
			s.UnitsWagered += b.Units
		case ResultPush:
			s.Pushes++
		case ResultVoid:
			s.Voids++
		case ResultCashout:
			s.Cashouts++
		}
		s.NetUnits += NetUnits(b)
	}
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if s.UnitsWagered > 0 {
		s.ROI = s.NetUnits / s.UnitsWagered
	}
	return s
}

// GroupBy buckets rows by key and summarizes each bucket, ordered by net
// units descending with the key as tie-break.
func GroupBy(bets []Bet, key func(Bet) string) []Breakdown {
	buckets := make(map[string][]Bet)
	for _, b := range bets {
		k := key(b)
		if k == "" {
			k = "(none)"
		}
		buckets[k] = append(buckets[k], b)
	}
	out := make([]Breakdown, 0, len(buckets))
	for k, rows := range buckets {
		out = append(out, Breakdown{Key: k, Summary: Summarize(rows)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NetUnits == out[j].NetUnits {
			return out[i].Key < out[j].Key
		}
		return out[i].NetUnits > out[j].NetUnits
	})
	return out
}

func ByCapper(bets []Bet) []Breakdown {
	return GroupBy(bets, func(b Bet) string { return b.Capper })
}

func ByLeague(bets []Bet) []Breakdown {
	return GroupBy(bets, func(b Bet) string { return b.League })
}

func ByMonth(bets []Bet) []Breakdown {
	return GroupBy(bets, func(b Bet) string { return b.Date.Format("2006-01") })
}
