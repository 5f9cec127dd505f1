package ledger

// NetUnits returns the net unit return for a bet using the American-odds
// payout formula. Open bets and bets without recorded odds return 0, as do
// pushes, voids and cashouts.
func NetUnits(b Bet) float64 {
	if b.Status != StatusFinal {
		return 0
	}
	switch b.Result {
	case ResultWin:
		switch {
		case b.Odds > 0:
			return b.Units * float64(b.Odds) / 100
		case b.Odds < 0:
			return b.Units * 100 / float64(-b.Odds)
		}
		return 0
	case ResultLoss:
		return -b.Units
	}
	return 0
}
