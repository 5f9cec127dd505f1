package bets

import (
	"strings"
	"time"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
)

// BetInput is the write payload for create and update. Status and result
// default to OPEN when omitted.
type BetInput struct {
	Date       time.Time      `json:"date"`
	Capper     string         `json:"capper"`
	Sport      string         `json:"sport"`
	League     string         `json:"league"`
	Market     string         `json:"market"`
	Play       string         `json:"play"`
	Selection  string         `json:"selection"`
	Line       *float64       `json:"line"`
	Odds       int            `json:"odds"`
	Units      float64        `json:"units"`
	Status     string         `json:"status"`
	Result     string         `json:"result"`
	FinalScore string         `json:"final_score"`
	Notes      string         `json:"notes"`
	Book       string         `json:"book"`
	SlipRef    string         `json:"slip_ref"`
	AIMeta     *ledger.AIMeta `json:"ai_meta"`
}

func (in BetInput) toBet(userID string) ledger.Bet {
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = string(ledger.StatusOpen)
	}
	result := strings.ToUpper(strings.TrimSpace(in.Result))
	if result == "" {
		result = string(ledger.ResultOpen)
	}
	return ledger.Bet{
		UserID:     userID,
		Date:       in.Date,
		Capper:     strings.TrimSpace(in.Capper),
		Sport:      strings.TrimSpace(in.Sport),
		League:     strings.TrimSpace(in.League),
		Market:     strings.TrimSpace(in.Market),
		Play:       strings.TrimSpace(in.Play),
		Selection:  strings.TrimSpace(in.Selection),
		Line:       in.Line,
		Odds:       in.Odds,
		Units:      in.Units,
		Status:     ledger.Status(status),
		Result:     ledger.Result(result),
		FinalScore: strings.TrimSpace(in.FinalScore),
		Notes:      in.Notes,
		Book:       strings.TrimSpace(in.Book),
		SlipRef:    strings.TrimSpace(in.SlipRef),
		AIMeta:     in.AIMeta,
	}
}

// BetView is a ledger row with its computed net unit return attached.
type BetView struct {
	ledger.Bet
	NetUnits float64 `json:"net_units"`
}

func viewOf(b ledger.Bet) BetView {
	return BetView{Bet: b, NetUnits: ledger.NetUnits(b)}
}

type ListResponse struct {
	Items  []BetView `json:"items"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

type StatsResponse struct {
	Totals   ledger.Summary     `json:"totals"`
	ByCapper []ledger.Breakdown `json:"by_capper"`
	ByLeague []ledger.Breakdown `json:"by_league"`
	ByMonth  []ledger.Breakdown `json:"by_month"`
}
