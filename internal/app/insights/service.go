// Package insights answers free-text questions about a user's ledger with
// the provider router, constrained to facts computed from the rows.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
	"github.com/r88510179-collab/breakfast-klub/internal/store"
)

var (
	ErrEmptyQuestion  = errors.New("empty_question")
	ErrAnswerRejected = errors.New("answer_rejected")
)

const contextRowLimit = 200

type Service struct {
	store  *store.Store
	router *llm.Router
}

func NewService(st *store.Store, router *llm.Router) *Service {
	return &Service{store: st, router: router}
}

type AskResult struct {
	Provider string           `json:"provider"`
	Answer   llm.LedgerAnswer `json:"answer"`
}

// contextRow is the compact per-bet shape handed to the model. Only ids
// from this list may be referenced back.
type contextRow struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Capper   string  `json:"capper,omitempty"`
	League   string  `json:"league,omitempty"`
	Play     string  `json:"play"`
	Odds     int     `json:"odds,omitempty"`
	Units    float64 `json:"units,omitempty"`
	Status   string  `json:"status"`
	Result   string  `json:"result"`
	NetUnits float64 `json:"net_units"`
}

// Ask answers one question over the caller's ledger. The model's reply
// must parse into the answer schema and survive fact checking; one
// verifier repair is attempted before giving up.
func (s *Service) Ask(ctx context.Context, userID, question string) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	rows, err := s.store.ListBets(ctx, userID, store.BetFilter{}, contextRowLimit, 0)
	if err != nil {
		return nil, err
	}

	knownIDs := make(map[string]bool, len(rows))
	ctxRows := make([]contextRow, 0, len(rows))
	for _, b := range rows {
		knownIDs[b.ID] = true
		ctxRows = append(ctxRows, contextRow{
			ID:       b.ID,
			Date:     b.Date.Format("2006-01-02"),
			Capper:   b.Capper,
			League:   b.League,
			Play:     b.Play,
			Odds:     b.Odds,
			Units:    b.Units,
			Status:   string(b.Status),
			Result:   string(b.Result),
			NetUnits: ledger.NetUnits(b),
		})
	}
	facts := ledgerFacts(rows)

	payload, err := json.Marshal(map[string]any{"bets": ctxRows, "facts": facts})
	if err != nil {
		return nil, err
	}
	msgs := llm.AnswerMessages(question, string(payload))

	c, err := s.router.PrimaryCompletion(ctx, llm.StrategyFast, msgs)
	if err != nil {
		return nil, err
	}
	res := checkAnswer(c.Content, knownIDs, facts)
	if res.Valid {
		return &AskResult{Provider: c.Provider, Answer: res.Data}, nil
	}

	log.Debug().Str("provider", c.Provider).Str("reason", res.Reason).Msg("answer failed validation, trying repair")
	repair, err := s.router.VerifierCompletion(ctx, llm.RepairMessages(&llm.LedgerAnswer{}, c.Content, res.Reason))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAnswerRejected, res.Reason)
	}
	repaired := checkAnswer(repair.Content, knownIDs, facts)
	if !repaired.Valid {
		return nil, fmt.Errorf("%w: %s", ErrAnswerRejected, repaired.Reason)
	}
	return &AskResult{Provider: repair.Provider, Answer: repaired.Data}, nil
}

func checkAnswer(content string, knownIDs map[string]bool, facts map[string]float64) llm.AnswerResult {
	parsed := llm.ParseAnswer(content)
	if !parsed.Valid {
		return parsed
	}
	return llm.ValidateAnswer(parsed.Data, knownIDs, facts)
}

// ledgerFacts precomputes every number the model is allowed to cite.
func ledgerFacts(rows []ledger.Bet) map[string]float64 {
	s := ledger.Summarize(rows)
	return map[string]float64{
		"bets":          float64(s.Bets),
		"open":          float64(s.Open),
		"wins":          float64(s.Wins),
		"losses":        float64(s.Losses),
		"pushes":        float64(s.Pushes),
		"voids":         float64(s.Voids),
		"cashouts":      float64(s.Cashouts),
		"units_wagered": s.UnitsWagered,
		"net_units":     s.NetUnits,
		"win_rate":      s.WinRate,
		"roi":           s.ROI,
	}
}
