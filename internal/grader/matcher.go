package grader

import (
	"fmt"
	"strings"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
)

// Scoring weights for pairing an extracted leg with a candidate row. The
// combined free-text comparison dominates, with opponent and market text
// acting as tie-breakers. Pairs scoring under acceptFloor are never
// proposed.
const (
	weightCombined = 0.65
	weightOpponent = 0.20
	weightMarket   = 0.15

	acceptFloor = 0.35

	slipRefConfidence   = 0.99
	heuristicConfidence = 0.70
)

// Proposal is one settlement the matcher wants to write. Confidence is the
// match score for leg-level pairs and a fixed attribution confidence for
// ticket-level settlements.
type Proposal struct {
	Bet        ledger.Bet
	Status     ledger.Status
	Result     ledger.Result
	FinalScore string
	Confidence float64
	LegIndex   int // -1 for ticket-level settlements
	Provider   string
}

// Outcome carries the proposals alongside diagnostics for everything on
// the slip that could not be attributed to a candidate row.
type Outcome struct {
	Proposals   []Proposal
	Diagnostics []string
}

// Match pairs a slip extraction against the caller's open bets and turns
// settled legs into settlement proposals. It never writes anything itself.
func Match(ex llm.SlipExtraction, candidates []ledger.Bet, provider string) Outcome {
	var out Outcome

	pool := candidates
	narrowedByRef := false
	if ref := strings.TrimSpace(ex.Ticket.SlipRef); ref != "" {
		var narrowed []ledger.Bet
		for _, b := range pool {
			if strings.EqualFold(strings.TrimSpace(b.SlipRef), ref) {
				narrowed = append(narrowed, b)
			}
		}
		if len(narrowed) == 0 {
			out.Diagnostics = append(out.Diagnostics,
				fmt.Sprintf("no open bets carry slip reference %q", ref))
			return out
		}
		pool = narrowed
		narrowedByRef = true
	}

	// A settled ticket (status FINAL, settled result) attributed by slip
	// reference or book settles every remaining candidate row, legs or no
	// legs. Grouped parlays are stored as several rows under one reference,
	// so settling only the legs the image shows would leave sibling rows
	// open. Without either attribution the legs themselves are the only
	// evidence and matching falls through to the per-leg pass.
	ticketStatus := strings.ToUpper(strings.TrimSpace(ex.Ticket.TicketStatus))
	ticketResult := strings.ToUpper(strings.TrimSpace(ex.Ticket.TicketResult))
	if ticketStatus == "FINAL" && ticketResult != "" && ticketResult != "OPEN" {
		settle := func(rows []ledger.Bet, conf float64) {
			for _, b := range rows {
				out.Proposals = append(out.Proposals, Proposal{
					Bet:        b,
					Status:     ledger.StatusFinal,
					Result:     ledger.Result(ticketResult),
					FinalScore: strings.TrimSpace(ex.Ticket.FinalScore),
					Confidence: conf,
					LegIndex:   -1,
					Provider:   provider,
				})
			}
		}
		if narrowedByRef {
			settle(pool, slipRefConfidence)
			return out
		}
		if book := strings.TrimSpace(ex.Ticket.Book); book != "" {
			var narrowed []ledger.Bet
			for _, b := range pool {
				if strings.EqualFold(strings.TrimSpace(b.Book), book) {
					narrowed = append(narrowed, b)
				}
			}
			if len(narrowed) > 0 {
				settle(narrowed, heuristicConfidence)
				return out
			}
			if !hasSettledLeg(ex.Legs) {
				out.Diagnostics = append(out.Diagnostics,
					fmt.Sprintf("no open bets at book %q to attribute the ticket settlement to", book))
				return out
			}
		} else if !hasSettledLeg(ex.Legs) {
			out.Diagnostics = append(out.Diagnostics,
				"settled ticket has no slip reference, book or readable legs; cannot attribute it")
			return out
		}
	}

	used := make([]bool, len(pool))
	for i, leg := range ex.Legs {
		if leg.Result == "" || leg.Result == "OPEN" {
			continue
		}
		bestIdx := -1
		bestScore := 0.0
		for j, b := range pool {
			if used[j] {
				continue
			}
			s := legScore(leg, b)
			if s > bestScore {
				bestScore = s
				bestIdx = j
			}
		}
		if bestIdx < 0 || bestScore < acceptFloor {
			out.Diagnostics = append(out.Diagnostics,
				fmt.Sprintf("leg %d (%s): no open bet matched, best score %.2f", i, leg.Play, bestScore))
			continue
		}
		used[bestIdx] = true
		out.Proposals = append(out.Proposals, Proposal{
			Bet:        pool[bestIdx],
			Status:     ledger.StatusFinal,
			Result:     ledger.Result(leg.Result),
			FinalScore: strings.TrimSpace(leg.Score),
			Confidence: bestScore,
			LegIndex:   i,
			Provider:   provider,
		})
	}
	return out
}

func hasSettledLeg(legs []llm.ExtractedLeg) bool {
	for _, l := range legs {
		if l.Result != "" && l.Result != "OPEN" {
			return true
		}
	}
	return false
}

// legScore blends token overlaps between the leg and a candidate row.
// Components missing on either side give their weight back to the ones
// present, so identical combined text still scores a full 1.0 on a slip
// that prints no opponent or market line.
func legScore(leg llm.ExtractedLeg, b ledger.Bet) float64 {
	legCombined := joinText(leg.Play, leg.Selection, leg.Market, leg.Opponent)
	betCombined := joinText(b.Play, b.Selection, b.Market)

	type component struct {
		weight float64
		a, b   string
	}
	comps := []component{
		{weightCombined, legCombined, betCombined},
		{weightOpponent, leg.Opponent, joinText(b.Play, b.Selection)},
		{weightMarket, leg.Market, b.Market},
	}

	var sum, weight float64
	for _, c := range comps {
		if strings.TrimSpace(c.a) == "" || strings.TrimSpace(c.b) == "" {
			continue
		}
		sum += c.weight * overlap(c.a, c.b)
		weight += c.weight
	}
	if weight == 0 {
		return 0
	}
	return sum / weight
}

func joinText(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
