package grader

import (
	"math"
	"strings"
	"testing"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
)

func openBet(id, play string) ledger.Bet {
	return ledger.Bet{
		ID:     id,
		Play:   play,
		Status: ledger.StatusOpen,
		Result: ledger.ResultOpen,
	}
}

func TestOverlapIdenticalText(t *testing.T) {
	if got := overlap("Lakers ML -110", "Lakers ML -110"); got != 1.0 {
		t.Fatalf("overlap = %v, want 1.0", got)
	}
	if got := overlap("lakers ml", "LAKERS. ML!"); got != 1.0 {
		t.Fatalf("case and punctuation should not matter, got %v", got)
	}
	if got := overlap("", "Lakers"); got != 0 {
		t.Fatalf("empty side must score 0, got %v", got)
	}
}

func TestMatchIdenticalLegWins(t *testing.T) {
	cands := []ledger.Bet{
		openBet("b1", "Celtics +4.5"),
		openBet("b2", "Lakers ML vs Nuggets"),
		openBet("b3", "Knicks under 212.5"),
	}
	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{TicketStatus: "FINAL", TicketResult: "WIN"},
		Legs: []llm.ExtractedLeg{
			{Play: "Lakers ML vs Nuggets", Result: "WIN", Score: "112-104"},
		},
	}

	out := Match(ex, cands, "openai")
	if len(out.Proposals) != 1 {
		t.Fatalf("proposals = %d, want 1 (%v)", len(out.Proposals), out.Diagnostics)
	}
	p := out.Proposals[0]
	if p.Bet.ID != "b2" {
		t.Fatalf("matched %s, want b2", p.Bet.ID)
	}
	if p.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0 for identical text", p.Confidence)
	}
	if p.Result != ledger.ResultWin || p.Status != ledger.StatusFinal {
		t.Fatalf("proposal = %s/%s", p.Status, p.Result)
	}
	if p.FinalScore != "112-104" {
		t.Fatalf("final score = %q", p.FinalScore)
	}
}

func TestMatchBelowFloorProposesNothing(t *testing.T) {
	cands := []ledger.Bet{openBet("b1", "Arsenal to win and both teams to score combo special")}
	ex := llm.SlipExtraction{
		Legs: []llm.ExtractedLeg{{Play: "Yankees team total over along with runline", Result: "LOSS"}},
	}

	out := Match(ex, cands, "groq")
	if len(out.Proposals) != 0 {
		t.Fatalf("proposals = %v, want none", out.Proposals)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", out.Diagnostics)
	}
	if !strings.Contains(out.Diagnostics[0], "no open bet matched") {
		t.Fatalf("diagnostic = %q", out.Diagnostics[0])
	}
}

func TestMatchSlipRefNarrowing(t *testing.T) {
	b1 := openBet("b1", "Lakers ML")
	b1.SlipRef = "TK-991"
	b2 := openBet("b2", "Lakers ML")
	b2.SlipRef = "TK-444"

	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{SlipRef: "tk-991", TicketStatus: "FINAL", TicketResult: "LOSS"},
	}
	out := Match(ex, []ledger.Bet{b1, b2}, "openai")
	if len(out.Proposals) != 1 || out.Proposals[0].Bet.ID != "b1" {
		t.Fatalf("proposals = %v, want just b1", out.Proposals)
	}
	if out.Proposals[0].Confidence != slipRefConfidence {
		t.Fatalf("confidence = %v, want %v", out.Proposals[0].Confidence, slipRefConfidence)
	}
	if out.Proposals[0].LegIndex != -1 {
		t.Fatalf("ticket settlement should carry leg index -1, got %d", out.Proposals[0].LegIndex)
	}
}

func TestMatchSlipRefMissEndsMatching(t *testing.T) {
	b := openBet("b1", "Lakers ML")
	b.SlipRef = "TK-1"
	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{SlipRef: "TK-2", TicketStatus: "FINAL", TicketResult: "WIN"},
		Legs:   []llm.ExtractedLeg{{Play: "Lakers ML", Result: "WIN"}},
	}
	out := Match(ex, []ledger.Bet{b}, "openai")
	if len(out.Proposals) != 0 {
		t.Fatalf("proposals = %v, want none when the slip ref matches nothing", out.Proposals)
	}
	if len(out.Diagnostics) != 1 || !strings.Contains(out.Diagnostics[0], "TK-2") {
		t.Fatalf("diagnostics = %v", out.Diagnostics)
	}
}

func TestMatchTicketByBookHeuristic(t *testing.T) {
	b1 := openBet("b1", "Chiefs -3")
	b1.Book = "DraftKings"
	b2 := openBet("b2", "Bills ML")
	b2.Book = "FanDuel"

	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{TicketStatus: "FINAL", TicketResult: "PUSH", Book: "draftkings"},
	}
	out := Match(ex, []ledger.Bet{b1, b2}, "kimi")
	if len(out.Proposals) != 1 || out.Proposals[0].Bet.ID != "b1" {
		t.Fatalf("proposals = %v, want just b1", out.Proposals)
	}
	if out.Proposals[0].Confidence != heuristicConfidence {
		t.Fatalf("confidence = %v, want %v", out.Proposals[0].Confidence, heuristicConfidence)
	}
}

func TestMatchSettledParlaySettlesAllRefRows(t *testing.T) {
	b1 := openBet("b1", "Lakers ML vs Nuggets")
	b1.SlipRef = "TK-9"
	b2 := openBet("b2", "Celtics -4.5")
	b2.SlipRef = "TK-9"

	// A visible winning leg must not shrink a grouped-parlay settlement:
	// the ref-attributed ticket settles both rows, not just the leg match.
	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{SlipRef: "TK-9", TicketStatus: "FINAL", TicketResult: "WIN"},
		Legs:   []llm.ExtractedLeg{{Play: "Lakers ML vs Nuggets", Result: "WIN"}},
	}
	out := Match(ex, []ledger.Bet{b1, b2}, "openai")
	if len(out.Proposals) != 2 {
		t.Fatalf("proposals = %d, want both TK-9 rows settled (%v)", len(out.Proposals), out.Diagnostics)
	}
	for _, p := range out.Proposals {
		if p.Confidence != slipRefConfidence || p.LegIndex != -1 {
			t.Fatalf("proposal %s = conf %v legIndex %d, want ticket settlement at %v",
				p.Bet.ID, p.Confidence, p.LegIndex, slipRefConfidence)
		}
		if p.Status != ledger.StatusFinal || p.Result != ledger.ResultWin {
			t.Fatalf("proposal %s = %s/%s", p.Bet.ID, p.Status, p.Result)
		}
	}
	if len(out.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v, want none", out.Diagnostics)
	}
}

func TestMatchOpenTicketNeverSettlesByTicket(t *testing.T) {
	b := openBet("b1", "Chiefs -3")
	b.Book = "DraftKings"

	// An OPEN ticket carrying a provisional WIN result must not be treated
	// as a settlement, even with a clean book attribution.
	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{TicketStatus: "OPEN", TicketResult: "WIN", Book: "DraftKings"},
	}
	out := Match(ex, []ledger.Bet{b}, "openai")
	if len(out.Proposals) != 0 {
		t.Fatalf("proposals = %v, want none for an unsettled ticket", out.Proposals)
	}
}

func TestMatchBookMissFallsBackToLegs(t *testing.T) {
	b := openBet("b1", "Lakers ML vs Nuggets")
	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{TicketStatus: "FINAL", TicketResult: "WIN", Book: "Caesars"},
		Legs:   []llm.ExtractedLeg{{Play: "Lakers ML vs Nuggets", Result: "WIN", Score: "112-104"}},
	}
	out := Match(ex, []ledger.Bet{b}, "openai")
	if len(out.Proposals) != 1 || out.Proposals[0].Bet.ID != "b1" {
		t.Fatalf("proposals = %v, want the leg match when no row carries the book", out.Proposals)
	}
	if out.Proposals[0].LegIndex != 0 {
		t.Fatalf("legIndex = %d, want a leg-level proposal", out.Proposals[0].LegIndex)
	}
}

func TestMatchTicketWithNoAttribution(t *testing.T) {
	ex := llm.SlipExtraction{
		Ticket: llm.TicketInfo{TicketStatus: "FINAL", TicketResult: "WIN"},
	}
	out := Match(ex, []ledger.Bet{openBet("b1", "Lakers ML")}, "openai")
	if len(out.Proposals) != 0 || len(out.Diagnostics) != 1 {
		t.Fatalf("out = %+v, want one diagnostic and no proposals", out)
	}
}

func TestMatchCandidateConsumedOnce(t *testing.T) {
	cands := []ledger.Bet{openBet("b1", "Lakers ML")}
	ex := llm.SlipExtraction{
		Legs: []llm.ExtractedLeg{
			{Play: "Lakers ML", Result: "WIN"},
			{Play: "Lakers ML", Result: "LOSS"},
		},
	}
	out := Match(ex, cands, "openai")
	if len(out.Proposals) != 1 {
		t.Fatalf("proposals = %d, want 1; a row settles at most once per slip", len(out.Proposals))
	}
	if out.Proposals[0].Result != ledger.ResultWin {
		t.Fatalf("first leg should claim the row, got %s", out.Proposals[0].Result)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("second leg should be diagnosed unmatched, got %v", out.Diagnostics)
	}
}

func TestMatchOpenLegsIgnored(t *testing.T) {
	ex := llm.SlipExtraction{
		Legs: []llm.ExtractedLeg{{Play: "Lakers ML", Result: "OPEN"}},
	}
	out := Match(ex, []ledger.Bet{openBet("b1", "Lakers ML")}, "openai")
	if len(out.Proposals) != 0 || len(out.Diagnostics) != 0 {
		t.Fatalf("open legs must not produce proposals or noise, got %+v", out)
	}
}

func TestLegScoreComponentBlend(t *testing.T) {
	leg := llm.ExtractedLeg{Play: "Lakers ML", Market: "moneyline", Opponent: "Nuggets"}
	bet := ledger.Bet{Play: "Lakers ML", Market: "moneyline"}

	got := legScore(leg, bet)
	// Opponent tokens never appear on the row, so only the combined and
	// market components can contribute. Combined shares 3 of 4 tokens.
	want := (weightCombined*0.75 + weightOpponent*0 + weightMarket*1.0) /
		(weightCombined + weightOpponent + weightMarket)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("legScore = %v, want %v", got, want)
	}
}
