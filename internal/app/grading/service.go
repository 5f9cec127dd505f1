package grading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/r88510179-collab/breakfast-klub/internal/grader"
	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
	"github.com/r88510179-collab/breakfast-klub/internal/store"
)

// ErrExtractionFailed means neither the primary pass nor the verifier
// repair produced a schema-valid extraction.
var ErrExtractionFailed = errors.New("extraction_failed")

type Service struct {
	store  *store.Store
	router *llm.Router
}

func NewService(st *store.Store, router *llm.Router) *Service {
	return &Service{store: st, router: router}
}

// Draft is a prefilled ledger row built from one extracted leg. Drafts are
// returned for user review; nothing is inserted by a scan.
type Draft struct {
	Play       string         `json:"play"`
	Selection  string         `json:"selection,omitempty"`
	Market     string         `json:"market,omitempty"`
	League     string         `json:"league,omitempty"`
	Odds       int            `json:"odds,omitempty"`
	Units      float64        `json:"units,omitempty"`
	Status     string         `json:"status"`
	Result     string         `json:"result"`
	FinalScore string         `json:"final_score,omitempty"`
	Book       string         `json:"book,omitempty"`
	SlipRef    string         `json:"slip_ref,omitempty"`
	AIMeta     *ledger.AIMeta `json:"ai_meta"`
}

type ScanResult struct {
	Provider   string             `json:"provider"`
	GroupID    string             `json:"group_id"`
	Extraction llm.SlipExtraction `json:"extraction"`
	Drafts     []Draft            `json:"drafts"`
}

// Scan extracts the legs on a slip image and turns them into reviewable
// draft rows. Legs on the same slip share a parlay group id.
func (s *Service) Scan(ctx context.Context, imageDataURI string) (*ScanResult, error) {
	ext, provider, err := s.extract(ctx, imageDataURI)
	if err != nil {
		return nil, err
	}

	groupID := uuid.NewString()
	drafts := make([]Draft, 0, len(ext.Legs))
	for i, leg := range ext.Legs {
		status := string(ledger.StatusOpen)
		result := leg.Result
		if result == "" {
			result = string(ledger.ResultOpen)
		}
		if result != string(ledger.ResultOpen) {
			status = string(ledger.StatusFinal)
		}
		drafts = append(drafts, Draft{
			Play:       leg.Play,
			Selection:  leg.Selection,
			Market:     leg.Market,
			League:     leg.League,
			Odds:       leg.Odds,
			Units:      leg.Units,
			Status:     status,
			Result:     result,
			FinalScore: leg.Score,
			Book:       ext.Ticket.Book,
			SlipRef:    ext.Ticket.SlipRef,
			AIMeta: &ledger.AIMeta{
				Provider:   provider,
				GroupID:    groupID,
				LegIndex:   i,
				TotalLegs:  len(ext.Legs),
				Confidence: 1,
			},
		})
	}
	return &ScanResult{
		Provider:   provider,
		GroupID:    groupID,
		Extraction: ext,
		Drafts:     drafts,
	}, nil
}

// ProposalView is one grading proposal rendered for the caller.
type ProposalView struct {
	BetID      string  `json:"bet_id"`
	Play       string  `json:"play"`
	Status     string  `json:"status"`
	Result     string  `json:"result"`
	FinalScore string  `json:"final_score,omitempty"`
	Confidence float64 `json:"confidence"`
	LegIndex   int     `json:"leg_index"`
}

type GradeResult struct {
	Provider    string         `json:"provider"`
	Proposals   []ProposalView `json:"proposals"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
	Applied     bool           `json:"applied"`
	Blockers    []string       `json:"blockers,omitempty"`
}

// Grade extracts a settled slip, matches its legs against the caller's
// open rows and either previews the settlements or, in commit mode,
// applies them as one batch once every match clears the confidence floor.
func (s *Service) Grade(ctx context.Context, userID, imageDataURI string, commit bool) (*GradeResult, error) {
	ext, provider, err := s.extract(ctx, imageDataURI)
	if err != nil {
		return nil, err
	}

	open, err := s.store.ListBets(ctx, userID, store.BetFilter{Status: string(ledger.StatusOpen)}, 500, 0)
	if err != nil {
		return nil, err
	}

	outcome := grader.Match(ext, open, provider)
	decision := grader.Gate(outcome.Proposals, commit)

	res := &GradeResult{
		Provider:    provider,
		Proposals:   make([]ProposalView, 0, len(outcome.Proposals)),
		Diagnostics: outcome.Diagnostics,
		Blockers:    decision.Blockers,
	}
	for _, p := range outcome.Proposals {
		res.Proposals = append(res.Proposals, ProposalView{
			BetID:      p.Bet.ID,
			Play:       p.Bet.Play,
			Status:     string(p.Status),
			Result:     string(p.Result),
			FinalScore: p.FinalScore,
			Confidence: p.Confidence,
			LegIndex:   p.LegIndex,
		})
	}
	if !decision.Apply {
		return res, nil
	}

	updates := make([]store.GradingUpdate, 0, len(outcome.Proposals))
	gradedAt := time.Now().UTC().Format(time.RFC3339)
	for _, p := range outcome.Proposals {
		meta := &ledger.AIMeta{
			Provider:   p.Provider,
			Confidence: p.Confidence,
			GradedBy:   "ai",
			GradedAt:   gradedAt,
		}
		if p.Bet.AIMeta != nil {
			meta.GroupID = p.Bet.AIMeta.GroupID
			meta.LegIndex = p.Bet.AIMeta.LegIndex
			meta.TotalLegs = p.Bet.AIMeta.TotalLegs
		}
		updates = append(updates, store.GradingUpdate{
			BetID:      p.Bet.ID,
			Status:     p.Status,
			Result:     p.Result,
			FinalScore: p.FinalScore,
			Meta:       meta,
		})
	}
	if err := s.store.ApplyGrading(ctx, userID, updates); err != nil {
		return nil, err
	}
	res.Applied = true
	log.Info().Str("user_id", userID).Int("settled", len(updates)).Msg("slip grading applied")
	return res, nil
}

// extract runs the vision extraction with one verifier repair pass when
// the primary answer fails schema validation.
func (s *Service) extract(ctx context.Context, imageDataURI string) (llm.SlipExtraction, string, error) {
	msgs := llm.ExtractionMessages(imageDataURI)
	c, err := s.router.PrimaryCompletion(ctx, llm.StrategyBalanced, msgs)
	if err != nil {
		return llm.SlipExtraction{}, "", err
	}
	parsed := llm.ParseExtraction(c.Content)
	if parsed.Valid {
		return parsed.Data, c.Provider, nil
	}

	log.Debug().Str("provider", c.Provider).Str("reason", parsed.Reason).Msg("extraction failed validation, trying repair")
	repair, err := s.router.VerifierCompletion(ctx, llm.RepairMessages(&llm.SlipExtraction{}, c.Content, parsed.Reason))
	if err != nil {
		return llm.SlipExtraction{}, "", fmt.Errorf("%w: %s", ErrExtractionFailed, parsed.Reason)
	}
	repaired := llm.ParseExtraction(repair.Content)
	if !repaired.Valid {
		return llm.SlipExtraction{}, "", fmt.Errorf("%w: %s", ErrExtractionFailed, repaired.Reason)
	}
	return repaired.Data, repair.Provider, nil
}
