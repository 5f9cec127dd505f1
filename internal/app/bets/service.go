package bets

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/store"
)

// statsScanLimit bounds how many rows an aggregate or export will walk.
const statsScanLimit = 10000

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) Create(ctx context.Context, userID string, in BetInput) (*BetView, error) {
	b := in.toBet(userID)
	if err := ledger.Validate(b); err != nil {
		return nil, err
	}
	id, err := s.store.InsertBet(ctx, b)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*BetView, error) {
	b, err := s.store.GetBet(ctx, userID, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	v := viewOf(*b)
	return &v, nil
}

func (s *Service) List(ctx context.Context, userID string, f store.BetFilter, limit, offset int) (*ListResponse, error) {
	total, err := s.store.CountBets(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListBets(ctx, userID, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]BetView, 0, len(rows))
	for _, b := range rows {
		items = append(items, viewOf(b))
	}
	return &ListResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Update replaces every writable field of the row; it is not a patch.
func (s *Service) Update(ctx context.Context, userID, id string, in BetInput) (*BetView, error) {
	if _, err := s.store.GetBet(ctx, userID, id); err != nil {
		return nil, mapStoreErr(err)
	}
	b := in.toBet(userID)
	b.ID = id
	if err := ledger.Validate(b); err != nil {
		return nil, err
	}
	if err := s.store.UpdateBet(ctx, b); err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBet(ctx, userID, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context, userID string, f store.BetFilter) (*StatsResponse, error) {
	rows, err := s.store.ListBets(ctx, userID, f, statsScanLimit, 0)
	if err != nil {
		return nil, err
	}
	return &StatsResponse{
		Totals:   ledger.Summarize(rows),
		ByCapper: ledger.ByCapper(rows),
		ByLeague: ledger.ByLeague(rows),
		ByMonth:  ledger.ByMonth(rows),
	}, nil
}

var csvHeader = []string{
	"id", "date", "capper", "sport", "league", "market", "play", "selection",
	"line", "odds", "units", "status", "result", "net_units", "final_score",
	"notes", "book", "slip_ref",
}

// ExportCSV streams the filtered ledger as CSV, newest first, with net
// units computed per row.
func (s *Service) ExportCSV(ctx context.Context, userID string, f store.BetFilter, w io.Writer) error {
	rows, err := s.store.ListBets(ctx, userID, f, statsScanLimit, 0)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range rows {
		if err := cw.Write(csvRecord(b)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(b ledger.Bet) []string {
	line := ""
	if b.Line != nil {
		line = strconv.FormatFloat(*b.Line, 'f', -1, 64)
	}
	return []string{
		b.ID,
		b.Date.Format(time.DateOnly),
		b.Capper,
		b.Sport,
		b.League,
		b.Market,
		b.Play,
		b.Selection,
		line,
		strconv.Itoa(b.Odds),
		strconv.FormatFloat(b.Units, 'f', -1, 64),
		string(b.Status),
		string(b.Result),
		fmt.Sprintf("%.3f", ledger.NetUnits(b)),
		b.FinalScore,
		b.Notes,
		b.Book,
		b.SlipRef,
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrBetNotFound
	}
	return err
}
