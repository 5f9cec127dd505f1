package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
)

const betColumns = `id, user_id, bet_date, capper, sport, league, market, play, selection, line, odds, units, status, result, final_score, notes, book, slip_ref, ai_meta, created_at, updated_at`

type GradingUpdate struct {
	BetID      string
	Status     ledger.Status
	Result     ledger.Result
	FinalScore string
	Meta       *ledger.AIMeta
}

func (s *Store) InsertBet(ctx context.Context, b ledger.Bet) (string, error) {
	id := NewID()
	meta, err := marshalMeta(b.AIMeta)
	if err != nil {
		return "", err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO bets (id, user_id, bet_date, capper, sport, league, market, play, selection, line, odds, units, status, result, final_score, notes, book, slip_ref, ai_meta)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		id, b.UserID, b.Date, b.Capper, b.Sport, b.League, b.Market, b.Play,
		textParam(b.Selection), float8PtrParam(b.Line), b.Odds, b.Units,
		string(b.Status), string(b.Result), textParam(b.FinalScore),
		textParam(b.Notes), textParam(b.Book), textParam(b.SlipRef), meta)
	return id, err
}

func (s *Store) GetBet(ctx context.Context, userID, id string) (*ledger.Bet, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+betColumns+` FROM bets WHERE user_id = $1 AND id = $2`, userID, id)
	b, err := scanBet(row)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (s *Store) ListBets(ctx context.Context, userID string, f BetFilter, limit, offset int) ([]ledger.Bet, error) {
	if limit <= 0 {
		limit = 50
	}
	where, args := betWhere(userID, f)
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM bets WHERE %s ORDER BY bet_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		betColumns, where, len(args)-1, len(args))
	rows, err := s.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ledger.Bet{}
	for rows.Next() {
		b, err := scanBet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (s *Store) CountBets(ctx context.Context, userID string, f BetFilter) (int, error) {
	where, args := betWhere(userID, f)
	var n int
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(1) FROM bets WHERE `+where, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) UpdateBet(ctx context.Context, b ledger.Bet) error {
	meta, err := marshalMeta(b.AIMeta)
	if err != nil {
		return err
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE bets SET bet_date=$3, capper=$4, sport=$5, league=$6, market=$7, play=$8, selection=$9,
			line=$10, odds=$11, units=$12, status=$13, result=$14, final_score=$15, notes=$16,
			book=$17, slip_ref=$18, ai_meta=$19, updated_at=now()
		WHERE user_id = $1 AND id = $2`,
		b.UserID, b.ID, b.Date, b.Capper, b.Sport, b.League, b.Market, b.Play,
		textParam(b.Selection), float8PtrParam(b.Line), b.Odds, b.Units,
		string(b.Status), string(b.Result), textParam(b.FinalScore),
		textParam(b.Notes), textParam(b.Book), textParam(b.SlipRef), meta)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBet(ctx context.Context, userID, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM bets WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyGrading settles a batch of rows in one transaction; either every
// proposal is applied or none is.
func (s *Store) ApplyGrading(ctx context.Context, userID string, updates []GradingUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, u := range updates {
		meta, err := marshalMeta(u.Meta)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE bets SET status=$3, result=$4,
				final_score = COALESCE(NULLIF($5,''), final_score),
				ai_meta = COALESCE($6, ai_meta),
				updated_at = now()
			WHERE user_id = $1 AND id = $2`,
			userID, u.BetID, string(u.Status), string(u.Result), u.FinalScore, meta)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBet(row rowScanner) (*ledger.Bet, error) {
	var (
		b          ledger.Bet
		selection  *string
		line       *float64
		status     string
		result     string
		finalScore *string
		notes      *string
		book       *string
		slipRef    *string
		meta       []byte
	)
	err := row.Scan(&b.ID, &b.UserID, &b.Date, &b.Capper, &b.Sport, &b.League, &b.Market, &b.Play,
		&selection, &line, &b.Odds, &b.Units, &status, &result, &finalScore, &notes, &book, &slipRef,
		&meta, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Selection = deref(selection)
	b.Line = line
	b.Status = ledger.Status(status)
	b.Result = ledger.Result(result)
	b.FinalScore = deref(finalScore)
	b.Notes = deref(notes)
	b.Book = deref(book)
	b.SlipRef = deref(slipRef)
	if len(meta) > 0 {
		var m ledger.AIMeta
		if err := json.Unmarshal(meta, &m); err == nil {
			b.AIMeta = &m
		}
	}
	return &b, nil
}

func betWhere(userID string, f BetFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Result != "" {
		add("result = $%d", f.Result)
	}
	if f.Capper != "" {
		add("capper = $%d", f.Capper)
	}
	if f.Sport != "" {
		add("sport = $%d", f.Sport)
	}
	if f.League != "" {
		add("league = $%d", f.League)
	}
	if f.SlipRef != "" {
		add("slip_ref = $%d", f.SlipRef)
	}
	if f.From != nil {
		add("bet_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("bet_date <= $%d", *f.To)
	}
	return strings.Join(conds, " AND "), args
}

func marshalMeta(m *ledger.AIMeta) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
