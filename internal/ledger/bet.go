package ledger

import "time"

type Status string

const (
	StatusOpen  Status = "OPEN"
	StatusFinal Status = "FINAL"
)

type Result string

const (
	ResultOpen    Result = "OPEN"
	ResultWin     Result = "WIN"
	ResultLoss    Result = "LOSS"
	ResultPush    Result = "PUSH"
	ResultVoid    Result = "VOID"
	ResultCashout Result = "CASHOUT"
)

// AIMeta records extraction and grading provenance for rows that were
// created or settled from a slip image.
type AIMeta struct {
	Provider   string  `json:"provider,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	GroupID    string  `json:"group_id,omitempty"`
	LegIndex   int     `json:"leg_index,omitempty"`
	TotalLegs  int     `json:"total_legs,omitempty"`
	GradedBy   string  `json:"graded_by,omitempty"`
	GradedAt   string  `json:"graded_at,omitempty"`
}

// Bet is a single ledger row. Net unit return is never stored; it is
// recomputed from odds, units, status and result on every read.
type Bet struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	Date       time.Time  `json:"date"`
	Capper     string     `json:"capper"`
	Sport      string     `json:"sport"`
	League     string     `json:"league"`
	Market     string     `json:"market"`
	Play       string     `json:"play"`
	Selection  string     `json:"selection,omitempty"`
	Line       *float64   `json:"line,omitempty"`
	Odds       int        `json:"odds,omitempty"`
	Units      float64    `json:"units,omitempty"`
	Status     Status     `json:"status"`
	Result     Result     `json:"result"`
	FinalScore string     `json:"final_score,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Book       string     `json:"book,omitempty"`
	SlipRef    string     `json:"slip_ref,omitempty"`
	AIMeta     *AIMeta    `json:"ai_meta,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func ValidStatus(s Status) bool {
	return s == StatusOpen || s == StatusFinal
}

func ValidResult(r Result) bool {
	switch r {
	case ResultOpen, ResultWin, ResultLoss, ResultPush, ResultVoid, ResultCashout:
		return true
	}
	return false
}
