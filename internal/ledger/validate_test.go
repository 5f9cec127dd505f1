package ledger

import (
	"strings"
	"testing"
	"time"
)

func validBet() Bet {
	return Bet{
		Play:   "Lakers -3.5",
		Date:   time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		Units:  2,
		Status: StatusOpen,
		Result: ResultOpen,
	}
}

func TestValidateAcceptsOpenBet(t *testing.T) {
	if err := Validate(validBet()); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateFinalRequiresResult(t *testing.T) {
	b := validBet()
	b.Status = StatusFinal
	b.Result = ResultOpen
	err := Validate(b)
	if err == nil {
		t.Fatal("expected error for FINAL bet with OPEN result")
	}
	if !strings.Contains(err.Error(), "settled result") {
		t.Fatalf("unexpected error message: %v", err)
	}

	b.Result = ResultWin
	if err := Validate(b); err != nil {
		t.Fatalf("FINAL+WIN should be valid, got %v", err)
	}
}

func TestValidateOpenRejectsSettledResult(t *testing.T) {
	b := validBet()
	b.Result = ResultWin
	if Validate(b) == nil {
		t.Fatal("expected error for OPEN bet with WIN result")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	b := validBet()
	b.Play = "  "
	b.Date = time.Time{}
	b.Units = -1
	err := Validate(b)
	if err == nil {
		t.Fatal("expected error")
	}
	var ve *ValidationError
	if !asValidation(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(ve.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", ve.Problems)
	}
}

func TestValidateUnknownEnums(t *testing.T) {
	b := validBet()
	b.Status = Status("SETTLED")
	b.Result = Result("WON")
	err := Validate(b)
	if err == nil {
		t.Fatal("expected error for unknown enums")
	}
}

func asValidation(err error, target **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok {
		*target = ve
	}
	return ok
}
