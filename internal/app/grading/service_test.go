package grading

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/r88510179-collab/breakfast-klub/internal/ledger"
	"github.com/r88510179-collab/breakfast-klub/internal/llm"
	"github.com/r88510179-collab/breakfast-klub/internal/testutil"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func routerWith(primary, verifier *httptest.Server) *llm.Router {
	var p, v []llm.Provider
	if primary != nil {
		p = []llm.Provider{{Name: "openai", BaseURL: primary.URL, APIKey: "k", Model: "m"}}
	}
	if verifier != nil {
		v = []llm.Provider{{Name: "groq", BaseURL: verifier.URL, APIKey: "k", Model: "m"}}
	}
	return llm.New(p, v, 5*time.Second)
}

const slipJSON = `{
	"ticket": {"ticket_status": "FINAL", "ticket_result": "WIN", "book": "DraftKings"},
	"legs": [
		{"play": "Lakers ML vs Nuggets", "result": "WIN", "score": "112-104", "odds": -110, "units": 2},
		{"play": "Celtics -4.5", "result": "OPEN"}
	]
}`

func TestScanBuildsDrafts(t *testing.T) {
	srv := chatServer(t, slipJSON)
	defer srv.Close()

	svc := NewService(nil, routerWith(srv, nil))
	res, err := svc.Scan(context.Background(), "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Provider != "openai" {
		t.Fatalf("provider = %q", res.Provider)
	}
	if len(res.Drafts) != 2 {
		t.Fatalf("drafts = %d, want 2", len(res.Drafts))
	}
	if res.GroupID == "" {
		t.Fatal("missing group id")
	}
	first := res.Drafts[0]
	if first.Status != "FINAL" || first.Result != "WIN" || first.FinalScore != "112-104" {
		t.Fatalf("settled draft = %+v", first)
	}
	second := res.Drafts[1]
	if second.Status != "OPEN" || second.Result != "OPEN" {
		t.Fatalf("open draft = %+v", second)
	}
	for i, d := range res.Drafts {
		if d.AIMeta == nil || d.AIMeta.GroupID != res.GroupID {
			t.Fatalf("draft %d missing group provenance: %+v", i, d.AIMeta)
		}
		if d.AIMeta.LegIndex != i || d.AIMeta.TotalLegs != 2 {
			t.Fatalf("draft %d parlay meta = %+v", i, d.AIMeta)
		}
		if d.Book != "DraftKings" {
			t.Fatalf("draft %d book = %q", i, d.Book)
		}
	}
}

func TestScanRepairPath(t *testing.T) {
	bad := chatServer(t, "sorry, I cannot read this image")
	defer bad.Close()
	good := chatServer(t, slipJSON)
	defer good.Close()

	svc := NewService(nil, routerWith(bad, good))
	res, err := svc.Scan(context.Background(), "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if res.Provider != "groq" {
		t.Fatalf("provider = %q, want the verifier that repaired it", res.Provider)
	}
}

func TestScanExtractionFailed(t *testing.T) {
	bad := chatServer(t, "still not json")
	defer bad.Close()
	alsoBad := chatServer(t, "nope")
	defer alsoBad.Close()

	svc := NewService(nil, routerWith(bad, alsoBad))
	_, err := svc.Scan(context.Background(), "data:image/png;base64,AAAA")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestGradeCommitSettlesMatchedRow(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.CreateUser(ctx, "grader", "bk_live_grading")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	betID, err := st.InsertBet(ctx, ledger.Bet{
		UserID: userID,
		Date:   time.Now(),
		Play:   "Lakers ML vs Nuggets",
		Odds:   -110,
		Units:  2,
		Status: ledger.StatusOpen,
		Result: ledger.ResultOpen,
	})
	if err != nil {
		t.Fatalf("insert bet: %v", err)
	}

	srv := chatServer(t, slipJSON)
	defer srv.Close()
	svc := NewService(st, routerWith(srv, nil))

	res, err := svc.Grade(ctx, userID, "data:image/png;base64,AAAA", true)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if !res.Applied {
		t.Fatalf("not applied: %+v", res)
	}
	if len(res.Proposals) != 1 || res.Proposals[0].BetID != betID {
		t.Fatalf("proposals = %+v", res.Proposals)
	}

	got, err := st.GetBet(ctx, userID, betID)
	if err != nil {
		t.Fatalf("reload bet: %v", err)
	}
	if got.Status != ledger.StatusFinal || got.Result != ledger.ResultWin {
		t.Fatalf("row = %s/%s, want FINAL/WIN", got.Status, got.Result)
	}
	if got.FinalScore != "112-104" {
		t.Fatalf("final score = %q", got.FinalScore)
	}
	if got.AIMeta == nil || got.AIMeta.GradedBy != "ai" || got.AIMeta.Provider != "openai" {
		t.Fatalf("grading provenance = %+v", got.AIMeta)
	}
}

func TestGradePreviewWritesNothing(t *testing.T) {
	st, cleanup := testutil.OpenTestStore(t)
	defer cleanup()
	ctx := context.Background()

	userID, err := st.CreateUser(ctx, "previewer", "bk_live_preview")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	betID, err := st.InsertBet(ctx, ledger.Bet{
		UserID: userID,
		Date:   time.Now(),
		Play:   "Lakers ML vs Nuggets",
		Status: ledger.StatusOpen,
		Result: ledger.ResultOpen,
	})
	if err != nil {
		t.Fatalf("insert bet: %v", err)
	}

	srv := chatServer(t, slipJSON)
	defer srv.Close()
	svc := NewService(st, routerWith(srv, nil))

	res, err := svc.Grade(ctx, userID, "data:image/png;base64,AAAA", false)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Applied || len(res.Proposals) != 1 {
		t.Fatalf("preview result = %+v", res)
	}
	got, err := st.GetBet(ctx, userID, betID)
	if err != nil {
		t.Fatalf("reload bet: %v", err)
	}
	if got.Status != ledger.StatusOpen {
		t.Fatalf("preview must not write, row is %s", got.Status)
	}
}
