package internal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/doms3/chatty/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := NewLedger(testutil.CreateInMemoryDB(t))
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	return ledger
}

func TestLedger_Record(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	id, err := ledger.Record(ctx, "work", "gpt-3.5-turbo", 5, 2)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("Record() id %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("Record() id version = %d, want 7", parsed.Version())
	}
	if n := testutil.CountRows(t, ledger.db, "usage"); n != 1 {
		t.Errorf("usage rows = %d, want 1", n)
	}
}

func TestLedger_Totals(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	ledger.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	records := []struct {
		session          string
		prompt, complete int
	}{
		{"work", 5, 2},
		{"", 10, 3},
		{"work", 7, 4},
		{"alpha", 1, 1},
	}
	for _, r := range records {
		if _, err := ledger.Record(ctx, r.session, "gpt-3.5-turbo", r.prompt, r.complete); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	totals, err := ledger.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	want := []UsageTotal{
		{Session: "", Exchanges: 1, PromptTokens: 10, CompletionTokens: 3, LastUsed: base.Add(2 * time.Minute)},
		{Session: "alpha", Exchanges: 1, PromptTokens: 1, CompletionTokens: 1, LastUsed: base.Add(4 * time.Minute)},
		{Session: "work", Exchanges: 2, PromptTokens: 12, CompletionTokens: 6, LastUsed: base.Add(3 * time.Minute)},
	}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("Totals() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Records(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, err := ledger.Record(ctx, "work", "gpt-3.5-turbo-16k", i, i*10); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if _, err := ledger.Record(ctx, "other", "gpt-3.5-turbo", 1, 1); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	records, err := ledger.Records(ctx, "work")
	if err != nil {
		t.Fatalf("Records() error = %v", err)
	}
	want := []UsageRecord{
		{Session: "work", Model: "gpt-3.5-turbo-16k", PromptTokens: 1, CompletionTokens: 10},
		{Session: "work", Model: "gpt-3.5-turbo-16k", PromptTokens: 2, CompletionTokens: 20},
		{Session: "work", Model: "gpt-3.5-turbo-16k", PromptTokens: 3, CompletionTokens: 30},
	}
	if diff := cmp.Diff(want, records, cmpopts.IgnoreFields(UsageRecord{}, "ID", "CreatedAt")); diff != "" {
		t.Errorf("Records() mismatch (-want +got):\n%s", diff)
	}
}

func TestLedger_Empty(t *testing.T) {
	ledger := newTestLedger(t)
	totals, err := ledger.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("Totals() = %v, want empty", totals)
	}
}

func TestOpenLedger_File(t *testing.T) {
	dbPath := filepath.Join(testutil.CreateTempDir(t), "usage.db")

	ledger, err := OpenLedger(dbPath)
	if err != nil {
		t.Fatalf("OpenLedger() error = %v", err)
	}
	if _, err := ledger.Record(context.Background(), "work", "gpt-3.5-turbo", 1, 2); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	ledger.Close()

	ledger, err = OpenLedger(dbPath)
	if err != nil {
		t.Fatalf("reopen OpenLedger() error = %v", err)
	}
	defer ledger.Close()
	totals, err := ledger.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if len(totals) != 1 || totals[0].CompletionTokens != 2 {
		t.Errorf("Totals() after reopen = %+v", totals)
	}
}

func TestOpenLedger_Error(t *testing.T) {
	_, err := OpenLedger(filepath.Join(testutil.CreateTempDir(t), "missing", "usage.db"))
	var ledgerErr *LedgerError
	if !errors.As(err, &ledgerErr) || ledgerErr.Op != "open" {
		t.Errorf("OpenLedger() error = %v, want an open LedgerError", err)
	}
}

func TestLedger_ClosedDatabase(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	ledger, err := NewLedger(db)
	if err != nil {
		t.Fatalf("NewLedger() error = %v", err)
	}
	db.Close()

	_, err = ledger.Record(context.Background(), "work", "gpt-3.5-turbo", 1, 1)
	var ledgerErr *LedgerError
	if !errors.As(err, &ledgerErr) || ledgerErr.Op != "record" {
		t.Errorf("Record() error = %v, want a record LedgerError", err)
	}
	if ExitStatus(err) != 1 {
		t.Errorf("ledger errors should exit 1, got %d", ExitStatus(err))
	}
}
