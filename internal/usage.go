package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const usageSchema = `
CREATE TABLE IF NOT EXISTS usage (
	id                TEXT PRIMARY KEY,
	session           TEXT NOT NULL,
	model             TEXT NOT NULL,
	prompt_tokens     INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	created_at        TEXT NOT NULL
)`

// UsageRecord is one completed exchange
type UsageRecord struct {
	ID               string
	Session          string // empty for one-off exchanges
	Model            string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
}

// UsageTotal sums the token usage of one session
type UsageTotal struct {
	Session          string
	Exchanges        int
	PromptTokens     int
	CompletionTokens int
	LastUsed         time.Time
}

// Ledger records token usage in a SQLite database
type Ledger struct {
	db  *sql.DB
	now func() time.Time
}

// OpenLedger opens the ledger database at path, creating it if needed
func OpenLedger(path string) (*Ledger, error) {
	db, err := OpenDatabase(path)
	if err != nil {
		return nil, &LedgerError{Op: "open", Err: err}
	}
	ledger, err := NewLedger(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

// NewLedger wraps an open database and makes sure the schema exists
func NewLedger(db *sql.DB) (*Ledger, error) {
	if _, err := db.Exec(usageSchema); err != nil {
		return nil, &LedgerError{Op: "open", Err: fmt.Errorf("failed to create schema: %w", err)}
	}
	return &Ledger{db: db, now: time.Now}, nil
}

// Record stores one exchange and returns its id
func (l *Ledger) Record(ctx context.Context, session, model string, promptTokens, completionTokens int) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", &LedgerError{Op: "record", Err: err}
	}

	_, err = l.db.ExecContext(ctx,
		"INSERT INTO usage (id, session, model, prompt_tokens, completion_tokens, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), session, model, promptTokens, completionTokens, l.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", &LedgerError{Op: "record", Err: err}
	}
	return id.String(), nil
}

// Totals returns usage per session, ordered by session name
func (l *Ledger) Totals(ctx context.Context) ([]UsageTotal, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT session, COUNT(*), SUM(prompt_tokens), SUM(completion_tokens), MAX(created_at)
		FROM usage
		GROUP BY session
		ORDER BY session`)
	if err != nil {
		return nil, &LedgerError{Op: "totals", Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	var totals []UsageTotal
	for rows.Next() {
		var total UsageTotal
		var lastUsed string
		if err := rows.Scan(&total.Session, &total.Exchanges, &total.PromptTokens, &total.CompletionTokens, &lastUsed); err != nil {
			return nil, &LedgerError{Op: "totals", Err: fmt.Errorf("scan failed: %w", err)}
		}
		if t, err := time.Parse(time.RFC3339Nano, lastUsed); err == nil {
			total.LastUsed = t
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, &LedgerError{Op: "totals", Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return totals, nil
}

// Records returns the exchanges of one session, oldest first
func (l *Ledger) Records(ctx context.Context, session string) ([]UsageRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, session, model, prompt_tokens, completion_tokens, created_at
		FROM usage
		WHERE session = ?
		ORDER BY id`, session)
	if err != nil {
		return nil, &LedgerError{Op: "records", Err: fmt.Errorf("query failed: %w", err)}
	}
	defer rows.Close()

	var records []UsageRecord
	for rows.Next() {
		var r UsageRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Session, &r.Model, &r.PromptTokens, &r.CompletionTokens, &createdAt); err != nil {
			return nil, &LedgerError{Op: "records", Err: fmt.Errorf("scan failed: %w", err)}
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			r.CreatedAt = t
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, &LedgerError{Op: "records", Err: fmt.Errorf("rows iteration error: %w", err)}
	}

	return records, nil
}

// Close closes the database
func (l *Ledger) Close() error {
	return l.db.Close()
}
