package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/bugbounty-agent/pkg/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS scan_history (
	scan_id         TEXT PRIMARY KEY,
	target          TEXT NOT NULL,
	scanned_at      TIMESTAMPTZ NOT NULL,
	total_findings  INTEGER NOT NULL,
	critical        INTEGER NOT NULL,
	high            INTEGER NOT NULL,
	medium          INTEGER NOT NULL,
	low             INTEGER NOT NULL,
	risk_score      DOUBLE PRECISION NOT NULL,
	action          TEXT NOT NULL,
	exploits        INTEGER NOT NULL,
	report_location TEXT
)`

// Store records one row per scan. It is write-mostly audit data; scans never
// read it back.
type Store struct{ Pool *pgxpool.Pool }

func Open(ctx context.Context, url string) (*Store, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return &Store{Pool: p}, nil
}

func (s *Store) Close() { s.Pool.Close() }

func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, schema)
	return err
}

// Entry is one recorded scan
type Entry struct {
	ScanID         string
	Target         string
	ScannedAt      time.Time
	Summary        engine.RiskSummary
	Action         engine.Action
	Exploits       int
	ReportLocation *string
}

// EntryFromReport extracts the row for a report
func EntryFromReport(r *engine.Report, location string) Entry {
	e := Entry{
		ScanID:    r.ScanID,
		Target:    r.Target,
		ScannedAt: r.Timestamp,
		Summary:   r.Summary,
		Action:    r.Analysis.Decision.Action,
		Exploits:  len(r.Exploits),
	}
	if location != "" {
		e.ReportLocation = &location
	}
	return e
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO scan_history (scan_id, target, scanned_at, total_findings, critical, high, medium, low, risk_score, action, exploits, report_location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (scan_id) DO UPDATE SET report_location = EXCLUDED.report_location
	`, e.ScanID, e.Target, e.ScannedAt, e.Summary.Total, e.Summary.Critical, e.Summary.High,
		e.Summary.Medium, e.Summary.Low, e.Summary.RiskScore, string(e.Action), e.Exploits, e.ReportLocation)
	if err != nil {
		return fmt.Errorf("failed to record scan %s: %w", e.ScanID, err)
	}
	return nil
}

// Recent lists the latest scans, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT scan_id, target, scanned_at, total_findings, critical, high, medium, low, risk_score, action, exploits, report_location
		FROM scan_history
		ORDER BY scanned_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var action string
		if err := rows.Scan(&e.ScanID, &e.Target, &e.ScannedAt, &e.Summary.Total, &e.Summary.Critical,
			&e.Summary.High, &e.Summary.Medium, &e.Summary.Low, &e.Summary.RiskScore, &action,
			&e.Exploits, &e.ReportLocation); err != nil {
			return nil, err
		}
		e.Action = engine.Action(action)
		out = append(out, e)
	}
	return out, rows.Err()
}
