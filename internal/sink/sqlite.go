// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/company-research/pkg/types"
)

// SQLiteSink keeps a local history of finished reports. The full report is
// stored as JSON next to a few queryable columns.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens or creates the report database at path, creating the
// schema and parent directory if needed.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if path == "" {
		return nil, unavailable("report database path not configured", nil)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating report database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening report database: %w", err)
	}

	s := &SQLiteSink{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating report schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) Name() string { return "sqlite" }

func (s *SQLiteSink) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		organization TEXT NOT NULL,
		website TEXT,
		directory TEXT,
		summary TEXT,
		report TEXT NOT NULL,
		generated_at TEXT NOT NULL
	)`)
	return err
}

// Export inserts the report and returns the new row ID.
func (s *SQLiteSink) Export(ctx context.Context, report types.ResearchReport) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", unavailable("encoding report", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (organization, website, directory, summary, report, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		report.OrganizationName, report.Website, report.Directory,
		report.Summary, string(data), report.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", unavailable("inserting report", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", unavailable("reading report row id", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Latest returns the most recently stored report for an organization.
func (s *SQLiteSink) Latest(ctx context.Context, organization string) (types.ResearchReport, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT report FROM reports WHERE organization = ? ORDER BY id DESC LIMIT 1`,
		organization).Scan(&data)
	if err == sql.ErrNoRows {
		return types.ResearchReport{}, fmt.Errorf("no stored report for %q", organization)
	}
	if err != nil {
		return types.ResearchReport{}, fmt.Errorf("loading report: %w", err)
	}

	var report types.ResearchReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return types.ResearchReport{}, fmt.Errorf("decoding stored report: %w", err)
	}
	return report, nil
}
