package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// registers the "sqlite" database/sql driver
	_ "modernc.org/sqlite"

	"github.com/jonathan/resume-variants/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS resumes (
    id             TEXT PRIMARY KEY,
    kind           TEXT NOT NULL,
    name           TEXT NOT NULL,
    created_at     TEXT NOT NULL,
    base_resume_id TEXT,
    sections       TEXT NOT NULL,
    job_context    TEXT,
    metrics        TEXT
);
CREATE INDEX IF NOT EXISTS idx_resumes_base ON resumes(base_resume_id);
CREATE INDEX IF NOT EXISTS idx_resumes_created ON resumes(created_at);`

const selectColumns = `id, kind, name, created_at, base_resume_id, sections, job_context, metrics`

// timeLayout is fixed-width UTC so created_at sorts correctly as text
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQL stores records through database/sql using ?-style placeholders
type SQL struct {
	DB *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite library file at path
func OpenSQLite(ctx context.Context, path string) (*SQL, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create library directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite library: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	lib := &SQL{DB: db}
	if err := lib.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return lib, nil
}

// EnsureSchema creates the resumes table if it is missing
func (s *SQL) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database
func (s *SQL) Close() error {
	return s.DB.Close()
}

// Save implements Library
func (s *SQL) Save(ctx context.Context, rec types.ResumeRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.BaseResumeID != "" {
		var n int
		err := s.DB.QueryRowContext(ctx, `SELECT COUNT(1) FROM resumes WHERE id = ?`, rec.BaseResumeID).Scan(&n)
		if err != nil {
			return fmt.Errorf("failed to check base resume: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrBaseNotFound, rec.BaseResumeID)
		}
	}

	sections, jobContext, metrics, err := encodeColumns(rec)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO resumes (`+selectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rec.ID, string(rec.Kind), rec.Name, rec.CreatedAt.UTC().Format(timeLayout),
		nullString(rec.BaseResumeID), sections, jobContext, metrics,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, rec.ID)
	}
	return nil
}

// Get implements Library
func (s *SQL) Get(ctx context.Context, id string) (types.ResumeRecord, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM resumes WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ResumeRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// List implements Library
func (s *SQL) List(ctx context.Context, filter ListFilter) ([]types.ResumeRecord, error) {
	var (
		where []string
		args  []any
	)
	if filter.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.BaseResumeID != "" {
		where = append(where, "base_resume_id = ?")
		args = append(args, filter.BaseResumeID)
	}

	query := `SELECT ` + selectColumns + ` FROM resumes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	out := []types.ResumeRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.ResumeRecord, error) {
	var (
		rec                 types.ResumeRecord
		kind, createdAt     string
		base                sql.NullString
		sections            string
		jobContext, metrics sql.NullString
	)
	if err := row.Scan(&rec.ID, &kind, &rec.Name, &createdAt, &base, &sections, &jobContext, &metrics); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan resume: %w", err)
	}

	rec.Kind = types.ResumeKind(kind)
	rec.BaseResumeID = base.String

	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return rec, fmt.Errorf("failed to parse created_at for %s: %w", rec.ID, err)
	}
	rec.CreatedAt = t

	if err := json.Unmarshal([]byte(sections), &rec.Sections); err != nil {
		return rec, fmt.Errorf("failed to decode sections for %s: %w", rec.ID, err)
	}
	if jobContext.Valid {
		rec.JobContext = &types.JobContext{}
		if err := json.Unmarshal([]byte(jobContext.String), rec.JobContext); err != nil {
			return rec, fmt.Errorf("failed to decode job context for %s: %w", rec.ID, err)
		}
	}
	if metrics.Valid {
		rec.Metrics = &types.ResumeMetrics{}
		if err := json.Unmarshal([]byte(metrics.String), rec.Metrics); err != nil {
			return rec, fmt.Errorf("failed to decode metrics for %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

// encodeColumns renders the JSON columns; absent optional parts become NULL
func encodeColumns(rec types.ResumeRecord) (sections string, jobContext, metrics sql.NullString, err error) {
	sectionList := rec.Sections
	if sectionList == nil {
		sectionList = []types.ResumeSection{}
	}
	raw, err := json.Marshal(sectionList)
	if err != nil {
		return "", jobContext, metrics, fmt.Errorf("failed to encode sections: %w", err)
	}
	sections = string(raw)

	if rec.JobContext != nil {
		raw, err := json.Marshal(rec.JobContext)
		if err != nil {
			return "", jobContext, metrics, fmt.Errorf("failed to encode job context: %w", err)
		}
		jobContext = sql.NullString{String: string(raw), Valid: true}
	}
	if rec.Metrics != nil {
		raw, err := json.Marshal(rec.Metrics)
		if err != nil {
			return "", jobContext, metrics, fmt.Errorf("failed to encode metrics: %w", err)
		}
		metrics = sql.NullString{String: string(raw), Valid: true}
	}
	return sections, jobContext, metrics, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
