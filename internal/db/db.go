// Package db stores resume records in PostgreSQL. Sections, job context and
// metrics live in JSONB columns; the schema is managed by goose migrations.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ library.Library = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const resumeColumns = `id, kind, name, created_at, base_resume_id, sections, job_context, metrics`

// Save implements library.Library
func (db *DB) Save(ctx context.Context, rec types.ResumeRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.BaseResumeID != "" {
		var exists bool
		err := db.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resumes WHERE id = $1)`, rec.BaseResumeID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check base resume: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", library.ErrBaseNotFound, rec.BaseResumeID)
		}
	}

	sections, jobContext, metrics, err := encodeJSONColumns(rec)
	if err != nil {
		return err
	}

	var base *string
	if rec.BaseResumeID != "" {
		base = &rec.BaseResumeID
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO resumes (`+resumeColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, string(rec.Kind), rec.Name, rec.CreatedAt, base, sections, jobContext, metrics,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", library.ErrAlreadyExists, rec.ID)
	}
	return nil
}

// Get implements library.Library
func (db *DB) Get(ctx context.Context, id string) (types.ResumeRecord, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
	rec, err := scanResume(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.ResumeRecord{}, fmt.Errorf("%w: %s", library.ErrNotFound, id)
	}
	return rec, err
}

// List implements library.Library
func (db *DB) List(ctx context.Context, filter library.ListFilter) ([]types.ResumeRecord, error) {
	query, args := listQuery(filter)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	out := []types.ResumeRecord{}
	for rows.Next() {
		rec, err := scanResume(rows)
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

// listQuery builds the filtered SELECT with positional arguments
func listQuery(filter library.ListFilter) (string, []any) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE 1=1`
	args := []any{}
	argNum := 1

	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", argNum)
		args = append(args, string(filter.Kind))
		argNum++
	}
	if filter.BaseResumeID != "" {
		query += fmt.Sprintf(" AND base_resume_id = $%d", argNum)
		args = append(args, filter.BaseResumeID)
		argNum++
	}

	query += " ORDER BY created_at DESC, id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}
	return query, args
}

func scanResume(row pgx.Row) (types.ResumeRecord, error) {
	var (
		rec                           types.ResumeRecord
		kind                          string
		base                          *string
		sections, jobContext, metrics []byte
	)
	if err := row.Scan(&rec.ID, &kind, &rec.Name, &rec.CreatedAt, &base, &sections, &jobContext, &metrics); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan resume: %w", err)
	}
	rec.Kind = types.ResumeKind(kind)
	if base != nil {
		rec.BaseResumeID = *base
	}
	if err := decodeJSONColumns(&rec, sections, jobContext, metrics); err != nil {
		return rec, err
	}
	return rec, nil
}

// encodeJSONColumns marshals the JSONB columns; nil optional parts become NULL
func encodeJSONColumns(rec types.ResumeRecord) (sections, jobContext, metrics []byte, err error) {
	list := rec.Sections
	if list == nil {
		list = []types.ResumeSection{}
	}
	if sections, err = json.Marshal(list); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	if rec.JobContext != nil {
		if jobContext, err = json.Marshal(rec.JobContext); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal job context: %w", err)
		}
	}
	if rec.Metrics != nil {
		if metrics, err = json.Marshal(rec.Metrics); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal metrics: %w", err)
		}
	}
	return sections, jobContext, metrics, nil
}

func decodeJSONColumns(rec *types.ResumeRecord, sections, jobContext, metrics []byte) error {
	if err := json.Unmarshal(sections, &rec.Sections); err != nil {
		return fmt.Errorf("failed to unmarshal sections for %s: %w", rec.ID, err)
	}
	if len(jobContext) > 0 {
		rec.JobContext = &types.JobContext{}
		if err := json.Unmarshal(jobContext, rec.JobContext); err != nil {
			return fmt.Errorf("failed to unmarshal job context for %s: %w", rec.ID, err)
		}
	}
	if len(metrics) > 0 {
		rec.Metrics = &types.ResumeMetrics{}
		if err := json.Unmarshal(metrics, rec.Metrics); err != nil {
			return fmt.Errorf("failed to unmarshal metrics for %s: %w", rec.ID, err)
		}
	}
	return nil
}
