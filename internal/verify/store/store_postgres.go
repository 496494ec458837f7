package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"veridoc/internal/verify"
	"veridoc/pkg/platform/sentinel"
)

// Schema creates the reports table. Applied at startup; idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS verification_reports (
	id                 UUID PRIMARY KEY,
	document_type      TEXT NOT NULL DEFAULT '',
	report             JSONB NOT NULL,
	overall_confidence DOUBLE PRECISION NOT NULL,
	total_fields       INTEGER NOT NULL,
	matched_fields     INTEGER NOT NULL,
	created_at         TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS verification_reports_created_at_idx
	ON verification_reports (created_at);
`

// PostgresStore persists reports in PostgreSQL. The full report is stored
// as JSONB; the scalar columns exist for querying and retention jobs.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed report store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema applies the reports schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure reports schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, report verify.Report) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO verification_reports
			(id, document_type, report, overall_confidence, total_fields, matched_fields, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		report.ID, report.DocumentType, raw,
		report.OverallConfidence, report.TotalFields, report.MatchedFields, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (verify.Report, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM verification_reports WHERE id = $1`, id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return verify.Report{}, sentinel.ErrNotFound
	}
	if err != nil {
		return verify.Report{}, fmt.Errorf("find report by id: %w", err)
	}

	var report verify.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return verify.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}
