package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/spicewatch/internal/model"
)

// DefaultHistoryLimit bounds RecentSubmissions when no limit is given.
const DefaultHistoryLimit = 20

// RecordSubmission appends an outcome to the journal and sets record.ID.
func (s *SQLiteStorage) RecordSubmission(ctx context.Context, record *model.SubmissionRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSubmission(record); err != nil {
		return err
	}

	var fraudScore sql.NullFloat64
	if record.FraudScore != nil {
		fraudScore = sql.NullFloat64{Float64: *record.FraudScore, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (
			transaction_id, account_id, merchant, amount,
			succeeded, status_code, message, fraud_score, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.TransactionID,
		record.AccountID,
		record.Merchant,
		record.Amount,
		record.Succeeded,
		record.StatusCode,
		record.Message,
		fraudScore,
		record.SubmittedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get submission id: %w", err)
	}
	record.ID = id
	return nil
}

// RecentSubmissions returns up to limit journal entries, newest first.
func (s *SQLiteStorage) RecentSubmissions(ctx context.Context, limit int) ([]model.SubmissionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_id, account_id, merchant, amount,
		       succeeded, status_code, message, fraud_score, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.SubmissionRecord
	for rows.Next() {
		var record model.SubmissionRecord
		var fraudScore sql.NullFloat64
		if err := rows.Scan(
			&record.ID,
			&record.TransactionID,
			&record.AccountID,
			&record.Merchant,
			&record.Amount,
			&record.Succeeded,
			&record.StatusCode,
			&record.Message,
			&fraudScore,
			&record.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		if fraudScore.Valid {
			score := fraudScore.Float64
			record.FraudScore = &score
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return records, nil
}

// SubmissionCount returns the number of journaled submissions.
func (s *SQLiteStorage) SubmissionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return count, nil
}
