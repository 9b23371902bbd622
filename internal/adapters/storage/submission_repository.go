package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/forge-platform/dactl/internal/core/domain"
	"github.com/forge-platform/dactl/internal/core/ports"
	"github.com/google/uuid"
)

// ErrSubmissionNotFound is returned when no submission matches the query.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionRepository implements ports.SubmissionRepository using SQLite.
type SubmissionRepository struct {
	db *DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create persists a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	paramsJSON, err := json.Marshal(sub.Parameters)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	idBytes, _ := sub.ID.MarshalBinary()

	query := `
		INSERT INTO submissions (id, work_item_id, activity_id, script_file, parameters,
		                         status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.conn.ExecContext(ctx, query,
		idBytes,
		sub.WorkItemID,
		sub.ActivityID,
		sub.ScriptFile,
		paramsJSON,
		string(sub.Status),
		sub.CreatedAt.UnixMilli(),
		sub.UpdatedAt.UnixMilli(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// GetByID retrieves a submission by its local id.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	idBytes, _ := id.MarshalBinary()

	query := `
		SELECT id, work_item_id, activity_id, script_file, parameters, status, created_at, updated_at
		FROM submissions WHERE id = ?
	`

	row := r.db.conn.QueryRowContext(ctx, query, idBytes)
	return r.scanSubmission(row)
}

// GetByWorkItemID retrieves the most recent submission for a work item.
func (r *SubmissionRepository) GetByWorkItemID(ctx context.Context, workItemID string) (*domain.Submission, error) {
	query := `
		SELECT id, work_item_id, activity_id, script_file, parameters, status, created_at, updated_at
		FROM submissions WHERE work_item_id = ?
		ORDER BY created_at DESC LIMIT 1
	`

	row := r.db.conn.QueryRowContext(ctx, query, workItemID)
	return r.scanSubmission(row)
}

// Update rewrites an existing submission.
func (r *SubmissionRepository) Update(ctx context.Context, sub *domain.Submission) error {
	paramsJSON, _ := json.Marshal(sub.Parameters)
	idBytes, _ := sub.ID.MarshalBinary()

	query := `
		UPDATE submissions
		SET work_item_id = ?, activity_id = ?, script_file = ?, parameters = ?,
		    status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.conn.ExecContext(ctx, query,
		sub.WorkItemID,
		sub.ActivityID,
		sub.ScriptFile,
		paramsJSON,
		string(sub.Status),
		sub.UpdatedAt.UnixMilli(),
		idBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrSubmissionNotFound
	}
	return nil
}

// List returns submissions newest first, optionally filtered by activity and
// status.
func (r *SubmissionRepository) List(ctx context.Context, filter ports.SubmissionFilter) ([]*domain.Submission, error) {
	query := `
		SELECT id, work_item_id, activity_id, script_file, parameters, status, created_at, updated_at
		FROM submissions WHERE 1=1
	`
	args := []interface{}{}

	if filter.ActivityID != "" {
		query += " AND activity_id = ?"
		args = append(args, filter.ActivityID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Submission
	for rows.Next() {
		sub, err := r.scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanSubmission reads one submission row.
func (r *SubmissionRepository) scanSubmission(row rowScanner) (*domain.Submission, error) {
	var (
		idBytes    []byte
		paramsJSON []byte
		status     string
		createdAt  int64
		updatedAt  int64
	)
	sub := &domain.Submission{}

	err := row.Scan(&idBytes, &sub.WorkItemID, &sub.ActivityID, &sub.ScriptFile,
		&paramsJSON, &status, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}

	if err := sub.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, fmt.Errorf("failed to parse submission id: %w", err)
	}
	if err := json.Unmarshal(paramsJSON, &sub.Parameters); err != nil {
		return nil, fmt.Errorf("failed to parse parameters: %w", err)
	}

	sub.Status = domain.WorkItemStatus(status)
	sub.CreatedAt = time.UnixMilli(createdAt)
	sub.UpdatedAt = time.UnixMilli(updatedAt)
	return sub, nil
}

var _ ports.SubmissionRepository = (*SubmissionRepository)(nil)
