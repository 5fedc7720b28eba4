package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const backfillColumns = `
	s.id, s.employee_id, s.date, s.time, s.supplement_type, s.reason, s.status,
	s.reviewer_id, s.reviewed_at, s.comments, s.created_at`

type backfillRepository struct {
	db *database.DB
}

func NewBackfillRepository(db *database.DB) backfill.Repository {
	return &backfillRepository{db: db}
}

func scanBackfill(row pgx.Row, extra ...interface{}) (backfill.Request, error) {
	var (
		req          backfill.Request
		at           pgtype.Time
		kind, status string
	)
	dest := []interface{}{
		&req.ID, &req.EmployeeID, &req.Date, &at, &kind, &req.Reason, &status,
		&req.ReviewerID, &req.ReviewedAt, &req.Comments, &req.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return backfill.Request{}, err
	}
	req.Time = attendance.ClockFromMicroseconds(at.Microseconds)
	req.Kind = backfill.Kind(kind)
	req.Status = backfill.Status(status)
	return req, nil
}

// Create implements backfill.Repository.
func (r *backfillRepository) Create(ctx context.Context, req backfill.Request) (backfill.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_supplements (employee_id, date, time, supplement_type, reason, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.Date,
		pgtype.Time{Microseconds: req.Time.Microseconds(), Valid: true},
		string(req.Kind),
		req.Reason,
		string(req.Status),
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "attendance_supplements_pending_key") {
			return backfill.Request{}, backfill.ErrDuplicatePending
		}
		return backfill.Request{}, fmt.Errorf("failed to create backfill request: %w", err)
	}
	return req, nil
}

// GetByID implements backfill.Repository.
func (r *backfillRepository) GetByID(ctx context.Context, id string) (backfill.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + backfillColumns + `, e.full_name, e.department_id::text
		FROM attendance_supplements s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.id = $1
	`
	var name string
	var dept *string
	req, err := scanBackfill(q.QueryRow(ctx, query, id), &name, &dept)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return backfill.Request{}, backfill.ErrRequestNotFound
		}
		return backfill.Request{}, fmt.Errorf("failed to get backfill request: %w", err)
	}
	req.EmployeeName = &name
	req.DepartmentID = dept
	return req, nil
}

// HasPending implements backfill.Repository.
func (r *backfillRepository) HasPending(ctx context.Context, employeeID string, date time.Time, kind backfill.Kind) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance_supplements
			WHERE employee_id = $1 AND date = $2 AND supplement_type = $3 AND status = 'pending'
		)
	`, employeeID, date, string(kind)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending backfill: %w", err)
	}
	return exists, nil
}

// List implements backfill.Repository.
func (r *backfillRepository) List(ctx context.Context, filter backfill.ListFilter) ([]backfill.Request, error) {
	q := GetQuerier(ctx, r.db)

	where := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND s.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND s.status = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}
	if filter.DepartmentIDs != nil {
		where += fmt.Sprintf(" AND e.department_id = ANY($%d::uuid[])", argIdx)
		args = append(args, filter.DepartmentIDs)
	}

	query := `SELECT` + backfillColumns + `, e.full_name, e.department_id::text
		FROM attendance_supplements s
		JOIN employees e ON e.id = s.employee_id
		WHERE ` + where + `
		ORDER BY s.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query backfill requests: %w", err)
	}
	defer rows.Close()

	var requests []backfill.Request
	for rows.Next() {
		var name string
		var dept *string
		req, err := scanBackfill(rows, &name, &dept)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backfill request: %w", err)
		}
		req.EmployeeName = &name
		req.DepartmentID = dept
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// Resolve implements backfill.Repository. The status guard makes concurrent
// reviews of the same request lose cleanly.
func (r *backfillRepository) Resolve(ctx context.Context, req backfill.Request) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE attendance_supplements
		SET status = $2, reviewer_id = $3, reviewed_at = $4, comments = $5
		WHERE id = $1 AND status = 'pending'
	`, req.ID, string(req.Status), req.ReviewerID, req.ReviewedAt, req.Comments)
	if err != nil {
		return fmt.Errorf("failed to resolve backfill request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return backfill.ErrAlreadyProcessed
	}
	return nil
}
