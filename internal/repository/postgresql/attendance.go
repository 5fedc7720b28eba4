package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
	a.attendance_type, a.notes, a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func clockParam(c *attendance.Clock) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return pgtype.Time{Microseconds: c.Microseconds(), Valid: true}
}

func clockValue(t pgtype.Time) *attendance.Clock {
	if !t.Valid {
		return nil
	}
	c := attendance.ClockFromMicroseconds(t.Microseconds)
	return &c
}

// scanRecord scans attendanceColumns plus any extra destinations.
func scanRecord(row pgx.Row, extra ...interface{}) (attendance.Record, error) {
	var (
		rec      attendance.Record
		checkIn  pgtype.Time
		checkOut pgtype.Time
		status   string
	)
	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.Date, &checkIn, &checkOut,
		&status, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return attendance.Record{}, err
	}
	rec.CheckIn = clockValue(checkIn)
	rec.CheckOut = clockValue(checkOut)
	rec.Status = attendance.Status(status)
	return rec, nil
}

// Create implements attendance.Repository.
func (r *attendanceRepository) Create(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, check_in_time, check_out_time, attendance_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		clockParam(rec.CheckIn),
		clockParam(rec.CheckOut),
		string(rec.Status),
		rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "attendances_employee_date_key") {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return rec, nil
}

// FindOrCreate implements attendance.Repository.
func (r *attendanceRepository) FindOrCreate(ctx context.Context, rec attendance.Record) (attendance.Record, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, check_in_time, check_out_time, attendance_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT attendances_employee_date_key DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rec.EmployeeID,
		rec.Date,
		clockParam(rec.CheckIn),
		clockParam(rec.CheckOut),
		string(rec.Status),
		rec.Notes,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err == nil {
		return rec, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, false, fmt.Errorf("failed to insert attendance: %w", err)
	}

	existing, err := r.GetByEmployeeAndDate(ctx, rec.EmployeeID, rec.Date)
	if err != nil {
		return attendance.Record{}, false, err
	}
	if existing == nil {
		return attendance.Record{}, false, fmt.Errorf("attendance for %s on %s vanished after conflict", rec.EmployeeID, rec.Date.Format("2006-01-02"))
	}
	return *existing, false, nil
}

// GetByEmployeeAndDate implements attendance.Repository.
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date = $2
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// Update implements attendance.Repository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_in_time = $2,
			check_out_time = $3,
			attendance_type = $4,
			notes = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		rec.ID,
		clockParam(rec.CheckIn),
		clockParam(rec.CheckOut),
		string(rec.Status),
		rec.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByEmployee implements attendance.Repository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// List implements attendance.Repository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentIDs != nil {
		baseWhere += fmt.Sprintf(" AND e.department_id = ANY($%d::uuid[])", argIdx)
		args = append(args, filter.DepartmentIDs)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND a.attendance_type = $%d", argIdx)
		args = append(args, string(*filter.Status))
		argIdx++
	}

	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s, e.full_name, e.employee_code, e.department_id::text
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	records, err := r.queryWithEmployee(ctx, q, selectQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListAlerts implements attendance.Repository.
func (r *attendanceRepository) ListAlerts(ctx context.Context, filter attendance.AlertFilter) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, len(filter.Statuses))
	for i, s := range filter.Statuses {
		statuses[i] = string(s)
	}

	where := "a.date BETWEEN $1 AND $2 AND a.attendance_type = ANY($3) AND e.onboard_status = 'onboarded'"
	args := []interface{}{filter.Since, filter.Until, statuses}
	argIdx := 4

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DepartmentIDs != nil {
		where += fmt.Sprintf(" AND e.department_id = ANY($%d::uuid[])", argIdx)
		args = append(args, filter.DepartmentIDs)
		argIdx++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = attendance.MaxAlerts
	}

	query := fmt.Sprintf(`
		SELECT %s, e.full_name, e.employee_code, e.department_id::text
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, a.created_at DESC
		LIMIT $%d
	`, attendanceColumns, where, argIdx)
	args = append(args, limit)

	return r.queryWithEmployee(ctx, q, query, args...)
}

func (r *attendanceRepository) queryWithEmployee(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]attendance.Record, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var name, code string
		var dept *string
		rec, err := scanRecord(rows, &name, &code, &dept)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.EmployeeName = &name
		rec.EmployeeCode = &code
		rec.DepartmentID = dept
		records = append(records, rec)
	}
	return records, rows.Err()
}

// EmployeeIDsWithRecordOn implements attendance.Repository.
func (r *attendanceRepository) EmployeeIDsWithRecordOn(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id::text FROM attendances WHERE date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance employees: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance employees: %w", err)
	}
	return ids, nil
}
