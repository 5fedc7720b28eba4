package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}

var spanTables = map[leave.Kind]string{
	leave.KindLeave:        "leave_requests",
	leave.KindBusinessTrip: "business_trips",
}

// ApprovedSpansOn implements leave.Repository.
func (r *leaveRepository) ApprovedSpansOn(ctx context.Context, kind leave.Kind, date time.Time) ([]leave.Span, error) {
	table, ok := spanTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown span kind %q", kind)
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT id::text, employee_id::text, start_date, end_date
		FROM %s
		WHERE status = 'approved'
		  AND start_date <= $1
		  AND end_date >= $1
	`, table)

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var spans []leave.Span
	for rows.Next() {
		s := leave.Span{Kind: kind}
		if err := rows.Scan(&s.ID, &s.EmployeeID, &s.StartDate, &s.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		spans = append(spans, s)
	}
	return spans, rows.Err()
}
