package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var tables = []string{
	"audit_logs",
	"attendance_supplements",
	"attendances",
	"employee_checkin_locations",
	"checkin_locations",
	"leave_requests",
	"business_trips",
	"employees",
	"departments",
}

// newTestDB connects to TEST_DATABASE_URL, applies the schema and empties every
// table. Tests are skipped when no database is configured.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "0001_attendance.sql"))
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err)

	require.NoError(t, truncateAll(ctx, db))
	return db
}

func truncateAll(ctx context.Context, db *database.DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

func createDepartment(t *testing.T, db *database.DB, name string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(),
		`INSERT INTO departments (name) VALUES ($1) RETURNING id::text`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

type employeeRow struct {
	code     string
	dept     *string
	active   bool
	status   string
	hireDate *string
}

func createEmployee(t *testing.T, db *database.DB, e employeeRow) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO employees (employee_code, full_name, department_id, is_active, onboard_status, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6::date)
		RETURNING id::text
	`, e.code, "Employee "+e.code, e.dept, e.active, e.status, e.hireDate).Scan(&id)
	require.NoError(t, err)
	return id
}
