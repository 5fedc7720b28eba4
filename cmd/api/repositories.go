package main

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-core/internal/config"
	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/audit"
	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-core/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-core/internal/repository/postgresql"
)

type repositories struct {
	tx         database.Transactor
	attendance attendance.Repository
	employees  employee.Repository
	locations  location.Repository
	backfills  backfill.Repository
	leaves     leave.Repository
	audit      audit.Repository

	// memory is set for DB_DRIVER=memory so development data can be seeded.
	memory *memory.Store
	close  func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &repositories{
			tx:         store.Transactor(),
			attendance: store.Attendance(),
			employees:  store.Employees(),
			locations:  store.Locations(),
			backfills:  store.Backfills(),
			leaves:     store.Leaves(),
			audit:      store.Audit(),
			memory:     store,
			close:      func() {},
		}, nil

	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return &repositories{
			tx:         postgresql.NewTransactor(db),
			attendance: postgresql.NewAttendanceRepository(db),
			employees:  postgresql.NewEmployeeRepository(db),
			locations:  postgresql.NewLocationRepository(db),
			backfills:  postgresql.NewBackfillRepository(db),
			leaves:     postgresql.NewLeaveRepository(db),
			audit:      postgresql.NewAuditRepository(db),
			close:      db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.Database.Driver)
	}
}
