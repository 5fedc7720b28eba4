package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/config"
	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"github.com/cmlabs-hris/attendance-core/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/attendance-core/internal/handler/http"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/holiday"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/jwt"
	absenceService "github.com/cmlabs-hris/attendance-core/internal/service/absence"
	attendanceService "github.com/cmlabs-hris/attendance-core/internal/service/attendance"
	auditService "github.com/cmlabs-hris/attendance-core/internal/service/audit"
	backfillService "github.com/cmlabs-hris/attendance-core/internal/service/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/service/geofence"
	locationService "github.com/cmlabs-hris/attendance-core/internal/service/location"
	workdayService "github.com/cmlabs-hris/attendance-core/internal/service/workday"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	loc := cfg.Location()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	if repos.memory != nil && cfg.App.Env == "development" {
		today := attendance.DateOf(time.Now().In(loc))
		ids, err := fixtures.SeedDevelopment(ctx, repos.memory, today)
		if err != nil {
			return fmt.Errorf("seed development data: %w", err)
		}
		logDevelopmentTokens(JWTService, ids)
	}

	policy, err := attendancePolicy(cfg.Attendance)
	if err != nil {
		return err
	}

	// Workday oracle
	var calendar workday.Calendar
	if cfg.Holiday.Enabled {
		calendar = holiday.NewClient(cfg.Holiday.BaseURL, cfg.Holiday.Timeout)
	}
	overrides, err := holiday.LoadOverrides(cfg.Holiday.OverridesFile)
	if err != nil {
		return err
	}
	oracle := workdayService.NewOracle(calendar, overrides, nil)
	slog.Info("Workday oracle ready", "calendar", cfg.Holiday.Enabled, "overrides", overrides.Len())

	auditLogger := auditService.NewLogger(repos.audit, auditService.Config{})
	defer auditLogger.Close()

	attendanceSvc := attendanceService.NewAttendanceService(
		repos.attendance,
		repos.employees,
		geofence.NewResolver(repos.locations),
		oracle,
		auditLogger,
		attendanceService.Options{Policy: policy, Location: loc},
	)
	backfillSvc := backfillService.NewBackfillService(
		repos.tx,
		repos.backfills,
		repos.attendance,
		oracle,
		auditLogger,
		policy,
		loc,
		nil,
	)
	locationSvc := locationService.NewLocationService(repos.tx, repos.locations, repos.employees, auditLogger)
	absenceSvc := absenceService.NewAbsenceService(
		repos.attendance,
		repos.employees,
		repos.leaves,
		oracle,
		auditLogger,
		policy,
		loc,
		nil,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(absenceSvc, oracle, loc, nil).RegisterJobs(scheduler)
	if cfg.Scheduler.Enabled {
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		JWTService,
		appHTTP.RouterOptions{
			AllowedOrigins: cfg.App.AllowedOrigins,
			Env:            cfg.App.Env,
			Version:        version,
			LogLevel:       cfg.SlogLevel(),
		},
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewBackfillHandler(backfillSvc),
		appHTTP.NewLocationHandler(locationSvc),
		appHTTP.NewWorkdayHandler(oracle, loc, nil),
		appHTTP.NewAdminHandler(absenceSvc, scheduler),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func attendancePolicy(cfg config.AttendanceConfig) (attendance.Policy, error) {
	late, err := attendance.ParseClock(cfg.LateCutoff)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_LATE_CUTOFF: %w", err)
	}
	early, err := attendance.ParseClock(cfg.EarlyLeaveCutoff)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_EARLY_LEAVE_CUTOFF: %w", err)
	}
	return attendance.Policy{LateCutoff: late, EarlyLeaveCutoff: early}, nil
}

// logDevelopmentTokens prints ready-made bearer tokens for the seeded accounts.
func logDevelopmentTokens(tokens jwt.Service, ids *fixtures.SeededDataIDs) {
	accounts := []struct {
		label  string
		claims jwt.AccessClaims
	}{
		{"admin", jwt.AccessClaims{UserID: "dev-admin", IsAdmin: true}},
		{"manager", jwt.AccessClaims{UserID: "dev-manager", ManagedDepartmentIDs: []string{fixtures.DepartmentEngineering}}},
		{"employee", jwt.AccessClaims{UserID: "dev-employee", EmployeeID: ids.EmployeeIDs["E0001"]}},
	}
	for _, a := range accounts {
		token, _, err := tokens.GenerateAccessToken(a.claims)
		if err != nil {
			slog.Warn("Failed to mint development token", "account", a.label, "error", err)
			continue
		}
		slog.Info("Development token", "account", a.label, "token", token)
	}
}
