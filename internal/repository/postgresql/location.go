package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const locationColumns = `
	l.id, l.name, l.address, l.latitude, l.longitude, l.radius_meters,
	l.is_active, l.is_default, l.created_at, l.updated_at`

// singleDefaultIndex is the partial unique index allowing one default location.
const singleDefaultIndex = "checkin_locations_single_default"

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.Repository {
	return &locationRepository{db: db}
}

func scanLocation(row pgx.Row) (location.CheckInLocation, error) {
	var l location.CheckInLocation
	err := row.Scan(
		&l.ID, &l.Name, &l.Address, &l.Latitude, &l.Longitude, &l.RadiusMeters,
		&l.IsActive, &l.IsDefault, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *locationRepository) queryLocations(ctx context.Context, query string, args ...interface{}) ([]location.CheckInLocation, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query check-in locations: %w", err)
	}
	defer rows.Close()

	var locations []location.CheckInLocation
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// Create implements location.Repository.
func (r *locationRepository) Create(ctx context.Context, l location.CheckInLocation) (location.CheckInLocation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO checkin_locations (name, address, latitude, longitude, radius_meters, is_active, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		l.Name, l.Address, l.Latitude, l.Longitude, l.RadiusMeters, l.IsActive, l.IsDefault,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, singleDefaultIndex) {
			return location.CheckInLocation{}, location.ErrDefaultTaken
		}
		return location.CheckInLocation{}, fmt.Errorf("failed to create check-in location: %w", err)
	}
	return l, nil
}

// GetByID implements location.Repository.
func (r *locationRepository) GetByID(ctx context.Context, id string) (location.CheckInLocation, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLocation(q.QueryRow(ctx, `SELECT`+locationColumns+` FROM checkin_locations l WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.CheckInLocation{}, location.ErrLocationNotFound
		}
		return location.CheckInLocation{}, fmt.Errorf("failed to get check-in location: %w", err)
	}
	return l, nil
}

// Update implements location.Repository.
func (r *locationRepository) Update(ctx context.Context, l location.CheckInLocation) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE checkin_locations
		SET name = $2, address = $3, latitude = $4, longitude = $5,
			radius_meters = $6, is_active = $7, is_default = $8, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		l.ID, l.Name, l.Address, l.Latitude, l.Longitude, l.RadiusMeters, l.IsActive, l.IsDefault,
	)
	if err != nil {
		if database.IsUniqueViolation(err, singleDefaultIndex) {
			return location.ErrDefaultTaken
		}
		return fmt.Errorf("failed to update check-in location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return location.ErrLocationNotFound
	}
	return nil
}

// Delete implements location.Repository.
func (r *locationRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM checkin_locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete check-in location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return location.ErrLocationNotFound
	}
	return nil
}

// List implements location.Repository.
func (r *locationRepository) List(ctx context.Context, includeInactive bool) ([]location.CheckInLocation, error) {
	query := `SELECT` + locationColumns + `
		FROM checkin_locations l
		WHERE $1 OR l.is_active
		ORDER BY l.is_default DESC, l.name ASC
	`
	return r.queryLocations(ctx, query, includeInactive)
}

// ListActiveForEmployee implements location.Repository.
func (r *locationRepository) ListActiveForEmployee(ctx context.Context, employeeID string) ([]location.CheckInLocation, error) {
	query := `SELECT` + locationColumns + `
		FROM checkin_locations l
		JOIN employee_checkin_locations ecl ON ecl.location_id = l.id
		WHERE ecl.employee_id = $1 AND l.is_active
		ORDER BY l.is_default DESC, l.name ASC
	`
	return r.queryLocations(ctx, query, employeeID)
}

// ClearDefaultExcept implements location.Repository.
func (r *locationRepository) ClearDefaultExcept(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE checkin_locations
		SET is_default = FALSE, updated_at = NOW()
		WHERE is_default AND ($1 = '' OR id::text <> $1)
	`
	if _, err := q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear default check-in location: %w", err)
	}
	return nil
}

// ListEmployeeLocationIDs implements location.Repository.
func (r *locationRepository) ListEmployeeLocationIDs(ctx context.Context, employeeID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT location_id::text FROM employee_checkin_locations
		WHERE employee_id = $1 ORDER BY location_id
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee locations: %w", err)
	}
	defer rows.Close()

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee locations: %w", err)
	}
	return ids, nil
}

// SetEmployeeLocations implements location.Repository. Callers run it inside a transaction.
func (r *locationRepository) SetEmployeeLocations(ctx context.Context, employeeID string, locationIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM employee_checkin_locations WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("failed to clear employee locations: %w", err)
	}
	if len(locationIDs) == 0 {
		return nil
	}

	_, err := q.Exec(ctx, `
		INSERT INTO employee_checkin_locations (employee_id, location_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`, employeeID, locationIDs)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return location.ErrUnknownLocation
		}
		return fmt.Errorf("failed to assign employee locations: %w", err)
	}
	return nil
}
