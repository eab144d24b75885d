package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresStore persists samples in activity_records through pgx.
type PostgresStore struct {
	db Querier
}

func NewPostgres(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

var activityColumns = []string{"driver_id", "vehicle_id", "recorded_at", "activity", "latitude", "longitude", "speed"}

const selectActivity = `
	SELECT driver_id::text, vehicle_id::text, recorded_at, activity, latitude, longitude, speed
	FROM activity_records
`

// Append bulk-loads the batch with COPY. A duplicate (driver, timestamp)
// fails the whole batch with sentinel.ErrConflict.
func (s *PostgresStore) Append(ctx context.Context, records []models.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([][]any, len(records))
	for i, r := range records {
		var vehicle any
		if !r.VehicleID.IsNil() {
			vehicle = r.VehicleID.String()
		}
		var lat, lng any
		if r.Position != nil {
			lat, lng = r.Position.Latitude, r.Position.Longitude
		}
		var speed any
		if r.Speed != nil {
			speed = *r.Speed
		}
		rows[i] = []any{r.DriverID.String(), vehicle, r.Timestamp.UTC(), string(r.Activity), lat, lng, speed}
	}

	_, err := s.db.CopyFrom(ctx, pgx.Identifier{"activity_records"}, activityColumns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("copy activity records: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivities(ctx context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error) {
	rows, err := s.db.Query(ctx, selectActivity+`
		WHERE driver_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at
	`, driverID.String(), window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("query activity records: %w", err)
	}
	defer rows.Close()

	records := []models.ActivityRecord{}
	for rows.Next() {
		r, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity records: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) LastBefore(ctx context.Context, driverID id.DriverID, t time.Time) (models.ActivityRecord, error) {
	return s.one(ctx, selectActivity+`
		WHERE driver_id = $1 AND recorded_at < $2
		ORDER BY recorded_at DESC
		LIMIT 1
	`, driverID, t)
}

func (s *PostgresStore) FirstAtOrAfter(ctx context.Context, driverID id.DriverID, t time.Time) (models.ActivityRecord, error) {
	return s.one(ctx, selectActivity+`
		WHERE driver_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at
		LIMIT 1
	`, driverID, t)
}

func (s *PostgresStore) one(ctx context.Context, query string, driverID id.DriverID, t time.Time) (models.ActivityRecord, error) {
	r, err := scanActivity(s.db.QueryRow(ctx, query, driverID.String(), t))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ActivityRecord{}, sentinel.ErrNotFound
	}
	return r, err
}

func scanActivity(row pgx.Row) (models.ActivityRecord, error) {
	var (
		driver   string
		vehicle  *string
		ts       time.Time
		activity string
		lat, lng *float64
		speed    *float64
	)
	if err := row.Scan(&driver, &vehicle, &ts, &activity, &lat, &lng, &speed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ActivityRecord{}, err
		}
		return models.ActivityRecord{}, fmt.Errorf("scan activity record: %w", err)
	}

	driverUUID, err := uuid.Parse(driver)
	if err != nil {
		return models.ActivityRecord{}, fmt.Errorf("parse driver_id: %w", err)
	}
	r := models.ActivityRecord{
		DriverID:  id.DriverID(driverUUID),
		Activity:  models.ActivityType(activity),
		Timestamp: ts.UTC(),
		Speed:     speed,
	}
	if vehicle != nil {
		vehicleUUID, err := uuid.Parse(*vehicle)
		if err != nil {
			return models.ActivityRecord{}, fmt.Errorf("parse vehicle_id: %w", err)
		}
		r.VehicleID = id.VehicleID(vehicleUUID)
	}
	if lat != nil && lng != nil {
		r.Position = &models.Position{Latitude: *lat, Longitude: *lng}
	}
	return r, nil
}
