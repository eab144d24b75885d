//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"fleetops/internal/activity/store"
	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/sentinel"
	"fleetops/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "activity_records"))
}

func hour(h int) time.Time {
	return time.Date(2024, 1, 15, h, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) TestRoundTripAndNeighbours() {
	ctx := context.Background()
	driverID := id.DriverID(uuid.New())
	vehicleID := id.VehicleID(uuid.New())
	speed := 82.5

	s.Require().NoError(s.store.Append(ctx, []models.ActivityRecord{
		{DriverID: driverID, VehicleID: vehicleID, Activity: models.ActivityDriving, Timestamp: hour(6),
			Position: &models.Position{Latitude: 48.1, Longitude: 11.6}, Speed: &speed},
		{DriverID: driverID, Activity: models.ActivityRest, Timestamp: hour(10)},
		{DriverID: driverID, Activity: models.ActivityWork, Timestamp: hour(22)},
	}))

	got, err := s.store.ListActivities(ctx, driverID, models.TimeWindow{Start: hour(0), End: hour(22)})
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(vehicleID, got[0].VehicleID)
	s.Require().NotNil(got[0].Position)
	s.Equal(48.1, got[0].Position.Latitude)
	s.Require().NotNil(got[0].Speed)
	s.Equal(82.5, *got[0].Speed)
	s.True(got[1].VehicleID.IsNil())
	s.Nil(got[1].Position)

	before, err := s.store.LastBefore(ctx, driverID, hour(10))
	s.Require().NoError(err)
	s.Equal(models.ActivityDriving, before.Activity)

	after, err := s.store.FirstAtOrAfter(ctx, driverID, hour(11))
	s.Require().NoError(err)
	s.Equal(models.ActivityWork, after.Activity)

	_, err = s.store.LastBefore(ctx, driverID, hour(6))
	s.True(errors.Is(err, sentinel.ErrNotFound))
}

func (s *PostgresStoreSuite) TestDuplicateTimestampRejectsBatch() {
	ctx := context.Background()
	driverID := id.DriverID(uuid.New())
	s.Require().NoError(s.store.Append(ctx, []models.ActivityRecord{
		{DriverID: driverID, Activity: models.ActivityDriving, Timestamp: hour(6)},
	}))

	err := s.store.Append(ctx, []models.ActivityRecord{
		{DriverID: driverID, Activity: models.ActivityRest, Timestamp: hour(8)},
		{DriverID: driverID, Activity: models.ActivityRest, Timestamp: hour(6)},
	})
	s.True(errors.Is(err, sentinel.ErrConflict))

	got, err := s.store.ListActivities(ctx, driverID, models.TimeWindow{Start: hour(0), End: hour(23)})
	s.Require().NoError(err)
	s.Len(got, 1, "COPY is all or nothing")
}
