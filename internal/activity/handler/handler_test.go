package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetops/internal/activity/service"
	"fleetops/internal/activity/store"
	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemoryStore(), service.WithLogger(logger))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func activitiesPath(driverID id.DriverID) string {
	return "/drivers/" + driverID.String() + "/activities"
}

func TestHandleRecord(t *testing.T) {
	driverID := id.DriverID(uuid.New())
	morning := time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC)

	t.Run("stores a batch and lists it back in order", func(t *testing.T) {
		r := newRouter(t)
		lat, lon, speed := 52.52, 13.40, 80.0
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, activitiesPath(driverID), map[string]any{
			"activities": []ActivityInput{
				{Activity: "rest", Timestamp: morning.Add(4 * time.Hour)},
				{Activity: "DRIVING", Timestamp: morning, Latitude: &lat, Longitude: &lon, Speed: &speed},
			},
		}))
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, 2, testutil.DecodeResponse[RecordActivitiesResponse](t, rr).Recorded)

		rr = testutil.DoRequest(r, testutil.NewRequest(http.MethodGet,
			activitiesPath(driverID)+"?from=2024-01-15T00:00:00Z&to=2024-01-16T00:00:00Z"))
		require.Equal(t, http.StatusOK, rr.Code)
		got := testutil.DecodeResponse[[]models.ActivityRecord](t, rr)
		require.Len(t, got, 2)
		assert.Equal(t, models.ActivityDriving, got[0].Activity)
		require.NotNil(t, got[0].Position)
		assert.Equal(t, 52.52, got[0].Position.Latitude)
		assert.Equal(t, models.ActivityRest, got[1].Activity)
		assert.Equal(t, driverID, got[1].DriverID)
	})

	t.Run("duplicate timestamp conflicts", func(t *testing.T) {
		r := newRouter(t)
		body := map[string]any{"activities": []ActivityInput{{Activity: "WORK", Timestamp: morning}}}
		rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, activitiesPath(driverID), body))
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, activitiesPath(driverID), body))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty batch", `{"activities":[]}`, "validation_error"},
		{"unknown activity", `{"activities":[{"activity":"SLEEPING","timestamp":"2024-01-15T06:00:00Z"}]}`, "validation_error"},
		{"missing timestamp", `{"activities":[{"activity":"REST"}]}`, "validation_error"},
		{"half a position", `{"activities":[{"activity":"REST","timestamp":"2024-01-15T06:00:00Z","latitude":10}]}`, "validation_error"},
		{"latitude out of range", `{"activities":[{"activity":"REST","timestamp":"2024-01-15T06:00:00Z","latitude":91,"longitude":0}]}`, "validation_error"},
		{"negative speed", `{"activities":[{"activity":"DRIVING","timestamp":"2024-01-15T06:00:00Z","speed":-1}]}`, "validation_error"},
		{"malformed vehicle", `{"activities":[{"activity":"REST","timestamp":"2024-01-15T06:00:00Z","vehicle_id":"x"}]}`, "validation_error"},
		{"other driver", `{"activities":[{"activity":"REST","timestamp":"2024-01-15T06:00:00Z","driver_id":"` + uuid.NewString() + `"}]}`, "validation_error"},
		{"not json", `activities`, "bad_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(newRouter(t), testutil.NewRawRequest(http.MethodPost, activitiesPath(driverID), tt.body))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, tt.code)
		})
	}

	t.Run("malformed driver in path", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(t), testutil.NewRawRequest(http.MethodPost, "/drivers/abc/activities", `{"activities":[]}`))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
	})
}

func TestHandleList(t *testing.T) {
	driverID := id.DriverID(uuid.New())

	t.Run("no samples is an empty array", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(t), testutil.NewRequest(http.MethodGet,
			activitiesPath(driverID)+"?from=2024-01-15T00:00:00Z&to=2024-01-16T00:00:00Z"))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("window is required", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(t), testutil.NewRequest(http.MethodGet, activitiesPath(driverID)+"?from=2024-01-15T00:00:00Z"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("inverted window", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(t), testutil.NewRequest(http.MethodGet,
			activitiesPath(driverID)+"?from=2024-01-16T00:00:00Z&to=2024-01-15T00:00:00Z"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})
}
