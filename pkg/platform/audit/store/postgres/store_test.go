package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "fleetops/pkg/domain"
	audit "fleetops/pkg/platform/audit"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestStore_Append(t *testing.T) {
	store, mock := newMockStore(t)
	driverID := id.DriverID(uuid.New())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox")).
		WithArgs(sqlmock.AnyArg(), "driver", driverID.String(), string(audit.EventReportGenerated), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := store.Append(context.Background(), audit.Event{
		Timestamp: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		DriverID:  driverID,
		Action:    string(audit.EventReportGenerated),
		Period:    "weekly",
		Score:     75,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendFailurePropagates(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox")).
		WillReturnError(errors.New("connection reset"))

	err := store.Append(context.Background(), audit.Event{
		DriverID: id.DriverID(uuid.New()),
		Action:   string(audit.EventViolationDetected),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert outbox entry")
}

func TestStore_ListByDriver(t *testing.T) {
	store, mock := newMockStore(t)
	driverID := id.DriverID(uuid.New())
	payload, err := json.Marshal(outboxPayload{
		ID:        uuid.New().String(),
		Category:  string(audit.CategoryCompliance),
		Timestamp: "2024-01-15T12:00:00Z",
		DriverID:  driverID.String(),
		Action:    string(audit.EventReportGenerated),
		State:     "CRITICAL",
		Score:     50,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload")).
		WithArgs(driverID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))

	events, err := store.ListByDriver(context.Background(), driverID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, driverID, events[0].DriverID)
	assert.Equal(t, "CRITICAL", events[0].State)
	assert.Equal(t, 50, events[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
