//go:build integration

package service_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	activitystore "fleetops/internal/activity/store"
	"fleetops/internal/compliance/models"
	"fleetops/internal/compliance/service"
	reportstore "fleetops/internal/compliance/store/report"
	"fleetops/internal/platform/kafka"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/audit/publishers/compliance"
	auditpostgres "fleetops/pkg/platform/audit/store/postgres"
	"fleetops/pkg/platform/audit/worker"
	"fleetops/pkg/platform/tx"
	"fleetops/pkg/requestcontext"
	"fleetops/pkg/testutil/containers"
)

// ReportPipelineSuite runs report generation against postgres and relays the
// resulting audit events to a Kafka-compatible broker.
type ReportPipelineSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	logger   *slog.Logger
}

func TestReportPipelineSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ReportPipelineSuite))
}

func (s *ReportPipelineSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redpanda = mgr.GetRedpanda(s.T())
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ReportPipelineSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(),
		"activity_records", "compliance_reports", "outbox"))
}

func (s *ReportPipelineSuite) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, s.postgres.DB, fn)
}

func (s *ReportPipelineSuite) TestReportIsPersistedAndAudited() {
	now := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	driverID := id.DriverID(uuid.New())

	activities := activitystore.NewPostgres(s.postgres.Pool)
	s.Require().NoError(activities.Append(ctx, []models.ActivityRecord{
		{DriverID: driverID, Activity: models.ActivityDriving, Timestamp: time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC)},
		{DriverID: driverID, Activity: models.ActivityRest, Timestamp: time.Date(2024, 1, 15, 11, 30, 0, 0, time.UTC)},
	}))

	outbox := auditpostgres.New(s.postgres.DB)
	svc := service.New(activities, reportstore.NewPostgres(s.postgres.DB),
		service.WithLogger(s.logger),
		service.WithAuditPublisher(compliance.New(outbox)),
		service.WithTx(s.runTx),
	)

	report, err := svc.GenerateReport(ctx, driverID, models.PeriodWeekly)
	s.Require().NoError(err)
	s.Equal(1, report.Summary.ByType[models.ViolationContinuousDriving], "5.5h of continuous driving")

	stored, err := svc.GetReport(ctx, report.ID)
	s.Require().NoError(err)
	s.Equal(report.Summary.ComplianceScore, stored.Summary.ComplianceScore)

	events, err := outbox.ListByDriver(ctx, driverID)
	s.Require().NoError(err)
	s.Len(events, 2, "report_generated and violation_detected")

	topic := "fleetops.audit." + uuid.NewString()[:8]
	producer, err := kafka.NewProducer(s.redpanda.Brokers, s.logger)
	s.Require().NoError(err)
	defer producer.Close()
	s.Require().NoError(producer.EnsureTopic(ctx, topic, 1, 1))

	relay := worker.NewWorker(outbox, producer, topic, worker.WithTx(worker.TxRunner(s.runTx)))
	n, err := relay.RelayOnce(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = relay.RelayOnce(ctx)
	s.Require().NoError(err)
	s.Zero(n, "published rows are not relayed twice")

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var actions []string
	pollCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	for len(actions) < 2 && pollCtx.Err() == nil {
		fetches := consumer.PollFetches(pollCtx)
		fetches.EachRecord(func(r *kgo.Record) {
			s.Equal(driverID.String(), string(r.Key))
			var payload struct {
				Action string `json:"action"`
			}
			s.Require().NoError(json.Unmarshal(r.Value, &payload))
			actions = append(actions, payload.Action)
		})
	}
	s.ElementsMatch([]string{"report_generated", "violation_detected"}, actions)
}
