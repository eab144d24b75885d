package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	activitystore "fleetops/internal/activity/store"
	"fleetops/internal/compliance/engine"
	"fleetops/internal/compliance/models"
	"fleetops/internal/compliance/ports"
	complianceservice "fleetops/internal/compliance/service"
	alertstore "fleetops/internal/compliance/store/alerts"
	reportstore "fleetops/internal/compliance/store/report"
	httpapi "fleetops/internal/http"
	"fleetops/internal/platform/config"
	"fleetops/internal/platform/kafka"
	"fleetops/internal/platform/postgres"
	"fleetops/internal/platform/redis"
	"fleetops/pkg/platform/audit"
	auditmemory "fleetops/pkg/platform/audit/store/memory"
	auditpostgres "fleetops/pkg/platform/audit/store/postgres"
	"fleetops/pkg/platform/audit/worker"
	"fleetops/pkg/platform/circuit"
	"fleetops/pkg/platform/tx"
)

// activityStore is what both the ingestion and compliance services need.
type activityStore interface {
	ports.ActivityStore
	Append(ctx context.Context, records []models.ActivityRecord) error
}

// infra holds the storage backends selected by configuration. Without
// DATABASE_URL everything runs in memory; without REDIS_URL alert dedup is
// process-local.
type infra struct {
	mode       string
	activities activityStore
	reports    ports.ReportStore
	auditStore audit.Store
	ledger     ports.AlertLedger
	txRunner   complianceservice.TxRunner
	relay      *worker.Worker
	checks     map[string]httpapi.HealthCheck
	closers    []func()
}

func (i *infra) Close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	i := &infra{checks: map[string]httpapi.HealthCheck{}}
	if err := i.openStorage(ctx, cfg, log); err != nil {
		i.Close()
		return nil, err
	}
	if err := i.openLedger(ctx, cfg.Redis, log); err != nil {
		i.Close()
		return nil, err
	}
	return i, nil
}

func (i *infra) openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	if cfg.DatabaseURL == "" {
		i.mode = "memory"
		i.activities = activitystore.NewInMemoryStore()
		i.reports = reportstore.NewInMemoryStore()
		i.auditStore = auditmemory.NewInMemoryStore()
		if len(cfg.Kafka.Brokers) > 0 {
			log.Warn("KAFKA_BROKERS ignored: the audit relay needs the postgres outbox")
		}
		return nil
	}

	i.mode = "postgres"
	db, err := postgres.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	i.closers = append(i.closers, func() { _ = db.Close() })
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	i.closers = append(i.closers, pool.Close)

	outbox := auditpostgres.New(db)
	i.activities = activitystore.NewPostgres(pool)
	i.reports = reportstore.NewPostgres(db)
	i.auditStore = outbox
	i.txRunner = runInTx(db)
	i.checks["postgres"] = func(ctx context.Context) error { return db.PingContext(ctx) }
	i.checks["postgres_pool"] = pool.Ping

	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}
	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, log)
	if err != nil {
		return err
	}
	i.closers = append(i.closers, producer.Close)
	if err := producer.EnsureTopic(ctx, cfg.Kafka.AuditTopic, 3, 1); err != nil {
		return err
	}
	i.checks["kafka"] = producer.Health
	i.relay = worker.NewWorker(outbox, producer, cfg.Kafka.AuditTopic,
		worker.WithInterval(cfg.Kafka.OutboxInterval),
		worker.WithTx(worker.TxRunner(runInTx(db))),
		worker.WithLogger(log),
	)
	return nil
}

func (i *infra) openLedger(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) error {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return err
	}
	if client == nil {
		i.ledger = alertstore.NewInMemoryLedger()
		return nil
	}
	i.closers = append(i.closers, func() { _ = client.Close() })
	i.ledger = alertstore.NewGuardedLedger(
		alertstore.NewRedisLedger(client.Client),
		alertstore.NewInMemoryLedger(),
		circuit.New("alert-ledger"),
		log,
	)
	i.checks["redis"] = client.Health
	return nil
}

func runInTx(db *sql.DB) complianceservice.TxRunner {
	return func(ctx context.Context, fn func(ctx context.Context) error) error {
		return tx.Run(ctx, db, fn)
	}
}

func weekAnchor(s string) (models.WeekAnchor, error) {
	a := models.WeekAnchor(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown week anchor %q", s)
	}
	return a, nil
}

// regulation applies the deployment-tunable thresholds to the EU defaults.
func regulation(c config.Compliance) engine.Regulation {
	reg := engine.DefaultRegulation()
	reg.WeeklyRestRegular = c.WeeklyRestRegularHrs
	reg.WeeklyRestReduced = c.WeeklyRestReducedHrs
	return reg
}
