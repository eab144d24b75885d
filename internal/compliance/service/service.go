package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"fleetops/internal/compliance/engine"
	"fleetops/internal/compliance/metrics"
	"fleetops/internal/compliance/models"
	"fleetops/internal/compliance/ports"
)

const (
	defaultConcurrency = 8
	defaultDedupTTL    = time.Hour
)

// TxRunner runs fn in a unit of work shared by the report and audit stores.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// Service fetches activity records, runs the compliance engine over them and
// persists the resulting reports. It holds no per-driver state.
type Service struct {
	activities  ports.ActivityStore
	reports     ports.ReportStore
	auditor     ports.AuditPublisher
	ledger      ports.AlertLedger
	logger      *slog.Logger
	metrics     *metrics.Metrics
	regulation  engine.Regulation
	location    *time.Location
	anchor      models.WeekAnchor
	concurrency int
	dedupTTL    time.Duration
	runTx       TxRunner
	tracer      trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher sets the fail-closed publisher for report events.
func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

// WithAlertLedger enables alert deduplication; without it every alert is
// announced on every call.
func WithAlertLedger(l ports.AlertLedger, ttl time.Duration) Option {
	return func(s *Service) {
		s.ledger = l
		if ttl > 0 {
			s.dedupTTL = ttl
		}
	}
}

func WithRegulation(r engine.Regulation) Option {
	return func(s *Service) { s.regulation = r }
}

// WithLocation sets the timezone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithWeekAnchor(a models.WeekAnchor) Option {
	return func(s *Service) {
		if a.IsValid() {
			s.anchor = a
		}
	}
}

// WithConcurrency bounds the number of drivers processed at once by fleet reports.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithTx makes report persistence and its audit event atomic.
func WithTx(run TxRunner) Option {
	return func(s *Service) { s.runTx = run }
}

func New(activities ports.ActivityStore, reports ports.ReportStore, opts ...Option) *Service {
	s := &Service{
		activities:  activities,
		reports:     reports,
		logger:      slog.Default(),
		regulation:  engine.DefaultRegulation(),
		location:    time.UTC,
		anchor:      models.AnchorCalendar,
		concurrency: defaultConcurrency,
		dedupTTL:    defaultDedupTTL,
		runTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
		tracer: otel.Tracer("fleetops/compliance"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "compliance."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Location is the timezone that defines calendar days.
func (s *Service) Location() *time.Location {
	return s.location
}
