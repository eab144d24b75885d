package ports

import (
	"context"
	"time"

	"fleetops/pkg/platform/audit"
)

//go:generate mockgen -source=audit.go -destination=../service/mocks/audit_mock.go -package=mocks

// AuditPublisher records compliance events. Emit must fail closed: a returned
// error means the event was not recorded.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// AlertLedger remembers which alerts were already announced.
type AlertLedger interface {
	// FirstSeen records key for ttl and reports whether it was new.
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
