package alerts

import (
	"context"
	"log/slog"
	"time"

	"fleetops/internal/compliance/ports"
	"fleetops/pkg/platform/circuit"
)

// GuardedLedger fronts a shared ledger with a circuit breaker. While the
// breaker is open, dedup falls back to a process-local ledger, so replicas
// may each announce an alert once until the primary recovers.
type GuardedLedger struct {
	primary  ports.AlertLedger
	fallback ports.AlertLedger
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewGuardedLedger(primary, fallback ports.AlertLedger, breaker *circuit.Breaker, logger *slog.Logger) *GuardedLedger {
	return &GuardedLedger{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (l *GuardedLedger) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if !l.breaker.Allow() {
		return l.fallback.FirstSeen(ctx, key, ttl)
	}

	first, err := l.primary.FirstSeen(ctx, key, ttl)
	if err != nil {
		useFallback, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "alert ledger circuit opened; deduplicating locally",
				"breaker", l.breaker.Name(),
				"error", err,
			)
		}
		if useFallback {
			return l.fallback.FirstSeen(ctx, key, ttl)
		}
		return false, err
	}

	if _, change := l.breaker.RecordSuccess(); change.Closed {
		l.logger.InfoContext(ctx, "alert ledger circuit closed", "breaker", l.breaker.Name())
	}
	// Keep the local ledger warm so a later outage does not re-announce.
	if first {
		_, _ = l.fallback.FirstSeen(ctx, key, ttl)
	}
	return first, nil
}
