package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	activityhandler "fleetops/internal/activity/handler"
	activityservice "fleetops/internal/activity/service"
	compliancehandler "fleetops/internal/compliance/handler"
	compliancemetrics "fleetops/internal/compliance/metrics"
	complianceservice "fleetops/internal/compliance/service"
	httpapi "fleetops/internal/http"
	jwttoken "fleetops/internal/jwt_token"
	"fleetops/internal/platform/config"
	"fleetops/internal/platform/httpserver"
	"fleetops/internal/platform/logger"
	"fleetops/internal/platform/metrics"
	"fleetops/pkg/platform/audit/publishers/compliance"
)

// main wires configuration, storage and the HTTP router, then serves until
// SIGINT or SIGTERM. Business logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fleetops: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	deps, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	auditor := compliance.New(deps.auditStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(reg)),
	)

	anchor, err := weekAnchor(cfg.Compliance.WeekAnchor)
	if err != nil {
		return err
	}
	opts := []complianceservice.Option{
		complianceservice.WithLogger(log),
		complianceservice.WithMetrics(compliancemetrics.New(reg)),
		complianceservice.WithAuditPublisher(auditor),
		complianceservice.WithAlertLedger(deps.ledger, cfg.Compliance.AlertDedupTTL),
		complianceservice.WithRegulation(regulation(cfg.Compliance)),
		complianceservice.WithLocation(cfg.Compliance.Location()),
		complianceservice.WithWeekAnchor(anchor),
		complianceservice.WithConcurrency(cfg.Compliance.FleetReportConcurrent),
	}
	if deps.txRunner != nil {
		opts = append(opts, complianceservice.WithTx(deps.txRunner))
	}
	complianceSvc := complianceservice.New(deps.activities, deps.reports, opts...)
	activitySvc := activityservice.New(deps.activities,
		activityservice.WithLogger(log),
		activityservice.WithAuditPublisher(auditor),
	)

	routerCfg := httpapi.Config{
		Logger:   log,
		Registry: reg,
		Checks:   deps.checks,
		Modules: []httpapi.Registrar{
			activityhandler.New(activitySvc, log),
			compliancehandler.New(complianceSvc, log),
		},
	}
	if cfg.Server.AuthEnabled {
		jwt := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
		routerCfg.Validator = jwttoken.NewJWTServiceAdapter(jwt)
	} else {
		log.Warn("bearer auth disabled; the API is open")
	}
	srv := httpserver.New(cfg.Server.Addr, httpapi.NewRouter(routerCfg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting fleetops",
			"addr", cfg.Server.Addr,
			"timezone", cfg.Compliance.Timezone,
			"week_anchor", cfg.Compliance.WeekAnchor,
			"storage", deps.mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if deps.relay != nil {
		g.Go(func() error {
			err := deps.relay.Run(gctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
