package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/httputil"
	"fleetops/pkg/requestcontext"
)

// Service is the compliance surface the handler needs.
type Service interface {
	AnalyzeDay(ctx context.Context, driverID id.DriverID, date time.Time) (models.DailyAnalysis, error)
	AnalyzeWeeks(ctx context.Context, driverID id.DriverID, from, to time.Time) ([]models.WeeklyAnalysis, error)
	GenerateReport(ctx context.Context, driverID id.DriverID, period models.PeriodType) (models.ComplianceReport, error)
	GenerateFleetReports(ctx context.Context, driverIDs []id.DriverID, period models.PeriodType) ([]models.ComplianceReport, error)
	GetReport(ctx context.Context, reportID id.ReportID) (models.ComplianceReport, error)
	ListReports(ctx context.Context, driverID id.DriverID) ([]models.ComplianceReport, error)
	GetActiveAlerts(ctx context.Context, driverID id.DriverID) ([]models.Alert, error)
}

// Handler exposes compliance analysis, reports and alerts over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the compliance routes. The router is expected to be the
// /v1 subrouter.
func (h *Handler) Register(r chi.Router) {
	r.Get("/drivers/{driverID}/compliance/daily", h.HandleDaily)
	r.Get("/drivers/{driverID}/compliance/weekly", h.HandleWeekly)
	r.Post("/drivers/{driverID}/reports", h.HandleGenerateReport)
	r.Get("/drivers/{driverID}/reports", h.HandleListReports)
	r.Get("/drivers/{driverID}/alerts", h.HandleAlerts)
	r.Post("/reports/fleet", h.HandleFleetReports)
	r.Get("/reports/{reportID}", h.HandleGetReport)
}

// HandleDaily handles GET /drivers/{driverID}/compliance/daily?date=YYYY-MM-DD.
func (h *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, ok := h.driverFromPath(w, r)
	if !ok {
		return
	}
	date, err := parseDate(r.URL.Query(), "date")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	analysis, err := h.service.AnalyzeDay(ctx, driverID, date)
	if err != nil {
		h.fail(ctx, w, "daily analysis failed", driverID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analysis)
}

// HandleWeekly handles GET /drivers/{driverID}/compliance/weekly?from=&to=.
func (h *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, ok := h.driverFromPath(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	from, err := parseDate(q, "from")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	to, err := parseDate(q, "to")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	weeks, err := h.service.AnalyzeWeeks(ctx, driverID, from, to)
	if err != nil {
		h.fail(ctx, w, "weekly analysis failed", driverID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, weeks)
}

// HandleGenerateReport handles POST /drivers/{driverID}/reports.
func (h *Handler) HandleGenerateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	driverID, ok := h.driverFromPath(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[GenerateReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	report, err := h.service.GenerateReport(ctx, driverID, req.parsedPeriod)
	if err != nil {
		h.fail(ctx, w, "report generation failed", driverID, err)
		return
	}

	h.logger.InfoContext(ctx, "compliance report generated",
		"request_id", requestID,
		"driver_id", driverID,
		"report_id", report.ID,
		"period", report.Period.Type,
		"state", report.Summary.ComplianceState,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, report)
}

// HandleFleetReports handles POST /reports/fleet.
func (h *Handler) HandleFleetReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[FleetReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	reports, err := h.service.GenerateFleetReports(ctx, req.parsedDrivers, req.parsedPeriod)
	if err != nil {
		h.logger.ErrorContext(ctx, "fleet report generation failed",
			"request_id", requestID,
			"drivers", len(req.parsedDrivers),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "fleet reports generated",
		"request_id", requestID,
		"drivers", len(reports),
		"period", req.parsedPeriod,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, reports)
}

// HandleListReports handles GET /drivers/{driverID}/reports.
func (h *Handler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, ok := h.driverFromPath(w, r)
	if !ok {
		return
	}
	reports, err := h.service.ListReports(ctx, driverID)
	if err != nil {
		h.fail(ctx, w, "listing reports failed", driverID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, reports)
}

// HandleGetReport handles GET /reports/{reportID}.
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID, err := id.ParseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.service.GetReport(ctx, reportID)
	if err != nil {
		h.logger.WarnContext(ctx, "report lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"report_id", reportID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleAlerts handles GET /drivers/{driverID}/alerts.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, ok := h.driverFromPath(w, r)
	if !ok {
		return
	}
	alerts, err := h.service.GetActiveAlerts(ctx, driverID)
	if err != nil {
		h.fail(ctx, w, "alert evaluation failed", driverID, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, alerts)
}

func (h *Handler) driverFromPath(w http.ResponseWriter, r *http.Request) (id.DriverID, bool) {
	driverID, err := id.ParseDriverID(chi.URLParam(r, "driverID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.DriverID{}, false
	}
	return driverID, true
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, driverID id.DriverID, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"driver_id", driverID,
		"error", err,
	)
	httputil.WriteError(w, err)
}
