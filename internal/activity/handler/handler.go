// Package handler exposes activity ingestion and listing over HTTP.
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

type Service interface {
	Record(ctx context.Context, driverID id.DriverID, records []models.ActivityRecord) (int, error)
	List(ctx context.Context, driverID id.DriverID, window models.TimeWindow) ([]models.ActivityRecord, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/drivers/{driverID}/activities", h.HandleRecord)
	r.Get("/drivers/{driverID}/activities", h.HandleList)
}

// HandleRecord handles POST /drivers/{driverID}/activities.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	driverID, err := id.ParseDriverID(chi.URLParam(r, "driverID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordActivitiesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	n, err := h.service.Record(ctx, driverID, req.parsed)
	if err != nil {
		h.logger.WarnContext(ctx, "recording activities failed",
			"request_id", requestID,
			"driver_id", driverID,
			"count", len(req.parsed),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.DebugContext(ctx, "activities accepted",
		"request_id", requestID,
		"driver_id", driverID,
		"count", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, RecordActivitiesResponse{Recorded: n})
}

// HandleList handles GET /drivers/{driverID}/activities?from=&to=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, err := id.ParseDriverID(chi.URLParam(r, "driverID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	window, err := parseWindow(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	records, err := h.service.List(ctx, driverID, window)
	if err != nil {
		h.logger.ErrorContext(ctx, "listing activities failed",
			"request_id", requestcontext.RequestID(ctx),
			"driver_id", driverID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []models.ActivityRecord{}
	}
	httputil.WriteJSON(w, http.StatusOK, records)
}
