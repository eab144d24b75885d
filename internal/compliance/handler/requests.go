package handler

import (
	"net/url"
	"strconv"
	"time"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
)

// maxFleetDrivers bounds one fleet report request.
const maxFleetDrivers = 500

const dateLayout = "2006-01-02"

// GenerateReportRequest is the body of POST /v1/drivers/{driverID}/reports.
type GenerateReportRequest struct {
	Period string `json:"period"`

	parsedPeriod models.PeriodType
}

func (r *GenerateReportRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Period == "" {
		return dErrors.New(dErrors.CodeValidation, "period is required")
	}
	p, err := models.ParsePeriodType(r.Period)
	if err != nil {
		return err
	}
	r.parsedPeriod = p
	return nil
}

// FleetReportRequest is the body of POST /v1/reports/fleet.
type FleetReportRequest struct {
	DriverIDs []string `json:"driver_ids"`
	Period    string   `json:"period"`

	parsedDrivers []id.DriverID
	parsedPeriod  models.PeriodType
}

func (r *FleetReportRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.DriverIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "driver_ids must not be empty")
	}
	if len(r.DriverIDs) > maxFleetDrivers {
		return dErrors.New(dErrors.CodeValidation, "at most "+strconv.Itoa(maxFleetDrivers)+" driver_ids per request")
	}
	p, err := models.ParsePeriodType(r.Period)
	if err != nil {
		return err
	}
	r.parsedPeriod = p

	r.parsedDrivers = make([]id.DriverID, len(r.DriverIDs))
	for i, raw := range r.DriverIDs {
		d, err := id.ParseDriverID(raw)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "driver_ids["+strconv.Itoa(i)+"]")
		}
		r.parsedDrivers[i] = d
	}
	return nil
}

// parseDate reads a required YYYY-MM-DD query parameter.
func parseDate(q url.Values, name string) (time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, name+" is required (YYYY-MM-DD)")
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeValidation, name+" must be YYYY-MM-DD")
	}
	return t, nil
}
