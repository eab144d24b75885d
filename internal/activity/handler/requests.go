package handler

import (
	"net/url"
	"strconv"
	"time"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
)

// ActivityInput is one sample as submitted by a tachograph gateway.
type ActivityInput struct {
	DriverID  string    `json:"driver_id,omitempty"`
	VehicleID string    `json:"vehicle_id,omitempty"`
	Activity  string    `json:"activity"`
	Timestamp time.Time `json:"timestamp"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
}

// RecordActivitiesRequest is the body of POST /drivers/{driverID}/activities.
type RecordActivitiesRequest struct {
	Activities []ActivityInput `json:"activities"`

	parsed []models.ActivityRecord
}

func (r *RecordActivitiesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Activities) == 0 {
		return dErrors.New(dErrors.CodeValidation, "activities must not be empty")
	}

	r.parsed = make([]models.ActivityRecord, len(r.Activities))
	for i, in := range r.Activities {
		rec, err := in.toRecord()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "activities["+strconv.Itoa(i)+"]")
		}
		r.parsed[i] = rec
	}
	return nil
}

func (in ActivityInput) toRecord() (models.ActivityRecord, error) {
	var rec models.ActivityRecord
	if in.DriverID != "" {
		d, err := id.ParseDriverID(in.DriverID)
		if err != nil {
			return rec, err
		}
		rec.DriverID = d
	}
	if in.VehicleID != "" {
		v, err := id.ParseVehicleID(in.VehicleID)
		if err != nil {
			return rec, err
		}
		rec.VehicleID = v
	}
	a, err := models.ParseActivityType(in.Activity)
	if err != nil {
		return rec, err
	}
	rec.Activity = a
	rec.Timestamp = in.Timestamp
	if (in.Latitude == nil) != (in.Longitude == nil) {
		return rec, dErrors.New(dErrors.CodeValidation, "latitude and longitude must be given together")
	}
	if in.Latitude != nil {
		rec.Position = &models.Position{Latitude: *in.Latitude, Longitude: *in.Longitude}
	}
	rec.Speed = in.Speed
	return rec, nil
}

// RecordActivitiesResponse reports how many samples were stored.
type RecordActivitiesResponse struct {
	Recorded int `json:"recorded"`
}

// parseWindow reads the required RFC3339 from and to query parameters.
func parseWindow(q url.Values) (models.TimeWindow, error) {
	from, err := parseInstant(q, "from")
	if err != nil {
		return models.TimeWindow{}, err
	}
	to, err := parseInstant(q, "to")
	if err != nil {
		return models.TimeWindow{}, err
	}
	w := models.TimeWindow{Start: from, End: to}
	return w, w.Validate()
}

func parseInstant(q url.Values, name string) (time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, name+" is required (RFC3339)")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, dErrors.Wrap(err, dErrors.CodeValidation, name+" must be RFC3339")
	}
	return t, nil
}
