package models

import (
	"strings"
	"time"

	id "fleetops/pkg/domain"
	dErrors "fleetops/pkg/domain-errors"
)

// ActivityType is the driver state recorded by a tachograph sample.
type ActivityType string

const (
	ActivityDriving   ActivityType = "DRIVING"
	ActivityRest      ActivityType = "REST"
	ActivityWork      ActivityType = "WORK"
	ActivityAvailable ActivityType = "AVAILABLE"
)

func (a ActivityType) IsValid() bool {
	switch a {
	case ActivityDriving, ActivityRest, ActivityWork, ActivityAvailable:
		return true
	}
	return false
}

func (a ActivityType) String() string { return string(a) }

// ParseActivityType accepts any casing of the four activity names.
func ParseActivityType(s string) (ActivityType, error) {
	a := ActivityType(strings.ToUpper(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "activity must be one of DRIVING, REST, WORK, AVAILABLE")
	}
	return a, nil
}

type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ActivityRecord is one immutable driver-state sample. The activity describes
// the interval that starts at Timestamp and lasts until the next sample.
type ActivityRecord struct {
	DriverID  id.DriverID  `json:"driver_id"`
	VehicleID id.VehicleID `json:"vehicle_id,omitzero"`
	Activity  ActivityType `json:"activity"`
	Timestamp time.Time    `json:"timestamp"`
	Position  *Position    `json:"position,omitempty"`
	Speed     *float64     `json:"speed,omitempty"`
}

// TimeWindow is the half-open range [Start, End).
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w TimeWindow) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}

// Validate rejects empty and inverted windows.
func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "time window requires start and end")
	}
	if !w.End.After(w.Start) {
		return dErrors.New(dErrors.CodeValidation, "time window end must be after start")
	}
	return nil
}

// Validate checks a sample before it is stored.
func (r ActivityRecord) Validate() error {
	if r.DriverID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "driver_id is required")
	}
	if !r.Activity.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "activity must be one of DRIVING, REST, WORK, AVAILABLE")
	}
	if r.Timestamp.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "timestamp is required")
	}
	if p := r.Position; p != nil {
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return dErrors.New(dErrors.CodeValidation, "position is out of range")
		}
	}
	if r.Speed != nil && *r.Speed < 0 {
		return dErrors.New(dErrors.CodeValidation, "speed must not be negative")
	}
	return nil
}
