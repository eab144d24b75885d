// Package domain holds typed identifiers shared across modules.
//
// IDs are parsed once at the trust boundary (handlers, message consumers) and
// passed around as distinct types so a DriverID can never be handed to code
// expecting a ReportID.
package domain

import (
	"github.com/google/uuid"

	dErrors "fleetops/pkg/domain-errors"
)

type (
	DriverID  uuid.UUID
	VehicleID uuid.UUID
	ReportID  uuid.UUID
	EventID   uuid.UUID
)

func (id DriverID) String() string  { return uuid.UUID(id).String() }
func (id VehicleID) String() string { return uuid.UUID(id).String() }
func (id ReportID) String() string  { return uuid.UUID(id).String() }
func (id EventID) String() string   { return uuid.UUID(id).String() }

func (id DriverID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id VehicleID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ReportID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func (id DriverID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id VehicleID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ReportID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id EventID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *DriverID) UnmarshalText(b []byte) error {
	parsed, err := ParseDriverID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *VehicleID) UnmarshalText(b []byte) error {
	parsed, err := ParseVehicleID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ReportID) UnmarshalText(b []byte) error {
	parsed, err := ParseReportID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func NewReportID() ReportID { return ReportID(uuid.New()) }
func NewEventID() EventID   { return EventID(uuid.New()) }

func ParseDriverID(s string) (DriverID, error) {
	u, err := parseUUID(s, "driver ID")
	return DriverID(u), err
}

func ParseVehicleID(s string) (VehicleID, error) {
	u, err := parseUUID(s, "vehicle ID")
	return VehicleID(u), err
}

func ParseReportID(s string) (ReportID, error) {
	u, err := parseUUID(s, "report ID")
	return ReportID(u), err
}

// parseUUID rejects empty, malformed and nil UUIDs.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}
