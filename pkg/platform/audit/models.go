package audit

import (
	"context"
	"time"

	id "fleetops/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and Kafka routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: reports
	// generated for a driver and violations found in them. Long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity such as ingestion batches and
	// predictive alerts. These can be sampled with shorter retention.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        id.EventID
	Category  EventCategory
	Timestamp time.Time
	DriverID  id.DriverID
	Action    string
	ReportID  string
	Period    string
	State     string // compliance state or alert severity
	Reason    string
	Score     int
	RequestID string
	// ActorID is the authenticated caller that triggered the action, if any.
	ActorID string
}

type AuditEvent string

const (
	EventActivitiesRecorded   AuditEvent = "activities_recorded"
	EventReportGenerated      AuditEvent = "report_generated"
	EventFleetReportGenerated AuditEvent = "fleet_report_generated"
	EventViolationDetected    AuditEvent = "violation_detected"
	EventAlertRaised          AuditEvent = "alert_raised"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventReportGenerated:      CategoryCompliance,
	EventFleetReportGenerated: CategoryCompliance,
	EventViolationDetected:    CategoryCompliance,

	EventActivitiesRecorded: CategoryOperations,
	EventAlertRaised:        CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// ComplianceEvent captures regulatory-significant actions requiring guaranteed persistence.
// Use with the compliance publisher for fail-closed semantics.
type ComplianceEvent struct {
	Timestamp time.Time   // set automatically if zero
	DriverID  id.DriverID // required
	Action    AuditEvent  // required
	ReportID  string
	Period    string
	State     string
	Reason    string
	Score     int
	RequestID string
	ActorID   string
}

// ToEvent converts to the generic Event stored in the outbox.
func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:  e.Action.Category(),
		Timestamp: e.Timestamp,
		DriverID:  e.DriverID,
		Action:    string(e.Action),
		ReportID:  e.ReportID,
		Period:    e.Period,
		State:     e.State,
		Reason:    e.Reason,
		Score:     e.Score,
		RequestID: e.RequestID,
		ActorID:   e.ActorID,
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDriver(ctx context.Context, driverID id.DriverID) ([]Event, error)
}
