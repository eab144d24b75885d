package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fleetops/internal/compliance/models"
	id "fleetops/pkg/domain"
	"fleetops/pkg/platform/sentinel"
	txcontext "fleetops/pkg/platform/tx"
)

// uniqueViolation is the PostgreSQL SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

// PostgresStore persists reports as JSONB documents. Summary columns are
// duplicated for listing and ad-hoc queries; the body is authoritative.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save inserts the report, joining the transaction carried by ctx if any.
func (s *PostgresStore) Save(ctx context.Context, report models.ComplianceReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	query := `
		INSERT INTO compliance_reports (id, driver_id, period, period_start, period_end, state, score, body, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		report.ID.String(),
		report.DriverID.String(),
		string(report.Period.Type),
		report.Period.Start,
		report.Period.End,
		string(report.Summary.ComplianceState),
		report.Summary.ComplianceScore,
		body,
		report.GeneratedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, reportID id.ReportID) (models.ComplianceReport, error) {
	var body []byte
	err := txcontext.ExecutorFrom(ctx, s.db).
		QueryRowContext(ctx, `SELECT body FROM compliance_reports WHERE id = $1`, reportID.String()).
		Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ComplianceReport{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.ComplianceReport{}, fmt.Errorf("get report: %w", err)
	}
	return decode(body)
}

func (s *PostgresStore) ListByDriver(ctx context.Context, driverID id.DriverID) ([]models.ComplianceReport, error) {
	query := `
		SELECT body
		FROM compliance_reports
		WHERE driver_id = $1
		ORDER BY generated_at DESC
	`
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, driverID.String())
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.ComplianceReport{}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		r, err := decode(body)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

func decode(body []byte) (models.ComplianceReport, error) {
	var r models.ComplianceReport
	if err := json.Unmarshal(body, &r); err != nil {
		return models.ComplianceReport{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}
