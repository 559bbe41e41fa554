package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteReportStore implements ReportStore on the shared sqlite handle.
type SQLiteReportStore struct {
	db *sql.DB
}

func NewSQLiteReportStore(db *sql.DB) *SQLiteReportStore {
	return &SQLiteReportStore{db: db}
}

func (s *SQLiteReportStore) CreateReport(ctx context.Context, reporterID, roomID, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO content_reports (id, reporter_id, room_id, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), reporterID, roomID, reason, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting content report: %w", err)
	}
	return nil
}

func (s *SQLiteReportStore) ListReports(ctx context.Context) ([]ContentReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, reporter_id, room_id, reason, created_at
		 FROM content_reports ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing content reports: %w", err)
	}
	defer rows.Close()

	var reports []ContentReport
	for rows.Next() {
		var rep ContentReport
		var createdAt string
		if err := rows.Scan(&rep.ID, &rep.ReporterID, &rep.RoomID, &rep.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning content report: %w", err)
		}
		rep.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}
