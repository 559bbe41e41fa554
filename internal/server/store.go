package server

import (
	"context"
	"time"
)

// ContentReport is a stored complaint about a room's content.
type ContentReport struct {
	ID         string
	ReporterID string
	RoomID     string
	Reason     string
	CreatedAt  time.Time
}

// ReportStore persists content reports for human review.
type ReportStore interface {
	CreateReport(ctx context.Context, reporterID, roomID, reason string) error
	ListReports(ctx context.Context) ([]ContentReport, error)
}
