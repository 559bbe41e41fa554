package server

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestReportRoundTrip(t *testing.T) {
	deps := testDeps(t)
	router := testRouter(t, deps)
	token := signToken(t, "p1", "Alice")

	rec := doJSON(t, router, http.MethodPost, "/api/report", token,
		`{"roomId":"room-42","reason":"opponent pasted song lyrics"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	reports, err := deps.Reports.ListReports(context.Background())
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("stored reports = %d, want 1", len(reports))
	}
	got := reports[0]
	if got.ReporterID != "p1" || got.RoomID != "room-42" || got.Reason != "opponent pasted song lyrics" {
		t.Errorf("stored report = %+v", got)
	}
	if got.ID == "" || got.CreatedAt.IsZero() {
		t.Errorf("report missing id or timestamp: %+v", got)
	}
}

func TestReportValidation(t *testing.T) {
	deps := testDeps(t)
	router := testRouter(t, deps)
	token := signToken(t, "p1", "Alice")

	tests := []struct {
		name string
		body string
	}{
		{"empty reason", `{"roomId":"r1","reason":""}`},
		{"whitespace reason", `{"roomId":"r1","reason":"   "}`},
		{"overlong reason", `{"roomId":"r1","reason":"` + strings.Repeat("x", 501) + `"}`},
		{"missing room", `{"reason":"spam"}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/report", token, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}

	reports, err := deps.Reports.ListReports(context.Background())
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("rejected reports were stored: %d", len(reports))
	}
}
