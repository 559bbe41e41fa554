package server

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/bardclash/versebattle/internal/battle"
	"github.com/bardclash/versebattle/internal/judge"
)

// Deps wires the transport to the battle core and its collaborators.
type Deps struct {
	Rooms   *battle.Registry
	Queue   *battle.Queue
	Judge   *judge.Engine
	Reports ReportStore
	Auth    *Auth
	DB      *sql.DB

	// MatchWait bounds how long a queue request blocks for a pairing.
	MatchWait time.Duration
	// ServiceKey guards the bracket-facing match creation endpoint.
	// Empty disables it.
	ServiceKey string
}

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("BardClash Battle API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, deps.DB))

	// The session transport authenticates via token query parameter
	// since browsers cannot set headers on WebSocket upgrades.
	r.Get("/ws", handleWS(logger, deps))

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth(deps.Auth))
		r.Post("/queue", handleQueue(deps.Queue, deps.MatchWait))
		r.Get("/rooms", handleListRooms(deps.Rooms))
		r.Post("/rooms", handleCreateRoom(deps.Rooms))
		r.Post("/rooms/{token}/join", handleJoinRoom(deps.Rooms))
		r.Post("/report", handleReport(logger, deps.Reports))
	})

	if deps.ServiceKey != "" {
		r.Post("/api/internal/matches", handleCreateMatch(deps.Rooms, deps.ServiceKey))
	}
}
