package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/bardclash/versebattle/internal/battle"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "BardClash Battle API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Matchmaking and battle-session API for verse battles. Live matches run over the /ws WebSocket endpoint.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/ws")
	getWS.SetSummary("Battle session WebSocket")
	getWS.SetDescription("Upgrades to the per-match WebSocket session. Authenticate with the token query parameter.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// POST /api/queue
	postQueue, _ := r.NewOperationContext(http.MethodPost, "/api/queue")
	postQueue.SetSummary("Join the matchmaking queue")
	postQueue.SetDescription("Blocks until paired with an opponent or the wait times out. Requires Bearer token.")
	postQueue.AddRespStructure(QueueResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postQueue.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postQueue)

	// GET /api/rooms
	getRooms, _ := r.NewOperationContext(http.MethodGet, "/api/rooms")
	getRooms.SetSummary("List active rooms")
	getRooms.AddRespStructure([]battle.RoomInfo{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getRooms)

	// POST /api/rooms
	postRooms, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRooms.SetSummary("Create a private room")
	postRooms.SetDescription("Creates a challenge-a-friend room and seats the creator. The token is shareable.")
	postRooms.AddReqStructure(CreateRoomRequest{})
	postRooms.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRooms.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRooms)

	// POST /api/rooms/{token}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{token}/join")
	postJoin.SetSummary("Join a private room")
	postJoin.AddRespStructure(JoinRoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postJoin)

	// POST /api/report
	postReport, _ := r.NewOperationContext(http.MethodPost, "/api/report")
	postReport.SetSummary("Report room content")
	postReport.AddReqStructure(ReportRequest{})
	postReport.AddRespStructure(ReportResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReport.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postReport)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
