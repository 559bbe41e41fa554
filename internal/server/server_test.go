package server

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bardclash/versebattle/internal/battle"
	"github.com/bardclash/versebattle/internal/database"
	"github.com/bardclash/versebattle/internal/judge"
	"github.com/bardclash/versebattle/internal/migrations"
)

const testSecret = "test-secret"

// testDeps builds a full dependency set: in-memory sqlite for reports
// and a judge with no API key, so every round resolves via the fallback
// scorer without touching the network.
func testDeps(t *testing.T) Deps {
	t.Helper()

	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := slog.Default()
	rooms := battle.NewRegistry(logger)

	return Deps{
		Rooms:      rooms,
		Queue:      battle.NewQueue(rooms),
		Judge:      judge.New(judge.Config{Timeout: time.Second}, logger),
		Reports:    NewSQLiteReportStore(db),
		Auth:       NewAuth(testSecret),
		DB:         db,
		MatchWait:  time.Second,
		ServiceKey: "bracket-key",
	}
}

func testRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	addRoutes(r, slog.Default(), deps)
	return r
}

// signToken mints a session token the way the identity service does.
func signToken(t *testing.T, id, name string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Username: name,
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}
