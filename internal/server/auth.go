package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Player is the authenticated identity attached to a request. The
// account service issues the tokens; this core only verifies them.
type Player struct {
	ID   string
	Name string
}

var errNoSession = errors.New("no valid session")

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Auth verifies HS256 tokens minted by the identity service.
type Auth struct {
	secret []byte
}

func NewAuth(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

func (a *Auth) Verify(token string) (Player, error) {
	if token == "" {
		return Player{}, errNoSession
	}

	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Player{}, errNoSession
	}
	if c.Subject == "" || c.Username == "" {
		return Player{}, errNoSession
	}
	return Player{ID: c.Subject, Name: c.Username}, nil
}

type ctxKey int

const ctxKeyPlayer ctxKey = iota

func requireAuth(auth *Auth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			player, err := auth.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or missing session token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPlayer, player)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func playerFrom(r *http.Request) Player {
	return r.Context().Value(ctxKeyPlayer).(Player)
}
