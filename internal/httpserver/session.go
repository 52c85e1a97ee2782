// internal/httpserver/session.go
//
// Session tokens binding a client to one in-memory game.
//
// A token is an HS256 JWT carrying the game ID in the "gid" claim. It is
// returned by POST /game/new, set as an HttpOnly cookie, and accepted back
// from an Authorization bearer header, the cookie, or a ?token= query
// parameter (for WebSocket clients that cannot set headers).

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "wordle_session"

var errInvalidSession = errors.New("invalid session")

// gameIDKey is the context key type for the session's game ID.
type gameIDKey struct{}

// signSession creates a token for gameID expiring after the configured TTL.
func (s *Server) signSession(gameID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": gameID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.opts.Secret))
	return ss, exp, err
}

// parseSession validates a token and returns its game ID.
func (s *Server) parseSession(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errInvalidSession
	}
	gid, _ := claims["gid"].(string)
	if gid == "" {
		return "", errInvalidSession
	}
	return gid, nil
}

// requireSession enforces a valid token and injects the game ID into the
// request context.
func (s *Server) requireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrCookie(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "no_session")
				return
			}
			gid, err := s.parseSession(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_session")
				return
			}
			ctx := context.WithValue(r.Context(), gameIDKey{}, gid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionGameID returns the game ID placed by requireSession.
func sessionGameID(r *http.Request) string {
	id, _ := r.Context().Value(gameIDKey{}).(string)
	return id
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// clearSessionCookie deletes the session cookie.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a token from the Authorization header, the
// session cookie, or the token query parameter, in that order.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}
