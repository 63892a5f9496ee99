// internal/httpserver/session.go
//
// Game sessions.
//   - POST /game/new creates a KSUID session ID and signs it into an HS256 JWT
//     (claim "sid"). The token is returned in the body and set as a cookie.
//   - requireSession accepts the token as "Authorization: Bearer" or cookie and
//     injects the session ID into the request context.
//   - lockSession holds the session lock for the rest of the request.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

const (
	sessionCookieName = "wordle_session"
	sessionTTL        = 7 * 24 * time.Hour
)

// ctxSessionKey is the context key type for the session ID.
type ctxSessionKey struct{}

// newSessionID returns a time-ordered, URL-safe session identifier.
func newSessionID() string {
	return ksuid.New().String()
}

// signSession creates an HS256 JWT carrying the session ID.
func signSession(secret, sid string, now time.Time) (string, time.Time, error) {
	exp := now.Add(sessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(secret))
	return ss, exp, err
}

// parseSession validates a token and returns its session ID.
func parseSession(secret, token string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !t.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if _, err := ksuid.Parse(sid); err != nil {
		return "", errors.New("invalid session id")
	}
	return sid, nil
}

// setSessionCookie writes the session token cookie.
func setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireSession enforces a valid session token.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		sid, err := parseSession(s.opts.Config.JWTSecret, tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// lockSession serializes requests on one session. Giving up while waiting
// (timeout, client gone) answers 503.
func (s *Server) lockSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unlock, err := s.opts.Sessions.Lock(r.Context(), sessionID(r))
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "session_busy")
			return
		}
		defer unlock()
		next.ServeHTTP(w, r)
	})
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(ctxSessionKey{}).(string)
	return sid
}
