package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Yathushan/coldsweat/internal/coldsweat"
	cserrs "github.com/Yathushan/coldsweat/internal/errors"
)

const sessionCookieName = "coldsweat_session"

// sessionToken pulls the raw session key out of the request's cookie.
func (s *Server) sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return ""
	}
	if err != nil {
		slog.Error("error fetching cookie", "err", err)
		return ""
	}

	var token string
	if err := s.secureCookie.Decode(sessionCookieName, cookie.Value, &token); err != nil {
		slog.Error("error decoding cookie", "err", err)
		return ""
	}

	return token
}

// setSessionToken writes (or, with an empty token, clears) the session
// cookie.
func (s *Server) setSessionToken(w http.ResponseWriter, token string) {
	encoded, err := s.secureCookie.Encode(sessionCookieName, token)
	if err != nil {
		slog.Error("error encoding cookie", "err", err)
		return
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    encoded,
		Path:     "/",
		Secure:   s.httpsCookies,
		HttpOnly: true,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResp struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (s *Server) postLogin(w http.ResponseWriter, r *http.Request) error {
	var body LoginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return cserrs.E(err, http.StatusBadRequest)
	}
	if body.Username == "" || body.Password == "" {
		return cserrs.E("username and password are required", http.StatusBadRequest)
	}

	// Credential validation is a digest compare; a missing user and a wrong
	// password answer identically.
	usr, err := s.repo.UserByUsername(r.Context(), body.Username)
	if errors.Is(err, coldsweat.ErrNotFound) || (err == nil && !usr.CheckPassword(body.Password)) {
		return cserrs.E("invalid credentials", http.StatusUnauthorized)
	}
	if err != nil {
		return err
	}

	sess, err := s.repo.CreateSession(r.Context(), usr.ID, s.sessionTTL)
	if err != nil {
		return err
	}
	s.setSessionToken(w, sess.Key)

	return writeJSON(w, http.StatusOK, LoginResp{UserID: usr.ID, Username: usr.Username})
}

func (s *Server) getLogout(w http.ResponseWriter, r *http.Request) error {
	if token := s.sessionToken(r); token != "" {
		if err := s.repo.DeleteSession(r.Context(), token); err != nil {
			slog.Error("error deleting session", "err", err)
		}
	}
	s.setSessionToken(w, "")

	return writeJSON(w, http.StatusOK, struct{}{})
}
