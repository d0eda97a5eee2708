package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/htfilia/tradingboard/internal/auth"
)

// AuthServer exposes the register/login/logout endpoints of spec §6.
type AuthServer struct {
	auth   *auth.Service
	cookie CookieConfig
}

// NewAuthServer wraps an auth.Service behind the configured cookie.
func NewAuthServer(svc *auth.Service, cookie CookieConfig) *AuthServer {
	return &AuthServer{auth: svc, cookie: cookie}
}

// Register attaches /auth/* routes to mux.
func (s *AuthServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister implements POST /auth/register: 201 + cookie, or 409 on
// a duplicate normalized email.
func (s *AuthServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	sess, err := s.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserAlreadyExists):
			writeError(w, http.StatusConflict, "user already exists")
		case errors.Is(err, auth.ErrInvalidEmail):
			writeError(w, http.StatusUnprocessableEntity, "invalid email")
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	http.SetCookie(w, s.cookie.cookie(sess.Token, s.cookie.SessionTTL))
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": sess.UserID})
}

// handleLogin implements POST /auth/login: 200 + cookie, or 401 on
// invalid credentials (email-not-found and bad-password are
// indistinguishable, per spec §4.7).
func (s *AuthServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "malformed request body")
		return
	}

	sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	http.SetCookie(w, s.cookie.cookie(sess.Token, s.cookie.SessionTTL))
	writeJSON(w, http.StatusOK, map[string]string{"user_id": sess.UserID})
}

// handleLogout implements POST /auth/logout: always 204, clearing the
// cookie regardless of whether a session was present.
func (s *AuthServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(s.cookie.Name)
	if err == nil && c.Value != "" {
		s.auth.Logout(r.Context(), c.Value)
	}
	http.SetCookie(w, s.cookie.cookie("", -time.Second))
	w.WriteHeader(http.StatusNoContent)
}
