package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/lulu/internal/common"
	"github.com/dmitrijs2005/lulu/internal/server/users"
)

// maxBody bounds the credential payload.
const maxBody = 1 << 20

const (
	msgUserExists         = "Username already exists"
	msgInvalidCredentials = "Invalid username or password"
	msgFieldsRequired     = "username and password are required"
	msgInputRequired      = "user_input is required"
	msgInternal           = "Internal server error"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the API!"})
}

func (s *HTTPServer) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "malformed request body")
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, msgFieldsRequired)
		return req, false
	}
	return req, true
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := s.users.Register(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusBadRequest, msgUserExists)
		return
	case errors.Is(err, users.ErrPasswordTooLong):
		writeDetail(w, http.StatusBadRequest, "Password is too long")
		return
	default:
		s.logger.Error(r.Context(), "registration failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.UserName)
	writeJSON(w, http.StatusOK, authResponse{UserID: user.ID, Username: user.UserName})
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	res, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeDetail(w, http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		UserID:      res.User.ID,
		Username:    res.User.UserName,
		AccessToken: res.AccessToken,
	})
}

func (s *HTTPServer) handleInvoke(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("user_input")
	if strings.TrimSpace(input) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, msgInputRequired)
		return
	}

	reply, err := s.responder.Respond(r.Context(), userIDFrom(r.Context()), input)
	if err != nil {
		s.logger.Error(r.Context(), "responder failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(reply))
}
