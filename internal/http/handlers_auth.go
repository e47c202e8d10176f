package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse deliberately omits the credential secret.
type loginResponse struct {
	Message string    `json:"message"`
	User    userEntry `json:"user"`
}

type userEntry struct {
	ID    int64  `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	req.Name = sanitizeInput(req.Name)
	req.Email = sanitizeInput(req.Email)

	if req.Name == "" {
		respondError(w, r, core.Invalid("name", "required"))
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, r, core.Invalid("email", "must be a valid email address"))
		return
	}
	if req.Password == "" {
		respondError(w, r, core.Invalid("password", "required"))
		return
	}

	id, err := s.ledger.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", id, "email", req.Email)
	respondJSON(w, http.StatusCreated, idBody{ID: id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	req.Email = sanitizeInput(req.Email)

	if req.Email == "" {
		respondError(w, r, core.Invalid("email", "required"))
		return
	}
	if req.Password == "" {
		respondError(w, r, core.Invalid("password", "required"))
		return
	}

	u, err := s.ledger.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, core.ErrNotFound) {
		// Bad credentials are not a missing resource to this endpoint.
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid email or password"})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Message: "login successful",
		User:    userEntry{ID: u.ID, Name: u.Name, Email: u.Email},
	})
}
