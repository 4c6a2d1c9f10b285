package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sabrisig-create/sadar/internal/auth"
	"github.com/sabrisig-create/sadar/internal/store"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusConflict, "User already registered")
			return
		}
		s.log.Error("signup_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.log.Error("token_issue_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.log.WithUser(user.ID).Info("signup", map[string]any{"email": user.Email})
	writeJSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email},
	})
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		// Same answer for unknown accounts and wrong passwords.
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid login credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.log.Error("token_issue_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.log.WithUser(user.ID).Info("signin", nil)
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email},
	})
}

// Tokens are stateless, so signout only acknowledges; the client drops its
// stored session.
func (s *Server) handleSignout(w http.ResponseWriter, r *http.Request) {
	s.log.WithUser(auth.UserIDFromContext(r.Context())).Info("signout", nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

type resetPasswordRequest struct {
	Email string `json:"email"`
}

// handleResetPassword never reveals whether the account exists. The reset
// itself happens through update-password on an authenticated session.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	s.log.Info("password_reset_requested", map[string]any{"email": req.Email})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the account exists, password reset instructions have been sent",
	})
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	userID := auth.UserIDFromContext(r.Context())
	if err := s.store.UpdatePassword(r.Context(), userID, hash); err != nil {
		s.log.WithUser(userID).Error("password_update_failed", nil, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.log.WithUser(userID).Info("password_updated", nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
