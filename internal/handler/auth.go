package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fittrack/internal/logger"
	"github.com/fittrack/internal/middleware"
	"github.com/fittrack/internal/model"
	"github.com/fittrack/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if err := h.authSvc.SignUp(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		logger.Errorf("signup failed for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "User created successfully"})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string           `json:"message"`
	Token   string           `json:"token"`
	User    model.UserPublic `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	tok, user, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		if errors.Is(err, service.ErrSessionConflict) {
			writeError(w, http.StatusForbidden, "User already logged in")
			return
		}
		logger.Errorf("login failed for %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		Token:   tok,
		User:    *user,
	})
}

type LogoutRequest struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.authSvc.Logout(r.Context(), req.Token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		logger.Errorf("logout: token=%s: %v", middleware.MaskToken(req.Token), err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout successful"})
}

type ProtectedResponse struct {
	Message string           `json:"message"`
	User    model.UserPublic `json:"user"`
}

// Protected sits behind middleware.RequireSession and echoes the
// authenticated user.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Session expired")
		return
	}
	user, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		logger.Errorf("protected: load user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, ProtectedResponse{
		Message: "Access granted",
		User:    *user,
	})
}
