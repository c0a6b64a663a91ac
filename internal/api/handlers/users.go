package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grantgg11/gamegrinding/internal/controllers"
	"github.com/sirupsen/logrus"
)

// UsersHandler handles account registration and login
type UsersHandler struct {
	users  *controllers.UserController
	logger *logrus.Logger
}

// NewUsersHandler creates a new users handler
func NewUsersHandler(users *controllers.UserController, logger *logrus.Logger) *UsersHandler {
	return &UsersHandler{
		users:  users,
		logger: logger,
	}
}

// RegisterRequest is the register endpoint payload
type RegisterRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Answers  []string `json:"security_answers"`
}

// LoginRequest is the login endpoint payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is returned on successful register/login
type UserResponse struct {
	UserID uint64 `json:"user_id"`
}

// Register handles POST /api/users/register
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(req.Email, req.Password, req.Answers)
	if err != nil {
		if errors.Is(err, controllers.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UserResponse{UserID: user.ID})
}

// Login handles POST /api/users/login
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, controllers.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.WithError(err).Error("Login failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(UserResponse{UserID: user.ID})
}
