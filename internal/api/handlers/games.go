package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/grantgg11/gamegrinding/internal/controllers"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/sirupsen/logrus"
)

// GamesHandler handles collection listing and manual game entry
type GamesHandler struct {
	collection *controllers.CollectionController
	logger     *logrus.Logger
}

// NewGamesHandler creates a new games handler
func NewGamesHandler(collection *controllers.CollectionController, logger *logrus.Logger) *GamesHandler {
	return &GamesHandler{
		collection: collection,
		logger:     logger,
	}
}

// ServeHTTP dispatches list and add requests for /api/games
func (h *GamesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.add(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *GamesHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	opts := controllers.ListOptions{
		SortBy:     models.SortField(r.URL.Query().Get("sort")),
		Genre:      r.URL.Query().Get("genre"),
		Platform:   r.URL.Query().Get("platform"),
		Status:     models.CompletionStatus(r.URL.Query().Get("status")),
		TitleQuery: r.URL.Query().Get("title"),
	}

	games, err := h.collection.ListGames(userID, opts)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list games")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// AddGameRequest is the manual entry payload
type AddGameRequest struct {
	UserID uint64      `json:"user_id"`
	Game   models.Game `json:"game"`
}

func (h *GamesHandler) add(w http.ResponseWriter, r *http.Request) {
	var req AddGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := h.collection.AddGame(req.UserID, &req.Game); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(req.Game)
}
