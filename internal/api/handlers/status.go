package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	Users         int      `json:"users"`
	Games         int      `json:"games"`
	RequestLogs   int      `json:"request_logs"`
	OrphanedGames []uint64 `json:"orphaned_games,omitempty"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.db.CheckIntegrity()
	if err != nil {
		h.logger.WithError(err).Error("Failed to check store integrity")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		Users:         report.Users,
		Games:         report.Games,
		RequestLogs:   report.RequestLogs,
		OrphanedGames: report.OrphanedGames,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
