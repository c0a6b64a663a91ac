package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/grantgg11/gamegrinding/internal/controllers"
	"github.com/sirupsen/logrus"
)

// SearchHandler handles MobyGames metadata searches
type SearchHandler struct {
	collection *controllers.CollectionController
	logger     *logrus.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(collection *controllers.CollectionController, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{
		collection: collection,
		logger:     logger,
	}
}

// ServeHTTP handles GET /api/search?user_id=&title=
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := strconv.ParseUint(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	title := r.URL.Query().Get("title")
	candidates, err := h.collection.SearchMetadata(r.Context(), userID, title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(candidates)
}
