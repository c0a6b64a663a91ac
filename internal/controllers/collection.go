package controllers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/grantgg11/gamegrinding/internal/services/mobygames"
	"github.com/sirupsen/logrus"
)

// ListOptions controls sorting and filtering of a collection listing. Zero
// values mean "no filter"; the default sort is by title.
type ListOptions struct {
	SortBy     models.SortField
	Genre      string
	Platform   string
	Status     models.CompletionStatus
	TitleQuery string
}

// CollectionController manages a user's game collection and the metadata
// search that feeds it
type CollectionController struct {
	db       *models.Database
	metadata *mobygames.Service
	logger   *logrus.Logger
}

// NewCollectionController creates a new collection controller
func NewCollectionController(db *models.Database, metadata *mobygames.Service, logger *logrus.Logger) *CollectionController {
	return &CollectionController{
		db:       db,
		metadata: metadata,
		logger:   logger,
	}
}

// SearchMetadata runs a MobyGames title search and returns candidate games
func (c *CollectionController) SearchMetadata(ctx context.Context, userID uint64, query string) ([]mobygames.CandidateGame, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	return c.metadata.SearchByTitle(ctx, userID, query)
}

// AddGame adds a manually entered game to the collection
func (c *CollectionController) AddGame(userID uint64, game *models.Game) error {
	if strings.TrimSpace(game.Title) == "" {
		return fmt.Errorf("game title must not be empty")
	}

	game.UserID = userID
	if game.CompletionStatus == "" {
		game.CompletionStatus = models.StatusNotStarted
	}

	if err := c.db.CreateGame(game); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"title":   game.Title,
	}).Info("Game added to collection")
	return nil
}

// AddCandidate persists a candidate produced by the search pipeline
func (c *CollectionController) AddCandidate(userID uint64, candidate mobygames.CandidateGame) (*models.Game, error) {
	game := &models.Game{
		UserID:           userID,
		MobyID:           candidate.MobyID,
		Title:            candidate.Title,
		Developer:        candidate.Developer,
		Publisher:        candidate.Publisher,
		ReleaseDate:      candidate.ReleaseDate,
		Genre:            candidate.Genre,
		Platforms:        candidate.Platforms,
		CompletionStatus: candidate.CompletionStatus,
		Notes:            candidate.Notes,
		CoverURL:         candidate.CoverURL,
	}
	if game.CompletionStatus == "" {
		game.CompletionStatus = models.StatusNotStarted
	}

	if err := c.db.CreateGame(game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"moby_id": candidate.MobyID,
		"title":   game.Title,
	}).Info("Candidate added to collection")
	return game, nil
}

// ListGames returns the user's collection, filtered and sorted
func (c *CollectionController) ListGames(userID uint64, opts ListOptions) ([]*models.Game, error) {
	games, err := c.db.GetGamesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}

	filtered := games[:0]
	titleQuery := strings.ToLower(strings.TrimSpace(opts.TitleQuery))
	for _, game := range games {
		if opts.Genre != "" && !strings.EqualFold(game.Genre, opts.Genre) {
			continue
		}
		if opts.Platform != "" && !containsPlatform(game.Platforms, opts.Platform) {
			continue
		}
		if opts.Status != "" && game.CompletionStatus != opts.Status {
			continue
		}
		if titleQuery != "" && !strings.Contains(strings.ToLower(game.Title), titleQuery) {
			continue
		}
		filtered = append(filtered, game)
	}

	sortGames(filtered, opts.SortBy)
	return filtered, nil
}

// UpdateStatus changes a game's completion status
func (c *CollectionController) UpdateStatus(gameID uint64, status models.CompletionStatus) error {
	switch status {
	case models.StatusNotStarted, models.StatusInProgress, models.StatusCompleted:
	default:
		return fmt.Errorf("unknown completion status %q", status)
	}

	game, err := c.db.GetGameByID(gameID)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}

	game.CompletionStatus = status
	if err := c.db.UpdateGame(game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// UpdateNotes replaces a game's notes
func (c *CollectionController) UpdateNotes(gameID uint64, notes string) error {
	game, err := c.db.GetGameByID(gameID)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}

	game.Notes = notes
	if err := c.db.UpdateGame(game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

// RemoveGame deletes a game from the collection
func (c *CollectionController) RemoveGame(gameID uint64) error {
	if err := c.db.DeleteGame(gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

func containsPlatform(platforms, wanted string) bool {
	wanted = strings.TrimSpace(wanted)
	for _, name := range strings.Split(platforms, ",") {
		if strings.EqualFold(strings.TrimSpace(name), wanted) {
			return true
		}
	}
	return false
}

func sortGames(games []*models.Game, field models.SortField) {
	switch field {
	case models.SortByReleaseDate:
		sort.SliceStable(games, func(i, j int) bool {
			// Games without a release date sort last
			if games[i].ReleaseDate == nil {
				return false
			}
			if games[j].ReleaseDate == nil {
				return true
			}
			return games[i].ReleaseDate.Before(*games[j].ReleaseDate)
		})
	case models.SortByPlatform:
		sort.SliceStable(games, func(i, j int) bool {
			return strings.ToLower(games[i].Platforms) < strings.ToLower(games[j].Platforms)
		})
	default:
		sort.SliceStable(games, func(i, j int) bool {
			return strings.ToLower(games[i].Title) < strings.ToLower(games[j].Title)
		})
	}
}
