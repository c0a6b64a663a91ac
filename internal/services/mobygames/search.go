package mobygames

import (
	"context"
	"errors"
	"sync"

	"github.com/grantgg11/gamegrinding/internal/alert"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

const (
	// workerCount is the fixed size of the per-game fetch pool.
	workerCount = 3
	// maxInFlightFetches caps simultaneous detail-level API fetches. With the
	// pool above, effective network concurrency is min(workerCount, this) = 2.
	maxInFlightFetches = 2
)

// Service is the metadata retrieval pipeline: one client, one limiter and the
// two response caches, injected rather than process-global so independent
// instances can coexist and tests stay isolated.
type Service struct {
	client    *Client
	cache     *responseCache
	detailSem *semaphore.Weighted
	alerter   alert.Alerter
	logger    *logrus.Logger
}

// NewService creates a new metadata service
func NewService(client *Client, alerter alert.Alerter, logger *logrus.Logger) *Service {
	return &Service{
		client:    client,
		cache:     newResponseCache(),
		detailSem: semaphore.NewWeighted(maxInFlightFetches),
		alerter:   alerter,
		logger:    logger,
	}
}

// taskResult is the structured outcome of one per-game fetch task, so "fetch
// failed" stays distinguishable from "no data" even though failed tasks are
// excluded from the output today.
type taskResult struct {
	candidate CandidateGame
	err       error
}

// SearchByTitle searches MobyGames for the query and assembles one candidate
// per unique game ID. Failures never abort the batch: a transport or parse
// failure on the search request yields an empty list plus one alert, and a
// failed per-game task is logged and dropped. Output order follows submission
// order, which is response order after deduplication.
func (s *Service) SearchByTitle(ctx context.Context, userID uint64, query string) ([]CandidateGame, error) {
	records, err := s.client.SearchGames(ctx, userID, query)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"query": query,
		}).WithError(err).Error("Game search failed")

		if errors.Is(err, ErrDecode) {
			s.alerter.Raise(alert.CategoryParsing, "The search response could not be read. The API may have changed; try again later.")
		} else {
			s.alerter.Raise(alert.CategoryAPIError, "Could not reach MobyGames. Check your network connection and API key.")
		}
		return []CandidateGame{}, nil
	}

	// Deduplicate by game ID, first occurrence wins.
	seen := make(map[int]struct{}, len(records))
	unique := make([]GameRecord, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.GameID]; ok {
			continue
		}
		seen[record.GameID] = struct{}{}
		unique = append(unique, record)
	}

	s.logger.WithFields(logrus.Fields{
		"query":  query,
		"total":  len(records),
		"unique": len(unique),
	}).Debug("Search results received")

	results := make([]taskResult, len(unique))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.buildCandidate(ctx, userID, unique[idx])
			}
		}()
	}

	for idx := range unique {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	candidates := make([]CandidateGame, 0, len(unique))
	for idx, result := range results {
		if result.err != nil {
			s.logger.WithFields(logrus.Fields{
				"game_id": unique[idx].GameID,
				"title":   unique[idx].Title,
			}).WithError(result.err).Warn("Skipping game after fetch failure")
			continue
		}
		candidates = append(candidates, result.candidate)
	}

	s.logger.WithFields(logrus.Fields{
		"query":      query,
		"candidates": len(candidates),
	}).Info("Search completed")

	return candidates, nil
}

// buildCandidate resolves one game end to end: detail record (cached per game
// ID for the process lifetime), platform metadata, then assembly. The detail
// fetch and platform resolution count against the in-flight cap.
func (s *Service) buildCandidate(ctx context.Context, userID uint64, record GameRecord) taskResult {
	if err := s.detailSem.Acquire(ctx, 1); err != nil {
		return taskResult{err: err}
	}
	defer s.detailSem.Release(1)

	if cached, ok := s.cache.getGame(record.GameID); ok {
		return taskResult{candidate: assembleCandidate(cached, s.resolvePlatforms(ctx, userID, record.GameID))}
	}

	detail, err := s.client.GetGame(ctx, userID, record.GameID)
	if err != nil {
		return taskResult{err: err}
	}
	s.cache.setGame(record.GameID, detail)

	return taskResult{candidate: assembleCandidate(detail, s.resolvePlatforms(ctx, userID, record.GameID))}
}
