package mobygames

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/grantgg11/gamegrinding/internal/alert"
	"github.com/grantgg11/gamegrinding/internal/config"
	"github.com/grantgg11/gamegrinding/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI emulates the MobyGames endpoints with canned JSON bodies and tracks
// call counts plus the peak number of simultaneous detail-level requests.
type fakeAPI struct {
	search          string
	games           map[string]string
	platformLists   map[string]string
	platformDetails map[string]string
	detailDelay     time.Duration

	mu          sync.Mutex
	calls       map[string]int
	inFlight    int
	maxInFlight int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[r.URL.Path]++
	search := f.search
	f.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 1 {
		// Title search
		io.WriteString(w, search)
		return
	}

	// Detail-level request: game detail, platform list or platform detail
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.detailDelay > 0 {
		time.Sleep(f.detailDelay)
	}

	var body string
	var ok bool
	switch {
	case len(parts) == 2:
		body, ok = f.games[parts[1]]
	case len(parts) == 3 && parts[2] == "platforms":
		body, ok = f.platformLists[parts[1]]
	case len(parts) == 4 && parts[2] == "platforms":
		body, ok = f.platformDetails[parts[3]]
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	io.WriteString(w, body)
}

func (f *fakeAPI) setSearch(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.search = body
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) countSuffix(suffix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for path, n := range f.calls {
		if strings.HasSuffix(path, suffix) {
			total += n
		}
	}
	return total
}

func (f *fakeAPI) maxConcurrent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// logSink collects API request log entries in memory.
type logSink struct {
	mu      sync.Mutex
	entries []models.APIRequestLog
}

func (s *logSink) LogRequest(entry models.APIRequestLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *logSink) Entries() []models.APIRequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.APIRequestLog, len(s.entries))
	copy(out, s.entries)
	return out
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(t *testing.T, baseURL string, sink *logSink) (*Service, *alert.Recorder) {
	t.Helper()

	cfg := &config.Config{
		MobyGamesURL:    baseURL,
		MobyGamesAPIKey: "test-key",
		RequestInterval: time.Millisecond,
	}
	client, err := NewClient(cfg, sink, testLogger())
	require.NoError(t, err)

	recorder := alert.NewRecorder()
	return NewService(client, recorder, testLogger()), recorder
}

const gameBoyPlatformDetail = `{
	"platform_id": 7,
	"platform_name": "Game Boy",
	"first_release_date": "1989-06-14",
	"releases": [
		{"companies": [
			{"company_name": "Nintendo R&D1", "role": "Developed by"},
			{"company_name": "Nintendo", "role": "Published by"}
		]}
	]
}`

func tetrisFixture() *fakeAPI {
	return &fakeAPI{
		search: `{"games": [
			{"game_id": 100, "title": "Tetris"},
			{"game_id": 100, "title": "Tetris"},
			{"game_id": 200, "title": "Tetris 2"}
		]}`,
		games: map[string]string{
			"100": `{"game_id": 100, "title": "Tetris", "genres": [{"genre_name": "Puzzle"}], "sample_cover": {"image": "https://example.com/tetris.jpg"}}`,
			"200": `{"game_id": 200, "title": "Tetris 2", "genres": [{"genre_name": "Puzzle"}]}`,
		},
		platformLists: map[string]string{
			"100": `{"platforms": [{"platform_id": 7, "platform_name": "Game Boy", "first_release_date": "1989"}]}`,
			"200": `{"platforms": [{"platform_id": 7, "platform_name": "Game Boy", "first_release_date": "1993"}]}`,
		},
		platformDetails: map[string]string{
			"7": gameBoyPlatformDetail,
		},
	}
}

func TestSearchByTitleDeduplicatesByGameID(t *testing.T) {
	fake := tetrisFixture()
	server := httptest.NewServer(fake)
	defer server.Close()

	service, recorder := newTestService(t, server.URL, &logSink{})

	candidates, err := service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)

	require.Len(t, candidates, 2)
	assert.Equal(t, 100, candidates[0].MobyID)
	assert.Equal(t, 200, candidates[1].MobyID)
	assert.Empty(t, recorder.Alerts())

	// Deduplicated before fetching: one detail fetch per unique ID
	assert.Equal(t, 1, fake.count("/games/100"))
	assert.Equal(t, 1, fake.count("/games/200"))
}

func TestSearchByTitleAssemblesCandidates(t *testing.T) {
	server := httptest.NewServer(tetrisFixture())
	defer server.Close()

	service, _ := newTestService(t, server.URL, &logSink{})

	candidates, err := service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	tetris := candidates[0]
	assert.Equal(t, "Tetris", tetris.Title)
	assert.Equal(t, "Nintendo R&D1", tetris.Developer)
	assert.Equal(t, "Nintendo", tetris.Publisher)
	assert.Equal(t, "Puzzle", tetris.Genre)
	assert.Equal(t, "Game Boy", tetris.Platforms)
	assert.Equal(t, "https://example.com/tetris.jpg", tetris.CoverURL)
	assert.Equal(t, models.StatusNotStarted, tetris.CompletionStatus)
	require.NotNil(t, tetris.ReleaseDate)
	assert.Equal(t, time.Date(1989, time.June, 14, 0, 0, 0, 0, time.UTC), *tetris.ReleaseDate)
}

func TestSearchByTitleTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // every call now fails at the transport level

	sink := &logSink{}
	service, recorder := newTestService(t, server.URL, sink)

	before := time.Now()
	candidates, err := service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)
	assert.Empty(t, candidates)

	alerts := recorder.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.CategoryAPIError, alerts[0].Category)
	// The alert must reach the user promptly; it gates responsiveness
	assert.Less(t, alerts[0].RaisedAt.Sub(before), time.Second)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.RequestFailed, entries[0].Status)
	assert.Equal(t, "API_REQUEST_FAILED", entries[0].ErrorCode)
}

func TestSearchByTitleParseFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>definitely not json</html>`)
	}))
	defer server.Close()

	service, recorder := newTestService(t, server.URL, &logSink{})

	candidates, err := service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)
	assert.Empty(t, candidates)

	alerts := recorder.Alerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.CategoryParsing, alerts[0].Category)
}

func TestSearchByTitleDetailConcurrencyBound(t *testing.T) {
	fake := &fakeAPI{
		search:          `{"games": [` + searchEntries(6) + `]}`,
		games:           map[string]string{},
		platformLists:   map[string]string{},
		platformDetails: map[string]string{"7": gameBoyPlatformDetail},
		detailDelay:     30 * time.Millisecond,
	}
	for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
		fake.games[id] = `{"game_id": ` + id + `, "title": "Game ` + id + `"}`
		fake.platformLists[id] = `{"platforms": [{"platform_id": 7, "platform_name": "Game Boy", "first_release_date": "1989"}]}`
	}

	server := httptest.NewServer(fake)
	defer server.Close()

	service, _ := newTestService(t, server.URL, &logSink{})

	candidates, err := service.SearchByTitle(context.Background(), 1, "game")
	require.NoError(t, err)
	assert.Len(t, candidates, 6)

	assert.LessOrEqual(t, fake.maxConcurrent(), 2,
		"detail-level fetches must never exceed the in-flight cap")
}

func TestPlatformDetailFetchedOnceAcrossSearches(t *testing.T) {
	fake := tetrisFixture()
	// One game per search so cache misses cannot race; both games sit on
	// platform 7.
	fake.setSearch(`{"games": [{"game_id": 100, "title": "Tetris"}]}`)
	server := httptest.NewServer(fake)
	defer server.Close()

	service, _ := newTestService(t, server.URL, &logSink{})

	_, err := service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)

	fake.setSearch(`{"games": [{"game_id": 200, "title": "Tetris 2"}]}`)
	_, err = service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)

	// The second game resolves platform 7 from cache.
	assert.Equal(t, 1, fake.countSuffix("/platforms/7"))

	// Game detail records are likewise cached per game ID.
	assert.Equal(t, 1, fake.count("/games/100"))
	assert.Equal(t, 1, fake.count("/games/200"))

	// The search endpoint itself is not cached.
	assert.Equal(t, 2, fake.count("/games"))

	// A repeated search for a cached game skips its detail fetch entirely.
	fake.setSearch(`{"games": [{"game_id": 100, "title": "Tetris"}]}`)
	candidates, err := service.SearchByTitle(context.Background(), 1, "Tetris")
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Tetris", candidates[0].Title)
	assert.Equal(t, 1, fake.count("/games/100"))
}

func TestRequestLogMasksAPIKey(t *testing.T) {
	fake := tetrisFixture()
	server := httptest.NewServer(fake)
	defer server.Close()

	sink := &logSink{}
	service, _ := newTestService(t, server.URL, sink)

	_, err := service.SearchByTitle(context.Background(), 42, "Tetris")
	require.NoError(t, err)

	entries := sink.Entries()
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.NotContains(t, entry.URL, "test-key")
		assert.Contains(t, entry.URL, "api_key=REDACTED")
		assert.Equal(t, uint64(42), entry.UserID)
		assert.Equal(t, models.RequestSuccess, entry.Status)
		assert.Empty(t, entry.ErrorCode)
		assert.GreaterOrEqual(t, entry.ElapsedMS, int64(0))
	}
}

func searchEntries(n int) string {
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := []byte{byte('0' + i)}
		parts = append(parts, `{"game_id": `+string(id)+`, "title": "Game `+string(id)+`"}`)
	}
	return strings.Join(parts, ",")
}
