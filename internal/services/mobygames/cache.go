package mobygames

import (
	"strconv"

	gocache "github.com/patrickmn/go-cache"
)

// responseCache holds the last-fetched record per game ID and per platform ID.
// Entries live for the process lifetime; staleness is accepted. A concurrent
// miss on the same ID can cause a duplicate fetch, which is wasteful but
// harmless since entries are idempotent.
type responseCache struct {
	games     *gocache.Cache
	platforms *gocache.Cache
}

func newResponseCache() *responseCache {
	return &responseCache{
		games:     gocache.New(gocache.NoExpiration, 0),
		platforms: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *responseCache) getGame(id int) (GameRecord, bool) {
	value, ok := c.games.Get(strconv.Itoa(id))
	if !ok {
		return GameRecord{}, false
	}
	return value.(GameRecord), true
}

func (c *responseCache) setGame(id int, record GameRecord) {
	c.games.Set(strconv.Itoa(id), record, gocache.NoExpiration)
}

func (c *responseCache) getPlatform(id int) (PlatformDetail, bool) {
	value, ok := c.platforms.Get(strconv.Itoa(id))
	if !ok {
		return PlatformDetail{}, false
	}
	return value.(PlatformDetail), true
}

func (c *responseCache) setPlatform(id int, detail PlatformDetail) {
	c.platforms.Set(strconv.Itoa(id), detail, gocache.NoExpiration)
}
