package models

import (
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// User operations

// CreateUser creates a new user account
func (db *Database) CreateUser(user *User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), user)
}

// UpdateUser updates an existing user account
func (db *Database) UpdateUser(user *User) error {
	user.UpdatedAt = time.Now()
	return db.store.Update(user.ID, user)
}

// GetUserByID retrieves a user by ID
func (db *Database) GetUserByID(id uint64) (*User, error) {
	var user User
	err := db.store.Get(id, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmailDigest retrieves a user by the deterministic email digest
func (db *Database) GetUserByEmailDigest(digest string) (*User, error) {
	var user User
	err := db.store.FindOne(&user, bolthold.Where("EmailDigest").Eq(digest))
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Game operations

// CreateGame adds a game to a user's collection
func (db *Database) CreateGame(game *Game) error {
	game.CreatedAt = time.Now()
	game.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), game)
}

// UpdateGame updates an existing game
func (db *Database) UpdateGame(game *Game) error {
	game.UpdatedAt = time.Now()
	return db.store.Update(game.ID, game)
}

// GetGameByID retrieves a game by ID
func (db *Database) GetGameByID(id uint64) (*Game, error) {
	var game Game
	err := db.store.Get(id, &game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// GetGamesByUser retrieves all games in a user's collection
func (db *Database) GetGamesByUser(userID uint64) ([]*Game, error) {
	var games []*Game
	err := db.store.Find(&games, bolthold.Where("UserID").Eq(userID))
	return games, err
}

// GetGameByMobyID retrieves a user's game by its MobyGames identifier
func (db *Database) GetGameByMobyID(userID uint64, mobyID int) (*Game, error) {
	var games []*Game
	err := db.store.Find(&games, bolthold.Where("UserID").Eq(userID).And("MobyID").Eq(mobyID))
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, bolthold.ErrNotFound
	}
	return games[0], nil
}

// DeleteGame deletes a game by ID
func (db *Database) DeleteGame(id uint64) error {
	return db.store.Delete(id, &Game{})
}

// API request log operations

// LogRequest persists one outbound API request record
func (db *Database) LogRequest(entry APIRequestLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return db.store.Insert(bolthold.NextSequence(), &entry)
}

// GetRequestLogsByUser retrieves all API request logs for a user
func (db *Database) GetRequestLogsByUser(userID uint64) ([]*APIRequestLog, error) {
	var logs []*APIRequestLog
	err := db.store.Find(&logs, bolthold.Where("UserID").Eq(userID))
	return logs, err
}

// Integrity checking

// IntegrityReport summarizes a store consistency pass
type IntegrityReport struct {
	Users         int
	Games         int
	RequestLogs   int
	OrphanedGames []uint64 // games whose owning user no longer exists
	CheckedAt     time.Time
}

// CheckIntegrity counts records and finds games whose owner is missing
func (db *Database) CheckIntegrity() (*IntegrityReport, error) {
	report := &IntegrityReport{CheckedAt: time.Now()}

	var users []*User
	if err := db.store.Find(&users, nil); err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}
	report.Users = len(users)

	known := make(map[uint64]struct{}, len(users))
	for _, user := range users {
		known[user.ID] = struct{}{}
	}

	var games []*Game
	if err := db.store.Find(&games, nil); err != nil {
		return nil, fmt.Errorf("failed to scan games: %w", err)
	}
	report.Games = len(games)

	for _, game := range games {
		if _, ok := known[game.UserID]; !ok {
			report.OrphanedGames = append(report.OrphanedGames, game.ID)
		}
	}

	var logs []*APIRequestLog
	if err := db.store.Find(&logs, nil); err != nil {
		return nil, fmt.Errorf("failed to scan request logs: %w", err)
	}
	report.RequestLogs = len(logs)

	return report, nil
}
