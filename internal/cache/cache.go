// Package cache keeps a durable local copy of the signed-in user's data in a
// SQLite file. It backs the offline path: when the remote store is missing or
// unreachable, the last cached snapshot is what the session loads.
package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"flashquiz/internal/models"
)

const (
	keyUser          = "user"
	keyQuizzes       = "quizzes"
	keyFlashcardSets = "flashcard_sets"
	keyQuizAttempts  = "quiz_attempts"
	keyActivities    = "activities"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("cache entry not found")

// Cache is a key/value JSON store over a single SQLite file.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) put(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO entries (key, value) VALUES (?, ?)`, key, string(data))
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

func (c *Cache) get(key string, out any) error {
	var value string
	err := c.db.QueryRow(`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	return nil
}

func (c *Cache) SaveUser(user *models.User) error { return c.put(keyUser, user) }

func (c *Cache) LoadUser() (*models.User, error) {
	var user models.User
	if err := c.get(keyUser, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Cache) SaveQuizzes(quizzes []models.Quiz) error { return c.put(keyQuizzes, quizzes) }

func (c *Cache) LoadQuizzes() ([]models.Quiz, error) {
	var quizzes []models.Quiz
	if err := c.get(keyQuizzes, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (c *Cache) SaveFlashcardSets(sets []models.FlashcardSet) error {
	return c.put(keyFlashcardSets, sets)
}

func (c *Cache) LoadFlashcardSets() ([]models.FlashcardSet, error) {
	var sets []models.FlashcardSet
	if err := c.get(keyFlashcardSets, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func (c *Cache) SaveQuizAttempts(attempts []models.QuizAttempt) error {
	return c.put(keyQuizAttempts, attempts)
}

func (c *Cache) LoadQuizAttempts() ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := c.get(keyQuizAttempts, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (c *Cache) SaveActivities(activities []models.ActivityItem) error {
	return c.put(keyActivities, activities)
}

func (c *Cache) LoadActivities() ([]models.ActivityItem, error) {
	var activities []models.ActivityItem
	if err := c.get(keyActivities, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Clear wipes every entry. Called on logout so the next user of the machine
// cannot read the previous user's study data.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
