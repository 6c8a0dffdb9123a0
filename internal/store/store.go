// Package store persists user accounts and study data. The Gateway interface
// is implemented twice: Postgres for the server side and an HTTP client that
// speaks the server's action protocol for remote callers. Both expose the
// same semantics, so the session layer does not care which one it holds.
package store

import (
	"context"
	"errors"

	"flashquiz/internal/models"
)

var (
	// ErrNotConfigured reports that the backing store's connection settings
	// are absent from the environment.
	ErrNotConfigured = errors.New("store not configured")

	// ErrInvalidCredentials is returned for any authentication failure. The
	// caller cannot tell a missing account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAlreadyExists is returned when signing up with a taken email.
	ErrAlreadyExists = errors.New("user already exists")
)

// ProfileUpdate carries the changed account fields. Nil means unchanged.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// UserData bundles everything a user owns, as loaded in one shot at login.
type UserData struct {
	Quizzes       []models.Quiz         `json:"quizzes"`
	FlashcardSets []models.FlashcardSet `json:"flashcardSets"`
	QuizAttempts  []models.QuizAttempt  `json:"quizAttempts"`
	Activities    []models.ActivityItem `json:"activities"`
}

// Gateway is the persistence surface for accounts and study data.
type Gateway interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	CreateAccount(ctx context.Context, name, email, password string) (*models.User, error)
	UpdateAccount(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error)

	SaveQuiz(ctx context.Context, userID string, quiz models.Quiz) error
	SaveFlashcardSet(ctx context.Context, userID string, set models.FlashcardSet) error
	SaveQuizAttempt(ctx context.Context, userID string, attempt models.QuizAttempt) error
	SaveActivity(ctx context.Context, userID string, activity models.ActivityItem) error

	LoadUserData(ctx context.Context, userID string) (*UserData, error)
}
