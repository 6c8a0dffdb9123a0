package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"flashquiz/internal/models"
	"flashquiz/internal/textutil"
)

// Postgres implements Gateway on a PostgreSQL pool. Quiz and flashcard
// payloads are stored as JSONB documents keyed by their client-generated IDs,
// so save operations are idempotent upserts.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects using DATABASE_URL and ensures the schema exists.
// Returns ErrNotConfigured when the variable is unset.
func NewPostgres(ctx context.Context) (*Postgres, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, ErrNotConfigured
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Println("INFO: connected to Postgres")
	return p, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS flashcard_sets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range ddl {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticate looks the account up by email and password hash together. Any
// miss collapses to ErrInvalidCredentials so callers leak nothing about which
// part was wrong.
func (p *Postgres) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at FROM users WHERE email = $1 AND password_hash = $2`,
		email, hashPassword(password),
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (p *Postgres) CreateAccount(ctx context.Context, name, email, password string) (*models.User, error) {
	var exists bool
	if err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	user := &models.User{
		ID:        textutil.NewID(),
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, hashPassword(password), user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (p *Postgres) UpdateAccount(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	var name, email pgtype.Text
	if update.Name != nil {
		name = pgtype.Text{String: *update.Name, Valid: true}
	}
	if update.Email != nil {
		email = pgtype.Text{String: *update.Email, Valid: true}
	}

	var user models.User
	err := p.pool.QueryRow(ctx,
		`UPDATE users SET name = COALESCE($2, name), email = COALESCE($3, email)
		 WHERE id = $1
		 RETURNING id, name, email, created_at`,
		userID, name, email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

func (p *Postgres) upsertDocument(ctx context.Context, table, id, userID string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, user_id, data) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, table),
		id, userID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save to %s: %w", table, err)
	}
	return nil
}

func (p *Postgres) SaveQuiz(ctx context.Context, userID string, quiz models.Quiz) error {
	return p.upsertDocument(ctx, "quizzes", quiz.ID, userID, quiz)
}

func (p *Postgres) SaveFlashcardSet(ctx context.Context, userID string, set models.FlashcardSet) error {
	return p.upsertDocument(ctx, "flashcard_sets", set.ID, userID, set)
}

func (p *Postgres) SaveQuizAttempt(ctx context.Context, userID string, attempt models.QuizAttempt) error {
	return p.upsertDocument(ctx, "quiz_attempts", attempt.ID, userID, attempt)
}

func (p *Postgres) SaveActivity(ctx context.Context, userID string, activity models.ActivityItem) error {
	return p.upsertDocument(ctx, "activities", activity.ID, userID, activity)
}

func loadDocuments[T any](ctx context.Context, pool *pgxpool.Pool, query, userID string) ([]T, error) {
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var doc T
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode stored document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// LoadUserData fetches all collections for one user, newest first. The
// activity feed is capped server-side so an old account cannot drag an
// unbounded history across the wire.
func (p *Postgres) LoadUserData(ctx context.Context, userID string) (*UserData, error) {
	quizzes, err := loadDocuments[models.Quiz](ctx, p.pool,
		`SELECT data FROM quizzes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quizzes: %w", err)
	}

	sets, err := loadDocuments[models.FlashcardSet](ctx, p.pool,
		`SELECT data FROM flashcard_sets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load flashcard sets: %w", err)
	}

	attempts, err := loadDocuments[models.QuizAttempt](ctx, p.pool,
		`SELECT data FROM quiz_attempts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz attempts: %w", err)
	}

	activities, err := loadDocuments[models.ActivityItem](ctx, p.pool,
		`SELECT data FROM activities WHERE user_id = $1 ORDER BY created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	return &UserData{
		Quizzes:       quizzes,
		FlashcardSets: sets,
		QuizAttempts:  attempts,
		Activities:    activities,
	}, nil
}
