// Package session holds the signed-in user's study data in memory and keeps
// it synchronized with the local cache and the remote store. Reads are served
// from memory; writes go to memory first, then to the cache, then to the
// remote store as a best-effort background call that never blocks the caller.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"flashquiz/internal/cache"
	"flashquiz/internal/models"
	"flashquiz/internal/store"
	"flashquiz/internal/textutil"
)

const (
	// maxActivities bounds the dashboard feed; older entries fall off.
	maxActivities = 20

	// remoteWriteTimeout bounds each background store write.
	remoteWriteTimeout = 10 * time.Second
)

// DemoUser is a built-in account that authenticates without any store.
type DemoUser struct {
	Name     string
	Email    string
	Password string
}

// DefaultDemoUsers is the stock demo account.
var DefaultDemoUsers = []DemoUser{
	{Name: "Demo User", Email: "demo@flashquiz.com", Password: "demo123"},
}

// Options configures a Container. Gateway and Cache may each be nil; the
// container degrades to cache-only or memory-only operation accordingly.
type Options struct {
	Gateway store.Gateway
	Cache   *cache.Cache

	// DemoUsers defaults to DefaultDemoUsers when nil.
	DemoUsers []DemoUser

	// DemoLoginDelay simulates the latency of a real authentication round
	// trip for demo logins.
	DemoLoginDelay time.Duration
}

// Container is the in-memory session state. All methods are safe for
// concurrent use.
type Container struct {
	gateway   store.Gateway
	cache     *cache.Cache
	demoUsers []DemoUser
	demoDelay time.Duration

	mu            sync.Mutex
	user          *models.User
	quizzes       []models.Quiz
	flashcardSets []models.FlashcardSet
	quizAttempts  []models.QuizAttempt
	activities    []models.ActivityItem
	currentQuiz   *models.Quiz
	currentCards  *models.FlashcardSet

	writeFailures atomic.Uint64
	pending       sync.WaitGroup
}

// New builds a Container from opts. Call Init afterwards to restore any
// previous session.
func New(opts Options) *Container {
	demoUsers := opts.DemoUsers
	if demoUsers == nil {
		demoUsers = DefaultDemoUsers
	}
	return &Container{
		gateway:   opts.Gateway,
		cache:     opts.Cache,
		demoUsers: demoUsers,
		demoDelay: opts.DemoLoginDelay,
	}
}

// Init restores the previous session from the cache, refreshing from the
// remote store when one is configured. A failed refresh falls back to the
// cached snapshot; Init only errors on a corrupt cache.
func (c *Container) Init(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}

	user, err := c.cache.LoadUser()
	if errors.Is(err, cache.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	if c.gateway != nil {
		data, err := c.gateway.LoadUserData(ctx, user.ID)
		if err == nil {
			c.mu.Lock()
			c.user = user
			c.quizzes = data.Quizzes
			c.flashcardSets = data.FlashcardSets
			c.quizAttempts = data.QuizAttempts
			c.activities = capActivities(data.Activities)
			c.mu.Unlock()
			c.writeCollectionsToCache()
			log.Printf("INFO: restored session for %s from store", user.Email)
			return nil
		}
		log.Printf("WARN: store load failed, using cached data: %v", err)
	}

	c.mu.Lock()
	c.user = user
	c.quizzes = loadCached(c.cache.LoadQuizzes)
	c.flashcardSets = loadCached(c.cache.LoadFlashcardSets)
	c.quizAttempts = loadCached(c.cache.LoadQuizAttempts)
	c.activities = capActivities(loadCached(c.cache.LoadActivities))
	c.mu.Unlock()
	log.Printf("INFO: restored session for %s from cache", user.Email)
	return nil
}

func loadCached[T any](load func() ([]T, error)) []T {
	items, err := load()
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		log.Printf("WARN: cache read failed: %v", err)
	}
	return items
}

// Login authenticates against the remote store, or against the built-in demo
// accounts when no store is configured. A demo login mints a fresh user ID
// every time, so data cached under a previous demo identity is orphaned.
func (c *Container) Login(ctx context.Context, email, password string) error {
	if c.gateway == nil {
		for _, demo := range c.demoUsers {
			if demo.Email != email || demo.Password != password {
				continue
			}
			if c.demoDelay > 0 {
				select {
				case <-time.After(c.demoDelay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			user := &models.User{
				ID:        textutil.NewID(),
				Name:      demo.Name,
				Email:     demo.Email,
				CreatedAt: time.Now().UTC(),
			}
			c.startSession(user, &store.UserData{})
			log.Printf("INFO: demo login for %s", email)
			return nil
		}
		return store.ErrInvalidCredentials
	}

	user, err := c.gateway.Authenticate(ctx, email, password)
	if err != nil {
		return err
	}
	data, err := c.gateway.LoadUserData(ctx, user.ID)
	if err != nil {
		log.Printf("WARN: failed to load user data after login, checking cache: %v", err)
		data = c.cachedUserData(user.ID)
	}
	c.startSession(user, data)
	log.Printf("INFO: login for %s", email)
	return nil
}

// cachedUserData returns the cached collections when the cache holds the same
// identity, so a transient store failure at login cannot wipe the local
// backup. Any other case starts empty.
func (c *Container) cachedUserData(userID string) *store.UserData {
	if c.cache == nil {
		return &store.UserData{}
	}
	cached, err := c.cache.LoadUser()
	if err != nil || cached.ID != userID {
		return &store.UserData{}
	}
	return &store.UserData{
		Quizzes:       loadCached(c.cache.LoadQuizzes),
		FlashcardSets: loadCached(c.cache.LoadFlashcardSets),
		QuizAttempts:  loadCached(c.cache.LoadQuizAttempts),
		Activities:    loadCached(c.cache.LoadActivities),
	}
}

// Signup creates a new account and starts a session for it. Without a store
// the account is local-only: the email must not collide with a built-in demo
// account, and the identity lives in memory and the cache.
func (c *Container) Signup(ctx context.Context, name, email, password string) error {
	if c.gateway == nil {
		for _, demo := range c.demoUsers {
			if demo.Email == email {
				return store.ErrAlreadyExists
			}
		}
		if c.demoDelay > 0 {
			select {
			case <-time.After(c.demoDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		user := &models.User{
			ID:        textutil.NewID(),
			Name:      name,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
		c.startSession(user, &store.UserData{})
		log.Printf("INFO: local signup for %s", email)
		return nil
	}
	user, err := c.gateway.CreateAccount(ctx, name, email, password)
	if err != nil {
		return err
	}
	c.startSession(user, &store.UserData{})
	log.Printf("INFO: created account for %s", email)
	return nil
}

func (c *Container) startSession(user *models.User, data *store.UserData) {
	c.mu.Lock()
	c.user = user
	c.quizzes = data.Quizzes
	c.flashcardSets = data.FlashcardSets
	c.quizAttempts = data.QuizAttempts
	c.activities = capActivities(data.Activities)
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.SaveUser(user); err != nil {
			log.Printf("WARN: failed to cache user: %v", err)
		}
		c.writeCollectionsToCache()
	}
}

// Logout clears the in-memory state and the cache. Safe to call when no one
// is signed in.
func (c *Container) Logout() {
	c.mu.Lock()
	c.user = nil
	c.quizzes = nil
	c.flashcardSets = nil
	c.quizAttempts = nil
	c.activities = nil
	c.currentQuiz = nil
	c.currentCards = nil
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.Clear(); err != nil {
			log.Printf("WARN: failed to clear cache on logout: %v", err)
		}
	}
	log.Println("INFO: logged out")
}

// UpdateProfile applies the change to the in-memory user immediately, then
// persists it. The remote write is best-effort like every other write.
func (c *Container) UpdateProfile(update store.ProfileUpdate) error {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return errors.New("not signed in")
	}
	if update.Name != nil {
		c.user.Name = *update.Name
	}
	if update.Email != nil {
		c.user.Email = *update.Email
	}
	user := *c.user
	c.mu.Unlock()

	if c.cache != nil {
		if err := c.cache.SaveUser(&user); err != nil {
			log.Printf("WARN: failed to cache profile update: %v", err)
		}
	}
	c.bestEffort("update profile", func(ctx context.Context) error {
		_, err := c.gateway.UpdateAccount(ctx, user.ID, update)
		return err
	})
	return nil
}

// AddQuiz stores a new quiz, newest first. A missing ID or timestamp is
// filled in.
func (c *Container) AddQuiz(quiz models.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = textutil.NewID()
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now().UTC()
	}
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return errors.New("not signed in")
	}
	userID := c.user.ID
	c.quizzes = append([]models.Quiz{quiz}, c.quizzes...)
	quizzes := c.quizzes
	// The cache write stays under the lock so concurrent adds cannot persist
	// snapshots out of order.
	c.cacheWrite(func() error { return c.cache.SaveQuizzes(quizzes) })
	c.mu.Unlock()

	c.bestEffort("save quiz", func(ctx context.Context) error {
		return c.gateway.SaveQuiz(ctx, userID, quiz)
	})
	return nil
}

// AddFlashcardSet stores a new flashcard set, newest first.
func (c *Container) AddFlashcardSet(set models.FlashcardSet) error {
	if set.ID == "" {
		set.ID = textutil.NewID()
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return errors.New("not signed in")
	}
	userID := c.user.ID
	c.flashcardSets = append([]models.FlashcardSet{set}, c.flashcardSets...)
	sets := c.flashcardSets
	c.cacheWrite(func() error { return c.cache.SaveFlashcardSets(sets) })
	c.mu.Unlock()

	c.bestEffort("save flashcard set", func(ctx context.Context) error {
		return c.gateway.SaveFlashcardSet(ctx, userID, set)
	})
	return nil
}

// AddQuizAttempt stores a completed attempt, newest first.
func (c *Container) AddQuizAttempt(attempt models.QuizAttempt) error {
	if attempt.ID == "" {
		attempt.ID = textutil.NewID()
	}
	if attempt.CompletedAt.IsZero() {
		attempt.CompletedAt = time.Now().UTC()
	}
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return errors.New("not signed in")
	}
	userID := c.user.ID
	c.quizAttempts = append([]models.QuizAttempt{attempt}, c.quizAttempts...)
	attempts := c.quizAttempts
	c.cacheWrite(func() error { return c.cache.SaveQuizAttempts(attempts) })
	c.mu.Unlock()

	c.bestEffort("save quiz attempt", func(ctx context.Context) error {
		return c.gateway.SaveQuizAttempt(ctx, userID, attempt)
	})
	return nil
}

// AddActivity prepends a feed entry and drops anything past the cap.
func (c *Container) AddActivity(activity models.ActivityItem) error {
	if activity.ID == "" {
		activity.ID = textutil.NewID()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return errors.New("not signed in")
	}
	userID := c.user.ID
	c.activities = capActivities(append([]models.ActivityItem{activity}, c.activities...))
	activities := c.activities
	c.cacheWrite(func() error { return c.cache.SaveActivities(activities) })
	c.mu.Unlock()

	c.bestEffort("save activity", func(ctx context.Context) error {
		return c.gateway.SaveActivity(ctx, userID, activity)
	})
	return nil
}

// SubmitQuiz scores the answers against the quiz, records the attempt and a
// feed entry, and returns the attempt.
func (c *Container) SubmitQuiz(quiz models.Quiz, answers map[string]string) (models.QuizAttempt, error) {
	score, total := models.ScoreQuiz(quiz, answers)
	attempt := models.QuizAttempt{
		ID:             textutil.NewID(),
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Answers:        answers,
		Score:          score,
		TotalQuestions: total,
		CompletedAt:    time.Now().UTC(),
	}
	if err := c.AddQuizAttempt(attempt); err != nil {
		return models.QuizAttempt{}, err
	}

	percent := 0
	if total > 0 {
		percent = score * 100 / total
	}
	activity := models.ActivityItem{
		ID:          textutil.NewID(),
		Type:        models.ActivityQuiz,
		Title:       quiz.Title,
		Description: fmt.Sprintf("Scored %d/%d", score, total),
		Score:       &percent,
		Timestamp:   attempt.CompletedAt,
	}
	if err := c.AddActivity(activity); err != nil {
		return models.QuizAttempt{}, err
	}
	return attempt, nil
}

// User returns a copy of the signed-in user, or nil.
func (c *Container) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	user := *c.user
	return &user
}

// Quizzes returns the quiz collection, newest first.
func (c *Container) Quizzes() []models.Quiz {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Quiz(nil), c.quizzes...)
}

// FlashcardSets returns the flashcard sets, newest first.
func (c *Container) FlashcardSets() []models.FlashcardSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FlashcardSet(nil), c.flashcardSets...)
}

// QuizAttempts returns the attempts, newest first.
func (c *Container) QuizAttempts() []models.QuizAttempt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.QuizAttempt(nil), c.quizAttempts...)
}

// Activities returns the activity feed, newest first.
func (c *Container) Activities() []models.ActivityItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ActivityItem(nil), c.activities...)
}

// SetCurrentQuiz records which quiz the study view is showing. Pure selection
// state, never persisted.
func (c *Container) SetCurrentQuiz(quiz *models.Quiz) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentQuiz = quiz
}

// CurrentQuiz returns the selected quiz, or nil.
func (c *Container) CurrentQuiz() *models.Quiz {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentQuiz
}

// SetCurrentFlashcards records which flashcard set the study view is showing.
func (c *Container) SetCurrentFlashcards(set *models.FlashcardSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentCards = set
}

// CurrentFlashcards returns the selected flashcard set, or nil.
func (c *Container) CurrentFlashcards() *models.FlashcardSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentCards
}

// Stats derives the dashboard statistics from the current collections.
func (c *Container) Stats() models.UserStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.ComputeStats(c.quizAttempts, c.flashcardSets, time.Now())
}

// WriteFailures reports how many background store writes have failed since
// startup.
func (c *Container) WriteFailures() uint64 {
	return c.writeFailures.Load()
}

// Wait blocks until all background store writes have finished. Call before
// process exit so pending writes are not abandoned.
func (c *Container) Wait() {
	c.pending.Wait()
}

func (c *Container) cacheWrite(write func() error) {
	if c.cache == nil {
		return
	}
	if err := write(); err != nil {
		log.Printf("WARN: cache write failed: %v", err)
	}
}

// bestEffort runs a store write in the background. Failures are counted and
// logged; the in-memory and cached state already hold the change.
func (c *Container) bestEffort(name string, write func(ctx context.Context) error) {
	if c.gateway == nil {
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), remoteWriteTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			c.writeFailures.Add(1)
			log.Printf("WARN: %s: store write failed: %v", name, err)
		}
	}()
}

func (c *Container) writeCollectionsToCache() {
	if c.cache == nil {
		return
	}
	c.mu.Lock()
	quizzes := c.quizzes
	sets := c.flashcardSets
	attempts := c.quizAttempts
	activities := c.activities
	c.mu.Unlock()

	c.cacheWrite(func() error { return c.cache.SaveQuizzes(quizzes) })
	c.cacheWrite(func() error { return c.cache.SaveFlashcardSets(sets) })
	c.cacheWrite(func() error { return c.cache.SaveQuizAttempts(attempts) })
	c.cacheWrite(func() error { return c.cache.SaveActivities(activities) })
}

func capActivities(activities []models.ActivityItem) []models.ActivityItem {
	if len(activities) > maxActivities {
		return activities[:maxActivities]
	}
	return activities
}
