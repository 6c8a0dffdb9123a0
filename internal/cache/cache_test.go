package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"flashquiz/internal/models"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_UserRoundTrip(t *testing.T) {
	c := openTestCache(t)

	if _, err := c.LoadUser(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadUser() on empty cache = %v; want ErrNotFound", err)
	}

	want := &models.User{ID: "u1", Name: "Demo User", Email: "demo@flashquiz.com", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := c.SaveUser(want); err != nil {
		t.Fatalf("SaveUser() error = %v", err)
	}

	got, err := c.LoadUser()
	if err != nil {
		t.Fatalf("LoadUser() error = %v", err)
	}
	if got.ID != want.ID || got.Email != want.Email || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("LoadUser() = %+v; want %+v", got, want)
	}
}

func TestCache_CollectionsOverwrite(t *testing.T) {
	c := openTestCache(t)

	first := []models.Quiz{{ID: "q1", Title: "Chapter 1"}}
	second := []models.Quiz{{ID: "q2", Title: "Chapter 2"}, {ID: "q1", Title: "Chapter 1"}}

	if err := c.SaveQuizzes(first); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveQuizzes(second); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadQuizzes()
	if err != nil {
		t.Fatalf("LoadQuizzes() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "q2" {
		t.Errorf("LoadQuizzes() = %+v", got)
	}
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)

	if err := c.SaveUser(&models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveActivities([]models.ActivityItem{{ID: "a1", Type: models.ActivityUpload}}); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := c.LoadUser(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadUser() after Clear() = %v; want ErrNotFound", err)
	}
	if _, err := c.LoadActivities(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadActivities() after Clear() = %v; want ErrNotFound", err)
	}
}

func TestCache_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")

	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SaveFlashcardSets([]models.FlashcardSet{{ID: "s1", Title: "Biology"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	sets, err := reopened.LoadFlashcardSets()
	if err != nil {
		t.Fatalf("LoadFlashcardSets() error = %v", err)
	}
	if len(sets) != 1 || sets[0].Title != "Biology" {
		t.Errorf("LoadFlashcardSets() = %+v", sets)
	}
}
