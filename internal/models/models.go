package models

import (
	"math"
	"time"
)

// User represents an authenticated account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Flashcard is one question/answer pair.
type Flashcard struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QuizQuestion is one multiple-choice item. CorrectAnswer must match one of
// the four options exactly; scoring compares the raw strings.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz is a generated set of multiple-choice questions tied to a source document.
type Quiz struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Questions    []QuizQuestion `json:"questions"`
	DocumentName string         `json:"documentName"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// FlashcardSet is a generated set of flashcards tied to a source document.
type FlashcardSet struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Flashcards   []Flashcard `json:"flashcards"`
	DocumentName string      `json:"documentName"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// QuizAttempt records one completed quiz run. Answers maps question ID to the
// option string the user picked.
type QuizAttempt struct {
	ID             string            `json:"id"`
	QuizID         string            `json:"quizId"`
	QuizTitle      string            `json:"quizTitle"`
	Answers        map[string]string `json:"answers"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	CompletedAt    time.Time         `json:"completedAt"`
}

// ActivityType classifies dashboard feed entries.
type ActivityType string

const (
	ActivityQuiz      ActivityType = "quiz"
	ActivityFlashcard ActivityType = "flashcard"
	ActivityUpload    ActivityType = "upload"
)

// ActivityItem is one entry in the dashboard activity feed.
type ActivityItem struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Score       *int         `json:"score,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// UserStats is derived from the current collections and never stored.
type UserStats struct {
	TotalQuizzes      int `json:"totalQuizzes"`
	TotalFlashcards   int `json:"totalFlashcards"`
	AverageScore      int `json:"averageScore"`
	QuizzesThisWeek   int `json:"quizzesThisWeek"`
	FlashcardsStudied int `json:"flashcardsStudied"`
	StreakDays        int `json:"streakDays"`
}

// ComputeStats derives study statistics from the attempt and flashcard-set
// collections. FlashcardsStudied uses the sets*5 proxy rather than a real
// per-card count, and StreakDays is capped at 7.
func ComputeStats(attempts []QuizAttempt, sets []FlashcardSet, now time.Time) UserStats {
	stats := UserStats{
		TotalQuizzes:      len(attempts),
		FlashcardsStudied: len(sets) * 5,
	}

	for _, s := range sets {
		stats.TotalFlashcards += len(s.Flashcards)
	}

	if len(attempts) > 0 {
		weekAgo := now.AddDate(0, 0, -7)
		var sum float64
		for _, a := range attempts {
			if a.TotalQuestions > 0 {
				sum += float64(a.Score) / float64(a.TotalQuestions) * 100
			}
			if a.CompletedAt.After(weekAgo) {
				stats.QuizzesThisWeek++
			}
		}
		stats.AverageScore = int(math.Round(sum / float64(len(attempts))))
	}

	stats.StreakDays = len(attempts)
	if stats.StreakDays > 7 {
		stats.StreakDays = 7
	}

	return stats
}

// ScoreQuiz counts how many answers match the correct option exactly.
// It returns the number correct and the total number of questions.
func ScoreQuiz(quiz Quiz, answers map[string]string) (score, total int) {
	total = len(quiz.Questions)
	for _, q := range quiz.Questions {
		if picked, ok := answers[q.ID]; ok && picked == q.CorrectAnswer {
			score++
		}
	}
	return score, total
}
