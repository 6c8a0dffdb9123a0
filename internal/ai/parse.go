package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"flashquiz/internal/models"
	"flashquiz/internal/textutil"
)

// jsonObjectPattern grabs the outermost braces of a reply. Models sometimes
// wrap the payload in prose or markdown fences despite the prompt.
var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

type flashcardReply struct {
	Flashcards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"flashcards"`
}

type quizReply struct {
	Quiz []struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
		Explanation   string   `json:"explanation"`
	} `json:"quiz"`
}

// extractJSON strips markdown code fences and pulls the first JSON object out
// of a model reply.
func extractJSON(reply string) (string, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	match := jsonObjectPattern.FindString(cleaned)
	if match == "" {
		return "", errors.New("no JSON object in model reply")
	}
	return match, nil
}

func parseFlashcardReply(reply string) ([]models.Flashcard, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var parsed flashcardReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("malformed flashcard JSON: %w", err)
	}
	if len(parsed.Flashcards) == 0 {
		return nil, errors.New("model reply contained no flashcards")
	}

	cards := make([]models.Flashcard, 0, len(parsed.Flashcards))
	for _, fc := range parsed.Flashcards {
		if strings.TrimSpace(fc.Question) == "" || strings.TrimSpace(fc.Answer) == "" {
			continue
		}
		cards = append(cards, models.Flashcard{
			ID:       textutil.NewID(),
			Question: fc.Question,
			Answer:   fc.Answer,
		})
	}
	if len(cards) == 0 {
		return nil, errors.New("model reply contained no usable flashcards")
	}
	return cards, nil
}

func parseQuizReply(reply string) ([]models.QuizQuestion, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var parsed quizReply
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("malformed quiz JSON: %w", err)
	}
	if len(parsed.Quiz) == 0 {
		return nil, errors.New("model reply contained no questions")
	}

	// Schema violations are provider failures; the correctAnswer-matches-an-
	// option contract is instructed in the prompt, not re-validated here.
	questions := make([]models.QuizQuestion, 0, len(parsed.Quiz))
	for i, q := range parsed.Quiz {
		if q.Question == "" || len(q.Options) != 4 {
			return nil, fmt.Errorf("question %d does not match the expected shape", i+1)
		}
		questions = append(questions, models.QuizQuestion{
			ID:            textutil.NewID(),
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return questions, nil
}

func containsOption(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
