package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// scriptedProvider returns one reply per call, in order, then errors.
type scriptedProvider struct {
	replies []string
	err     error
	calls   int
	prompts []string
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	if len(p.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	reply := p.replies[0]
	p.replies = p.replies[1:]
	return reply, nil
}

func flashcardJSON(n int) string {
	var sb strings.Builder
	sb.WriteString(`{"flashcards":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"question":"q%d","answer":"a%d"}`, i, i)
	}
	sb.WriteString(`]}`)
	return sb.String()
}

func TestGenerateFlashcards_SingleChunk(t *testing.T) {
	p := &scriptedProvider{replies: []string{flashcardJSON(5)}}
	c := NewClientWithProvider(p)

	cards, err := c.GenerateFlashcards(context.Background(), "some study text", 5)
	if err != nil {
		t.Fatalf("GenerateFlashcards() error = %v", err)
	}
	if len(cards) != 5 {
		t.Fatalf("got %d cards, want 5", len(cards))
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
	if cards[0].ID == "" || cards[0].ID == cards[1].ID {
		t.Error("cards missing unique IDs")
	}
}

func TestGenerateFlashcards_ChunkedAndTruncated(t *testing.T) {
	// Text forces 3 chunks, per-chunk ask is ceil(7/3)=3, so 9 parsed cards
	// must be truncated to the requested 7.
	p := &scriptedProvider{replies: []string{flashcardJSON(3), flashcardJSON(3), flashcardJSON(3)}}
	c := NewClientWithProvider(p)
	c.chunkSize = 10

	cards, err := c.GenerateFlashcards(context.Background(), strings.Repeat("x", 25), 7)
	if err != nil {
		t.Fatalf("GenerateFlashcards() error = %v", err)
	}
	if len(cards) != 7 {
		t.Errorf("got %d cards, want 7", len(cards))
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want 3", p.calls)
	}
}

func TestGenerateFlashcards_FallbackOnProviderError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("rate limited")}
	c := NewClientWithProvider(p)

	cards, err := c.GenerateFlashcards(context.Background(), "study text", 10)
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if len(cards) != 10 {
		t.Fatalf("got %d fallback cards, want 10", len(cards))
	}

	seen := make(map[string]bool)
	for _, card := range cards {
		if card.ID == "" || seen[card.ID] {
			t.Fatalf("fallback card has missing or duplicate ID %q", card.ID)
		}
		seen[card.ID] = true
	}
}

func TestGenerateFlashcards_FallbackDiscardsPartialResults(t *testing.T) {
	// First chunk parses fine, second is garbage. The caller must get the
	// full mock count, not a mix of real and mock cards.
	p := &scriptedProvider{replies: []string{flashcardJSON(2), "I cannot help with that."}}
	c := NewClientWithProvider(p)
	c.chunkSize = 10

	cards, err := c.GenerateFlashcards(context.Background(), strings.Repeat("x", 15), 4)
	if err != nil {
		t.Fatalf("GenerateFlashcards() error = %v", err)
	}
	if len(cards) != 4 {
		t.Fatalf("got %d cards, want 4", len(cards))
	}
	for _, card := range cards {
		if card.Question == "q0" || card.Question == "q1" {
			t.Errorf("partial real result %q leaked into fallback", card.Question)
		}
	}
}

func TestGenerateQuiz_NotConfigured(t *testing.T) {
	c := &Client{chunkSize: maxChunkChars}
	if _, err := c.GenerateQuiz(context.Background(), "text", 5); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("GenerateQuiz() error = %v; want ErrNotConfigured", err)
	}
	if _, err := c.GenerateFlashcards(context.Background(), "text", 5); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("GenerateFlashcards() error = %v; want ErrNotConfigured", err)
	}
}

func TestGenerateQuiz_FencedReply(t *testing.T) {
	reply := "```json\n" + `{"quiz":[{"question":"Q?","options":["a","b","c","d"],"correctAnswer":"b","explanation":"because"}]}` + "\n```"
	p := &scriptedProvider{replies: []string{reply}}
	c := NewClientWithProvider(p)

	questions, err := c.GenerateQuiz(context.Background(), "study text", 1)
	if err != nil {
		t.Fatalf("GenerateQuiz() error = %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].CorrectAnswer != "b" {
		t.Errorf("CorrectAnswer = %q", questions[0].CorrectAnswer)
	}
}

func TestMockQuiz_AnswersAmongOptions(t *testing.T) {
	for _, q := range MockQuiz(10) {
		if len(q.Options) != 4 {
			t.Errorf("question %q has %d options", q.Question, len(q.Options))
		}
		if !containsOption(q.Options, q.CorrectAnswer) {
			t.Errorf("question %q answer %q not among options", q.Question, q.CorrectAnswer)
		}
	}
}

func TestParseQuizReply_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json", "sorry, I cannot do that"},
		{"empty quiz", `{"quiz":[]}`},
		{"wrong option count", `{"quiz":[{"question":"Q?","options":["a","b"],"correctAnswer":"a"}]}`},
		{"malformed json", `{"quiz":[{"question":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseQuizReply(tt.reply); err == nil {
				t.Error("parseQuizReply() accepted invalid reply")
			}
		})
	}
}

func TestParseQuizReply_DoesNotValidateCorrectAnswer(t *testing.T) {
	// The answer-matches-an-option contract is a prompt instruction, not a
	// local check; a mismatched reply still parses.
	reply := `{"quiz":[{"question":"Q?","options":["a","b","c","d"],"correctAnswer":"e"}]}`
	questions, err := parseQuizReply(reply)
	if err != nil {
		t.Fatalf("parseQuizReply() error = %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "e" {
		t.Errorf("questions = %+v", questions)
	}
}

func TestParseFlashcardReply_SkipsBlankEntries(t *testing.T) {
	reply := `{"flashcards":[{"question":"","answer":"x"},{"question":"real","answer":"card"}]}`
	cards, err := parseFlashcardReply(reply)
	if err != nil {
		t.Fatalf("parseFlashcardReply() error = %v", err)
	}
	if len(cards) != 1 || cards[0].Question != "real" {
		t.Errorf("cards = %+v", cards)
	}
}
