// Package ai turns extracted document text into flashcards or quiz questions
// through a generative-AI provider. Provider failures and malformed replies
// never surface to callers: every such path falls back to the canned study
// material so the caller always gets usable content.
package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"flashquiz/internal/models"
	"flashquiz/internal/textutil"
)

const (
	// maxChunkChars bounds how much document text one provider request may
	// carry. Longer documents are split into sequential chunks.
	maxChunkChars = 15000

	// defaultCount is used when callers ask for zero or negative items.
	defaultCount = 10

	// callTimeout bounds each provider request so a hang degrades into the
	// same fallback path as an explicit error.
	callTimeout = 2 * time.Minute
)

// ErrNotConfigured reports that no provider credential is available and mock
// mode is off. Unlike transient provider failures this is surfaced as a hard
// error: it indicates a deployment defect, not a flaky network.
var ErrNotConfigured = errors.New("AI provider not configured")

// Provider executes a single prompt against a generative model and returns
// the raw text reply.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client generates study material from text.
type Client struct {
	provider  Provider
	useMock   bool
	chunkSize int
}

// NewClient builds a Client from environment configuration. USE_MOCK_DATA=true
// forces canned content and skips provider setup entirely. Otherwise
// AI_PROVIDER selects gemini (default) or openai; a missing API key is not
// fatal here, but generation requests will fail with ErrNotConfigured until
// one is set.
func NewClient(ctx context.Context) (*Client, error) {
	c := &Client{chunkSize: maxChunkChars}

	if os.Getenv("USE_MOCK_DATA") == "true" {
		c.useMock = true
		log.Println("INFO: mock generation mode enabled, provider calls disabled")
		return c, nil
	}

	switch name := os.Getenv("AI_PROVIDER"); name {
	case "", "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			log.Println("WARN: GEMINI_API_KEY not set; generation will report not configured")
			return c, nil
		}
		provider, err := newGeminiProvider(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		c.provider = provider
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			log.Println("WARN: OPENAI_API_KEY not set; generation will report not configured")
			return c, nil
		}
		c.provider = newOpenAIProvider(key)
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", name)
	}
	return c, nil
}

// NewClientWithProvider builds a Client around an explicit provider. Used by
// tests and by callers that manage provider construction themselves.
func NewClientWithProvider(p Provider) *Client {
	return &Client{provider: p, chunkSize: maxChunkChars}
}

// Close releases provider resources, if any.
func (c *Client) Close() {
	if closer, ok := c.provider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Printf("WARN: failed to close AI provider: %v", err)
		}
	}
}

// GenerateFlashcards produces up to count flashcards from text. On any
// provider or parse failure the full requested count of mock cards is
// returned instead; partial results from earlier chunks are discarded.
func (c *Client) GenerateFlashcards(ctx context.Context, text string, count int) ([]models.Flashcard, error) {
	if count <= 0 {
		count = defaultCount
	}
	if c.useMock {
		return MockFlashcards(count), nil
	}
	if c.provider == nil {
		return nil, ErrNotConfigured
	}

	chunks := textutil.ChunkText(text, c.chunkSize)
	if len(chunks) == 0 {
		log.Println("WARN: no text provided for flashcard generation, using mock content")
		return MockFlashcards(count), nil
	}

	perChunk := (count + len(chunks) - 1) / len(chunks)
	cards := make([]models.Flashcard, 0, count)
	for i, chunk := range chunks {
		reply, err := c.call(ctx, flashcardPrompt(chunk, perChunk))
		if err != nil {
			log.Printf("WARN: flashcard generation failed on chunk %d/%d, falling back to mock content: %v", i+1, len(chunks), err)
			return MockFlashcards(count), nil
		}
		parsed, err := parseFlashcardReply(reply)
		if err != nil {
			log.Printf("WARN: unusable flashcard reply on chunk %d/%d, falling back to mock content: %v", i+1, len(chunks), err)
			return MockFlashcards(count), nil
		}
		cards = append(cards, parsed...)
	}

	if len(cards) > count {
		cards = cards[:count]
	}
	log.Printf("INFO: generated %d flashcards from %d chunk(s)", len(cards), len(chunks))
	return cards, nil
}

// GenerateQuiz produces up to count multiple-choice questions from text, with
// the same all-or-nothing fallback policy as GenerateFlashcards.
func (c *Client) GenerateQuiz(ctx context.Context, text string, count int) ([]models.QuizQuestion, error) {
	if count <= 0 {
		count = defaultCount
	}
	if c.useMock {
		return MockQuiz(count), nil
	}
	if c.provider == nil {
		return nil, ErrNotConfigured
	}

	chunks := textutil.ChunkText(text, c.chunkSize)
	if len(chunks) == 0 {
		log.Println("WARN: no text provided for quiz generation, using mock content")
		return MockQuiz(count), nil
	}

	perChunk := (count + len(chunks) - 1) / len(chunks)
	questions := make([]models.QuizQuestion, 0, count)
	for i, chunk := range chunks {
		reply, err := c.call(ctx, quizPrompt(chunk, perChunk))
		if err != nil {
			log.Printf("WARN: quiz generation failed on chunk %d/%d, falling back to mock content: %v", i+1, len(chunks), err)
			return MockQuiz(count), nil
		}
		parsed, err := parseQuizReply(reply)
		if err != nil {
			log.Printf("WARN: unusable quiz reply on chunk %d/%d, falling back to mock content: %v", i+1, len(chunks), err)
			return MockQuiz(count), nil
		}
		questions = append(questions, parsed...)
	}

	if len(questions) > count {
		questions = questions[:count]
	}
	log.Printf("INFO: generated %d quiz questions from %d chunk(s)", len(questions), len(chunks))
	return questions, nil
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	return c.provider.Generate(ctx, prompt)
}
