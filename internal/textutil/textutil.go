// Package textutil holds the small pure helpers shared across the app:
// opaque identifier generation, size-bounded text chunking, and display
// formatting for scores and dates.
package textutil

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// NewID returns a new opaque identifier. Callers must treat it as an
// uninterpreted string.
func NewID() string {
	return uuid.New().String()
}

// ChunkText splits s into sequential slices of at most max bytes, preserving
// order and content and never splitting a UTF-8 rune across a boundary. It
// returns nil for empty input. Slicing is purely size-bounded; callers that
// need semantic boundaries must split beforehand.
func ChunkText(s string, max int) []string {
	if s == "" {
		return nil
	}
	if max <= 0 || len(s) <= max {
		return []string{s}
	}

	chunks := make([]string, 0, (len(s)+max-1)/max)
	for len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		// A rune wider than max cannot be kept whole; split it anyway.
		if cut == 0 {
			cut = max
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}

// FormatPercent renders score/total as a rounded percentage like "85%".
// A zero total renders as "0%".
func FormatPercent(score, total int) string {
	if total <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(score)/float64(total)*100)))
}

// FormatDate renders a timestamp the way the dashboard displays it.
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}
