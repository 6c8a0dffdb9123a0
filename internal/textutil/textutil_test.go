package textutil

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID() returned empty string")
		}
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %q", id)
		}
		seen[id] = true
	}
}

func TestChunkText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  []string
	}{
		{"empty", "", 10, nil},
		{"fits", "hello", 10, []string{"hello"}},
		{"exact", "hello", 5, []string{"hello"}},
		{"split", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"even split", "abcdef", 3, []string{"abc", "def"}},
		{"non-positive max", "abc", 0, []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkText(tt.input, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("ChunkText(%q, %d) = %v; want %v", tt.input, tt.max, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk %d = %q; want %q", i, got[i], tt.want[i])
				}
			}
			if strings.Join(got, "") != tt.input {
				t.Errorf("chunks do not reassemble to input")
			}
		})
	}
}

func TestChunkText_KeepsRunesIntact(t *testing.T) {
	input := strings.Repeat("é", 10) // two bytes per rune
	got := ChunkText(input, 3)

	for i, chunk := range got {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8: %q", i, chunk)
		}
	}
	if strings.Join(got, "") != input {
		t.Error("chunks do not reassemble to input")
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		score, total int
		want         string
	}{
		{4, 4, "100%"},
		{1, 3, "33%"},
		{2, 3, "67%"},
		{0, 5, "0%"},
		{0, 0, "0%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.score, tt.total); got != tt.want {
			t.Errorf("FormatPercent(%d, %d) = %q; want %q", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	if got := FormatDate(ts); got != "Mar 5, 2024" {
		t.Errorf("FormatDate() = %q; want %q", got, "Mar 5, 2024")
	}
}
