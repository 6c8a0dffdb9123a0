package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"flashquiz/internal/ai"
)

type generateRequest struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// HandleGenerate turns extracted text into flashcards or quiz questions.
func (h *Handler) HandleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No text provided"})
		return
	}

	ctx := c.Request.Context()
	switch req.Type {
	case "flashcards":
		cards, err := h.AI.GenerateFlashcards(ctx, req.Text, req.Count)
		if err != nil {
			h.generateError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"flashcards": cards})
	case "quiz":
		questions, err := h.AI.GenerateQuiz(ctx, req.Text, req.Count)
		if err != nil {
			h.generateError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"quiz": questions})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be 'flashcards' or 'quiz'"})
	}
}

func (h *Handler) generateError(c *gin.Context, err error) {
	if errors.Is(err, ai.ErrNotConfigured) {
		log.Println("ERROR: generation requested but no AI provider is configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI generation is not configured"})
		return
	}
	log.Printf("ERROR: generation failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate content"})
}
