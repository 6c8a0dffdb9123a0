package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"flashquiz/internal/models"
)

func bindJSON(raw []byte, out any) error {
	return json.Unmarshal(raw, out)
}

type userDataRequest struct {
	Action string          `json:"action"`
	UserID string          `json:"userId"`
	Data   json.RawMessage `json:"data"`
}

// HandleUserData dispatches the persistence actions: the four save_* writes
// and load_user_data.
func (h *Handler) HandleUserData(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Data storage is not configured"})
		return
	}

	var req userDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	ctx := c.Request.Context()
	var err error
	switch req.Action {
	case "save_quiz":
		var quiz models.Quiz
		if err = bindJSON(req.Data, &quiz); err == nil {
			err = h.Store.SaveQuiz(ctx, req.UserID, quiz)
		}
	case "save_flashcard_set":
		var set models.FlashcardSet
		if err = bindJSON(req.Data, &set); err == nil {
			err = h.Store.SaveFlashcardSet(ctx, req.UserID, set)
		}
	case "save_quiz_attempt":
		var attempt models.QuizAttempt
		if err = bindJSON(req.Data, &attempt); err == nil {
			err = h.Store.SaveQuizAttempt(ctx, req.UserID, attempt)
		}
	case "save_activity":
		var activity models.ActivityItem
		if err = bindJSON(req.Data, &activity); err == nil {
			err = h.Store.SaveActivity(ctx, req.UserID, activity)
		}
	case "load_user_data":
		data, loadErr := h.Store.LoadUserData(ctx, req.UserID)
		if loadErr != nil {
			log.Printf("ERROR: failed to load user data for %s: %v", req.UserID, loadErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user data"})
			return
		}
		c.JSON(http.StatusOK, data)
		return
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	if err != nil {
		log.Printf("ERROR: %s failed for %s: %v", req.Action, req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
