package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"flashquiz/internal/store"
)

type authRequest struct {
	Action   string `json:"action"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authUpdateRequest struct {
	Action string  `json:"action"`
	UserID string  `json:"userId"`
	Name   *string `json:"name"`
	Email  *string `json:"email"`
}

// HandleAuth dispatches the account actions: login, signup, and update.
func (h *Handler) HandleAuth(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Account storage is not configured"})
		return
	}

	// The action field decides the payload shape, so read the body once and
	// decode it per action.
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var req authRequest
	if err := bindJSON(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	switch req.Action {
	case "login":
		h.handleLogin(c, req)
	case "signup":
		h.handleSignup(c, req)
	case "update":
		var update authUpdateRequest
		if err := bindJSON(raw, &update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		h.handleUpdate(c, update)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
	}
}

func (h *Handler) handleLogin(c *gin.Context, req authRequest) {
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.Store.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Every failure looks the same to the caller; the detail stays in
		// the server log.
		if !errors.Is(err, store.ErrInvalidCredentials) {
			log.Printf("ERROR: login failed for %s: %v", req.Email, err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	session := sessions.Default(c)
	session.Set(userIDSessionKey, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("WARN: failed to save session: %v", err)
	}

	log.Printf("INFO: login for %s", user.Email)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) handleSignup(c *gin.Context, req authRequest) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and password are required"})
		return
	}

	user, err := h.Store.CreateAccount(c.Request.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, store.ErrAlreadyExists) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	}
	if err != nil {
		log.Printf("ERROR: signup failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	session := sessions.Default(c)
	session.Set(userIDSessionKey, user.ID)
	if err := session.Save(); err != nil {
		log.Printf("WARN: failed to save session: %v", err)
	}

	log.Printf("INFO: created account for %s", user.Email)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) handleUpdate(c *gin.Context, req authUpdateRequest) {
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	user, err := h.Store.UpdateAccount(c.Request.Context(), req.UserID, store.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		log.Printf("ERROR: profile update failed for %s: %v", req.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// HandleAuthStatus reports whether the request carries a signed-in session.
func (h *Handler) HandleAuthStatus(c *gin.Context) {
	session := sessions.Default(c)
	userID, ok := session.Get(userIDSessionKey).(string)
	if !ok || userID == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "userId": userID})
}

// HandleLogout clears the session cookie.
func (h *Handler) HandleLogout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("WARN: failed to clear session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
