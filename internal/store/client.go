package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flashquiz/internal/models"
)

// Client implements Gateway against a remote flashquiz server. Every request
// is a POST of {"action": ...} plus the action's payload, mirroring what the
// server's auth and user-data handlers accept.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Gateway speaking to the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type errorReply struct {
	Error string `json:"error"`
}

// serverError carries the status and decoded error body of a non-200 reply so
// callers can tell domain conditions apart from validation failures.
type serverError struct {
	status  int
	message string
}

func (e *serverError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("server: %s", e.message)
	}
	return fmt.Sprintf("server returned status %d", e.status)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var reply errorReply
		json.Unmarshal(data, &reply)
		return resp.StatusCode, &serverError{status: resp.StatusCode, message: reply.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	status, err := c.post(ctx, "/api/auth", map[string]string{
		"action":   "login",
		"email":    email,
		"password": password,
	}, &user)
	if status == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateAccount(ctx context.Context, name, email, password string) (*models.User, error) {
	var user models.User
	status, err := c.post(ctx, "/api/auth", map[string]string{
		"action":   "signup",
		"name":     name,
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		// Only a collision 400 maps to the sentinel; a validation 400 stays a
		// plain error.
		var srv *serverError
		if errors.As(err, &srv) && status == http.StatusBadRequest && strings.Contains(srv.message, "already exists") {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateAccount(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	payload := map[string]any{
		"action": "update",
		"userId": userID,
	}
	if update.Name != nil {
		payload["name"] = *update.Name
	}
	if update.Email != nil {
		payload["email"] = *update.Email
	}

	var user models.User
	if _, err := c.post(ctx, "/api/auth", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) saveDocument(ctx context.Context, action, userID string, doc any) error {
	_, err := c.post(ctx, "/api/user-data", map[string]any{
		"action": action,
		"userId": userID,
		"data":   doc,
	}, nil)
	return err
}

func (c *Client) SaveQuiz(ctx context.Context, userID string, quiz models.Quiz) error {
	return c.saveDocument(ctx, "save_quiz", userID, quiz)
}

func (c *Client) SaveFlashcardSet(ctx context.Context, userID string, set models.FlashcardSet) error {
	return c.saveDocument(ctx, "save_flashcard_set", userID, set)
}

func (c *Client) SaveQuizAttempt(ctx context.Context, userID string, attempt models.QuizAttempt) error {
	return c.saveDocument(ctx, "save_quiz_attempt", userID, attempt)
}

func (c *Client) SaveActivity(ctx context.Context, userID string, activity models.ActivityItem) error {
	return c.saveDocument(ctx, "save_activity", userID, activity)
}

func (c *Client) LoadUserData(ctx context.Context, userID string) (*UserData, error) {
	var data UserData
	_, err := c.post(ctx, "/api/user-data", map[string]any{
		"action": "load_user_data",
		"userId": userID,
	}, &data)
	if err != nil {
		return nil, err
	}
	return &data, nil
}
