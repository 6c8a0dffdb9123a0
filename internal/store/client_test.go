package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flashquiz/internal/models"
)

func TestClient_Authenticate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req["action"] != "login" {
			t.Errorf("action = %q", req["action"])
		}
		if req["password"] != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(models.User{ID: "u1", Name: "Ada", Email: req["email"]})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	user, err := c.Authenticate(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if user.ID != "u1" || user.Email != "ada@example.com" {
		t.Errorf("user = %+v", user)
	}

	if _, err := c.Authenticate(context.Background(), "ada@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Authenticate() error = %v; want ErrInvalidCredentials", err)
	}
}

func TestClient_CreateAccount_Collision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "User already exists"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.CreateAccount(context.Background(), "Ada", "ada@example.com", "pw"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("CreateAccount() error = %v; want ErrAlreadyExists", err)
	}
}

func TestClient_CreateAccount_ValidationIsNotCollision(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Name, email, and password are required"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.CreateAccount(context.Background(), "Ada", "", "pw")
	if err == nil {
		t.Fatal("CreateAccount() returned nil error on 400")
	}
	if errors.Is(err, ErrAlreadyExists) {
		t.Errorf("validation 400 mapped to ErrAlreadyExists: %v", err)
	}
}

func TestClient_SaveAndLoadUserData(t *testing.T) {
	saved := make(map[string]json.RawMessage)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user-data" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Action string          `json:"action"`
			UserID string          `json:"userId"`
			Data   json.RawMessage `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.UserID != "u1" {
			t.Errorf("userId = %q", req.UserID)
		}

		switch req.Action {
		case "save_quiz", "save_flashcard_set", "save_quiz_attempt", "save_activity":
			saved[req.Action] = req.Data
			json.NewEncoder(w).Encode(map[string]bool{"success": true})
		case "load_user_data":
			var quiz models.Quiz
			if raw, ok := saved["save_quiz"]; ok {
				json.Unmarshal(raw, &quiz)
			}
			json.NewEncoder(w).Encode(UserData{Quizzes: []models.Quiz{quiz}})
		default:
			t.Errorf("unexpected action %q", req.Action)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()

	quiz := models.Quiz{ID: "q1", Title: "Chapter 1", CreatedAt: time.Now().UTC()}
	if err := c.SaveQuiz(ctx, "u1", quiz); err != nil {
		t.Fatalf("SaveQuiz() error = %v", err)
	}
	if err := c.SaveActivity(ctx, "u1", models.ActivityItem{ID: "a1", Type: models.ActivityQuiz}); err != nil {
		t.Fatalf("SaveActivity() error = %v", err)
	}

	data, err := c.LoadUserData(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadUserData() error = %v", err)
	}
	if len(data.Quizzes) != 1 || data.Quizzes[0].ID != "q1" {
		t.Errorf("quizzes = %+v", data.Quizzes)
	}
}

func TestClient_ServerErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "database unavailable"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.LoadUserData(context.Background(), "u1")
	if err == nil {
		t.Fatal("LoadUserData() returned nil error on 500")
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrAlreadyExists) {
		t.Errorf("generic failure mapped to a typed error: %v", err)
	}
}
