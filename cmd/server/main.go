package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flashquiz/internal/ai"
	"flashquiz/internal/api"
	"flashquiz/internal/api/handlers"
	"flashquiz/internal/extract"
	"flashquiz/internal/objstore"
	"flashquiz/internal/store"
	"flashquiz/internal/textutil"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const storeName = "flashquiz_session"

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Fatalf("FATAL: failed to load .env file: %v", err)
		}
		log.Println("INFO: no .env file found, relying on system environment variables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The store is optional: without DATABASE_URL the server still extracts
	// text and generates content, but accounts and persistence return 503.
	var gateway store.Gateway
	pg, err := store.NewPostgres(ctx)
	switch {
	case err == nil:
		defer pg.Close()
		gateway = pg
	case errors.Is(err, store.ErrNotConfigured):
		log.Println("WARN: DATABASE_URL not set, accounts and persistence disabled")
	default:
		log.Fatalf("FATAL: failed to connect to database: %v", err)
	}

	aiClient, err := ai.NewClient(ctx)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize AI client: %v", err)
	}
	defer aiClient.Close()

	archive, err := objstore.NewClient(ctx)
	if err != nil {
		log.Fatalf("FATAL: failed to initialize object store client: %v", err)
	}

	router := gin.Default()

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		// Sessions still work within one process lifetime; they just do not
		// survive a restart.
		secret = textutil.NewID()
		log.Println("WARN: SESSION_SECRET not set, using an ephemeral secret")
	}
	sessionStore := cookie.NewStore([]byte(secret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(storeName, sessionStore))

	handler := handlers.NewHandler(gateway, aiClient, extract.New(), archive)
	api.SetupRoutes(router, handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Printf("INFO: server listening on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("FATAL: server forced to shutdown: %v", err)
	}

	log.Println("INFO: server exited")
}
