// Package handlers implements the HTTP handlers behind the API routes.
package handlers

import (
	"flashquiz/internal/ai"
	"flashquiz/internal/extract"
	"flashquiz/internal/objstore"
	"flashquiz/internal/store"
)

const userIDSessionKey = "userID"

// Handler holds the dependencies shared by all handlers. Store and Archive
// are optional; handlers report 503 or skip archival when they are absent.
type Handler struct {
	Store     store.Gateway
	AI        *ai.Client
	Extractor *extract.Extractor
	Archive   *objstore.Client
}

// NewHandler builds a Handler.
func NewHandler(gateway store.Gateway, aiClient *ai.Client, extractor *extract.Extractor, archive *objstore.Client) *Handler {
	return &Handler{
		Store:     gateway,
		AI:        aiClient,
		Extractor: extractor,
		Archive:   archive,
	}
}
