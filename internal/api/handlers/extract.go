package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"flashquiz/internal/extract"
	"flashquiz/internal/textutil"
)

// maxUploadBytes caps document uploads at 20 MB.
const maxUploadBytes = 20 << 20

// HandleExtractText accepts a multipart upload and returns its text content.
// The raw document is archived to the object store in the background when one
// is configured; archival failures never affect the response.
func (h *Handler) HandleExtractText(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("ERROR: failed to open upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("ERROR: failed to read upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	text, err := h.Extractor.Extract(c.Request.Context(), fileHeader.Filename, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFileType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type. Please upload a PDF, DOCX, or TXT file."})
		case errors.Is(err, extract.ErrEmptyDocument):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No readable text found. The document may be empty or image-only."})
		default:
			log.Printf("ERROR: extraction failed for %s: %v", fileHeader.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract text from document"})
		}
		return
	}

	if h.Archive != nil {
		uploadID := textutil.NewID()
		filename := fileHeader.Filename
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := h.Archive.UploadDocument(ctx, uploadID, filename, data); err != nil {
				log.Printf("WARN: failed to archive %s: %v", filename, err)
			}
		}()
	}

	log.Printf("INFO: extracted %d characters from %s", len(text), fileHeader.Filename)
	c.JSON(http.StatusOK, gin.H{"text": text})
}
