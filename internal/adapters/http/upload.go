package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yeick81/ChatTiempoRealKonecta/internal/config"
)

// Uploader stores single-file uploads under a unique name and hands back
// the URL clients then announce over the chat channel. Completely
// orthogonal to session state.
type Uploader struct {
	dir      string
	maxBytes int64
}

func NewUploader(cfg *config.Config) (*Uploader, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploader{
		dir:      cfg.UploadDir,
		maxBytes: cfg.MaxUploadMB << 20,
	}, nil
}

func (u *Uploader) Handle(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if u.maxBytes > 0 && file.Size > u.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	// Unique name, original extension preserved so browsers render the
	// served file sensibly.
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(u.dir, name)); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Str("file", name).Msg("save upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s/uploads/%s", scheme, c.Request.Host, name)
	log.Info().Str("module", "adapters.http").Str("file", name).Int64("size", file.Size).Msg("stored upload")
	c.JSON(http.StatusOK, gin.H{"url": url})
}
