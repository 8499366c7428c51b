package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dtroode/codemap-billing/internal/logger"
	"github.com/dtroode/codemap-billing/internal/model"
)

// DownloadService opens gated artifacts.
type DownloadService interface {
	Open(ctx context.Context, principal model.Principal, fileType string) (model.Artifact, error)
}

// Download streams artifacts to entitled users.
type Download struct {
	downloadService DownloadService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

// NewDownload creates a new Download handler.
func NewDownload(downloadService DownloadService, contextManager model.ContextManager, logger *logger.Logger) *Download {
	return &Download{
		downloadService: downloadService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// Serve handles GET /api/download?file=<type>.
func (h *Download) Serve(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	fileType := r.URL.Query().Get("file")
	artifact, err := h.downloadService.Open(r.Context(), principal, fileType)
	if err != nil {
		h.logger.Warn("Download handler: download refused",
			"external_id", principal.ExternalID,
			"file", fileType,
			"error", err.Error())
		writeError(w, err)
		return
	}
	defer artifact.Body.Close()

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	if artifact.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(artifact.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, artifact.Body); err != nil {
		h.logger.Error("Download handler: stream interrupted",
			"external_id", principal.ExternalID,
			"file", artifact.FileName,
			"error", err.Error())
	}
}
