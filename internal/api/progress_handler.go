package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/service/progress"
)

// ProgressLister lists a user's completed study passes.
type ProgressLister interface {
	List(ctx context.Context, userID uuid.UUID, setID *uuid.UUID, limit int) ([]*domain.ProgressRecord, error)
}

var _ ProgressLister = (*progress.Service)(nil)

// ProgressHandler serves progress history.
type ProgressHandler struct {
	progress ProgressLister
	logger   *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progress ProgressLister, logger *slog.Logger) *ProgressHandler {
	if progress == nil {
		panic("progress cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: progress,
		logger:   logger.With(slog.String("component", "progress_handler")),
	}
}

// ListProgress handles GET /progress?set_id=&limit=.
func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var setID *uuid.UUID
	if raw := r.URL.Query().Get("set_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			HandleAPIError(w, r, fmt.Errorf("%w: set_id", domain.ErrInvalidID), "")
			return
		}
		setID = &id
	}
	limit, err := queryInt(r, "limit", progress.DefaultListLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	records, err := h.progress.List(r.Context(), userID, setID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load progress")
		return
	}
	if records == nil {
		records = []*domain.ProgressRecord{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ProgressListResponse{Records: records})
}
