package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
)

// SessionManager owns the live sessions served by SessionHandler.
type SessionManager interface {
	StartStudy(ctx context.Context, userID, setID uuid.UUID, params sessions.StudyParams) (sessions.Info, session.StudyState, error)
	StartMatch(ctx context.Context, userID, setID uuid.UUID) (sessions.Info, session.MatchState, error)
	Info(userID, sessionID uuid.UUID) (sessions.Info, error)
	Study(userID, sessionID uuid.UUID) (*session.StudySession, error)
	Match(userID, sessionID uuid.UUID) (*session.MatchSession, error)
	Close(userID, sessionID uuid.UUID) error
}

var _ SessionManager = (*sessions.Manager)(nil)

// studyActions maps the {action} path segment to a study operation.
var studyActions = map[string]func(*session.StudySession) error{
	"flip":    (*session.StudySession).Flip,
	"next":    (*session.StudySession).Next,
	"prev":    (*session.StudySession).Prev,
	"known":   (*session.StudySession).MarkKnown,
	"retry":   (*session.StudySession).MarkRetry,
	"restart": (*session.StudySession).Restart,
	"last":    (*session.StudySession).GoToLastCard,
}

// SessionHandler serves study and match sessions.
type SessionHandler struct {
	manager SessionManager
	logger  *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(manager SessionManager, logger *slog.Logger) *SessionHandler {
	if manager == nil {
		panic("manager cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		manager: manager,
		logger:  logger.With(slog.String("component", "session_handler")),
	}
}

// StartStudy handles POST /sets/{id}/study. The body is optional.
func (h *SessionHandler) StartStudy(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req StartStudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	info, state, err := h.manager.StartStudy(r.Context(), userID, setID, sessions.StudyParams{
		DefinitionFirst: req.DefinitionFirst,
		TrackProgress:   req.TrackProgress,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{Info: info, Study: &state})
}

// StartMatch handles POST /sets/{id}/match.
func (h *SessionHandler) StartMatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	info, state, err := h.manager.StartMatch(r.Context(), userID, setID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start match session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{Info: info, Match: &state})
}

// GetSession handles GET /sessions/{sid}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sid", log)
	if !ok {
		return
	}

	resp, err := h.snapshot(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load session")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// CloseSession handles DELETE /sessions/{sid}.
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sid", log)
	if !ok {
		return
	}

	if err := h.manager.Close(userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to close session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StudyAction handles POST /sessions/{sid}/study/{action}.
func (h *SessionHandler) StudyAction(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sid", log)
	if !ok {
		return
	}

	action := chi.URLParam(r, "action")
	apply, known := studyActions[action]
	if !known {
		HandleAPIError(w, r, fmt.Errorf("%w: unknown study action %q", domain.ErrValidation, action), "")
		return
	}

	info, err := h.manager.Info(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	study, err := h.manager.Study(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := apply(study); err != nil {
		HandleAPIError(w, r, err, "Failed to update session")
		return
	}

	state := study.Snapshot()
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Info: info, Study: &state})
}

// MatchSelect handles POST /sessions/{sid}/match/select.
func (h *SessionHandler) MatchSelect(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sid", log)
	if !ok {
		return
	}

	var req MatchSelectRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	match, err := h.manager.Match(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	outcome, err := match.Select(session.Side(req.Side), req.ItemID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to select item")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MatchSelectResponse{Outcome: outcome, State: match.Snapshot()})
}

// MatchRetry handles POST /sessions/{sid}/match/retry.
func (h *SessionHandler) MatchRetry(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "sid", log)
	if !ok {
		return
	}

	info, err := h.manager.Info(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	match, err := h.manager.Match(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if err := match.Retry(); err != nil {
		HandleAPIError(w, r, err, "Failed to retry match")
		return
	}

	state := match.Snapshot()
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Info: info, Match: &state})
}

func (h *SessionHandler) snapshot(userID, sessionID uuid.UUID) (SessionResponse, error) {
	info, err := h.manager.Info(userID, sessionID)
	if err != nil {
		return SessionResponse{}, err
	}

	resp := SessionResponse{Info: info}
	switch info.Kind {
	case sessions.KindStudy:
		study, err := h.manager.Study(userID, sessionID)
		if err != nil {
			return SessionResponse{}, err
		}
		state := study.Snapshot()
		resp.Study = &state
	case sessions.KindMatch:
		match, err := h.manager.Match(userID, sessionID)
		if err != nil {
			return SessionResponse{}, err
		}
		state := match.Snapshot()
		resp.Match = &state
	}
	return resp, nil
}
