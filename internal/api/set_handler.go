package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/phrazzld/flipdeck/internal/api/shared"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/logger"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/store"
)

// MaxImportBytes bounds uploaded deck files.
const MaxImportBytes = 5 << 20

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SetHandler serves sets, their cards, favorites and deck import/export.
type SetHandler struct {
	sets   service.SetService
	logger *slog.Logger
}

// NewSetHandler creates a SetHandler.
func NewSetHandler(sets service.SetService, logger *slog.Logger) *SetHandler {
	if sets == nil {
		panic("sets cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SetHandler{
		sets:   sets,
		logger: logger.With(slog.String("component", "set_handler")),
	}
}

// ListSets handles GET /sets?scope=&sort=&limit=&offset=.
func (h *SetHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	query := r.URL.Query()
	scope, err := domain.ParseSetScope(query.Get("scope"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	sort, err := domain.ParseSetSort(query.Get("sort"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	opts := store.ListOptions{Sort: sort, Limit: limit, Offset: offset}
	sets, err := h.sets.ListSets(r.Context(), userID, scope, opts)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list sets")
		return
	}
	if sets == nil {
		sets = []store.SetSummary{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SetListResponse{Sets: sets, Limit: limit, Offset: offset})
}

// CreateSet handles POST /sets.
func (h *SetHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateSetRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	detail, err := h.sets.CreateSet(r.Context(), userID, service.SetInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}, cardsToContents(req.Cards))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create set")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, detailToResponse(detail))
}

// GetSet handles GET /sets/{id}.
func (h *SetHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	detail, err := h.sets.GetSet(r.Context(), userID, setID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load set")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detailToResponse(detail))
}

// UpdateSet handles PUT /sets/{id}.
func (h *SetHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SetRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	set, err := h.sets.UpdateSet(r.Context(), userID, setID, service.SetInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update set")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// DeleteSet handles DELETE /sets/{id}.
func (h *SetHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.sets.DeleteSet(r.Context(), userID, setID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddCards handles POST /sets/{id}/cards.
func (h *SetHandler) AddCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req AddCardsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	cards, err := h.sets.AddCards(r.Context(), userID, setID, cardsToContents(req.Cards))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, CardListResponse{Cards: cards})
}

// UpdateCard handles PUT /sets/{id}/cards/{cardID}.
func (h *SetHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req CardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.sets.UpdateCard(r.Context(), userID, setID, cardID, domain.CardContent{
		Term:       req.Term,
		Definition: req.Definition,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /sets/{id}/cards/{cardID}.
func (h *SetHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	cardID, err := getPathUUID(r, "cardID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.sets.DeleteCard(r.Context(), userID, setID, cardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete card")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Favorite handles POST /sets/{id}/favorite.
func (h *SetHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.sets.Favorite(r.Context(), userID, setID); err != nil {
		HandleAPIError(w, r, err, "Failed to favorite set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unfavorite handles DELETE /sets/{id}/favorite.
func (h *SetHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.sets.Unfavorite(r.Context(), userID, setID); err != nil {
		HandleAPIError(w, r, err, "Failed to unfavorite set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ImportSet handles POST /sets/import?format=. The body is the raw deck file.
func (h *SetHandler) ImportSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	format, err := deckFormat(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deck, err := deckfile.Decode(http.MaxBytesReader(w, r.Body, MaxImportBytes), format)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to read deck")
		return
	}
	if strings.TrimSpace(deck.Title) == "" {
		deck.Title = "Imported deck"
	}

	detail, err := h.sets.ImportSet(r.Context(), userID, deck)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to import set")
		return
	}
	log.Info("set imported",
		slog.String("set_id", detail.Set.ID.String()),
		slog.String("format", string(format)),
		slog.Int("card_count", len(detail.Cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, detailToResponse(detail))
}

// ExportSet handles GET /sets/{id}/export?format=.
func (h *SetHandler) ExportSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	format, err := deckFormat(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	deck, err := h.sets.ExportSet(r.Context(), userID, setID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export set")
		return
	}

	var buf bytes.Buffer
	if err := deckfile.Encode(&buf, format, deck); err != nil {
		HandleAPIError(w, r, err, "Failed to export set")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s.%s"`, exportFilename(deck.Title), format))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("failed to write export", "error", err)
	}
}

// deckFormat reads the format query parameter. YAML is the default.
func deckFormat(r *http.Request) (deckfile.Format, error) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		return deckfile.FormatYAML, nil
	}
	return deckfile.ParseFormat(raw)
}

func exportFilename(title string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, "-"), "-.")
	if name == "" {
		return "deck"
	}
	return strings.ToLower(name)
}
