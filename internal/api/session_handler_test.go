package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/domain/session"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/service/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectStudyCards(ts *testServer, userID, setID uuid.UUID) {
	ts.sets.On("GetStudyCards", mock.Anything, userID, setID).Return(
		&domain.Set{ID: setID, Title: "Animals"},
		[]session.Card{
			{ID: "c1", Term: "Dog", Definition: "Canine"},
			{ID: "c2", Term: "Cat", Definition: "Feline"},
		},
		nil,
	).Once()
}

func TestSessionHandler_Study(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	token := ts.token(t, userID)
	expectStudyCards(ts, userID, setID)

	rec := ts.do(t, http.MethodPost, "/api/sets/"+setID.String()+"/study", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decodeBody[SessionResponse](t, rec)
	require.NotNil(t, started.Study)
	assert.Nil(t, started.Match)
	assert.Equal(t, sessions.KindStudy, started.Kind)
	assert.Equal(t, "Dog", started.Study.Visible)

	base := "/api/sessions/" + started.ID.String()

	rec = ts.do(t, http.MethodPost, base+"/study/flip", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Canine", decodeBody[SessionResponse](t, rec).Study.Visible)

	rec = ts.do(t, http.MethodPost, base+"/study/next", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[SessionResponse](t, rec).Study.Index)

	rec = ts.do(t, http.MethodPost, base+"/study/next", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[SessionResponse](t, rec).Study.Completed)

	t.Run("completed session rejects navigation", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/study/next", token, nil)
		resp := requireError(t, rec, http.StatusConflict)
		assert.Equal(t, "Session is completed", resp.Error)
	})

	t.Run("marking requires tracking", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/study/known", token, nil)
		requireError(t, rec, http.StatusConflict)
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/study/shuffle", token, nil)
		requireError(t, rec, http.StatusBadRequest)
	})

	t.Run("match action on a study session", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/match/retry", token, nil)
		resp := requireError(t, rec, http.StatusConflict)
		assert.Equal(t, "Action does not apply to this session", resp.Error)
	})

	t.Run("get session", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decodeBody[SessionResponse](t, rec).Study.Completed)
	})

	t.Run("other users cannot reach it", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, base, ts.token(t, uuid.New()), nil)
		requireError(t, rec, http.StatusNotFound)
	})

	t.Run("close", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, base, token, nil).Code)
		requireError(t, ts.do(t, http.MethodGet, base, token, nil), http.StatusNotFound)
	})
}

func TestSessionHandler_TrackedStudy(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	token := ts.token(t, userID)
	expectStudyCards(ts, userID, setID)

	rec := ts.do(t, http.MethodPost, "/api/sets/"+setID.String()+"/study", token, StartStudyRequest{
		DefinitionFirst: true,
		TrackProgress:   true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decodeBody[SessionResponse](t, rec)
	assert.Equal(t, "Canine", started.Study.Front)
	base := "/api/sessions/" + started.ID.String()

	resp := requireError(t, ts.do(t, http.MethodPost, base+"/study/next", token, nil), http.StatusConflict)
	assert.Equal(t, "Navigation is disabled while tracking progress", resp.Error)

	rec = ts.do(t, http.MethodPost, base+"/study/known", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodPost, base+"/study/retry", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	state := decodeBody[SessionResponse](t, rec).Study
	assert.True(t, state.Completed)
	assert.Equal(t, 1, state.KnownCount)
	assert.Equal(t, 1, state.RetryCount)

	rec = ts.do(t, http.MethodPost, base+"/study/last", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = decodeBody[SessionResponse](t, rec).Study
	assert.Equal(t, 1, state.Index)
	assert.Equal(t, 0, state.RetryCount)
}

func TestSessionHandler_StartErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"empty set", session.ErrNoCards, http.StatusUnprocessableEntity, "Set has no cards"},
		{"private set", service.ErrSetNotVisible, http.StatusForbidden, "This set is private"},
		{"load failure", session.ErrDataUnavailable, http.StatusUnprocessableEntity, "Study data is unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			userID, setID := uuid.New(), uuid.New()
			ts.sets.On("GetStudyCards", mock.Anything, userID, setID).Return(nil, nil, tc.err).Once()

			rec := ts.do(t, http.MethodPost, "/api/sets/"+setID.String()+"/match", ts.token(t, userID), nil)

			resp := requireError(t, rec, tc.status)
			assert.Equal(t, tc.message, resp.Error)
		})
	}

	t.Run("malformed study options", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/sets/"+uuid.NewString()+"/study", ts.token(t, uuid.New()), `{"track":`)

		requireError(t, rec, http.StatusBadRequest)
	})
}

func TestSessionHandler_Match(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	token := ts.token(t, userID)
	expectStudyCards(ts, userID, setID)

	rec := ts.do(t, http.MethodPost, "/api/sets/"+setID.String()+"/match", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	started := decodeBody[SessionResponse](t, rec)
	require.NotNil(t, started.Match)
	assert.Equal(t, 2, started.Match.Total)
	assert.Len(t, started.Match.Terms, 2)
	base := "/api/sessions/" + started.ID.String()

	selectItem := func(side, id string) MatchSelectResponse {
		t.Helper()
		rec := ts.do(t, http.MethodPost, base+"/match/select", token, MatchSelectRequest{Side: side, ItemID: id})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decodeBody[MatchSelectResponse](t, rec)
	}

	assert.Equal(t, session.OutcomeSelected, selectItem("term", "c1").Outcome)
	assert.Equal(t, session.OutcomeDeselected, selectItem("term", "c1").Outcome)
	assert.Equal(t, session.OutcomeSelected, selectItem("term", "c1").Outcome)

	mismatched := selectItem("definition", "c2")
	assert.Equal(t, session.OutcomeMismatched, mismatched.Outcome)
	require.NotNil(t, mismatched.State.Mismatch)
	assert.Equal(t, "Dog", mismatched.State.Mismatch.Term.Text)
	assert.Equal(t, "Feline", mismatched.State.Mismatch.Definition.Text)
	assert.Zero(t, mismatched.State.Matched)

	// The flash holds for the configured delay.
	assert.Equal(t, session.OutcomeIgnored, selectItem("term", "c1").Outcome)

	t.Run("unknown item", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/match/select", token, MatchSelectRequest{Side: "term", ItemID: "nope"})
		resp := requireError(t, rec, http.StatusConflict)
		assert.Equal(t, "Unknown item", resp.Error)
	})

	t.Run("invalid side", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/match/select", token, MatchSelectRequest{Side: "middle", ItemID: "c1"})
		resp := requireError(t, rec, http.StatusBadRequest)
		assert.Equal(t, "Invalid side: invalid value", resp.Error)
	})

	t.Run("retry before completion", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/match/retry", token, nil)
		resp := requireError(t, rec, http.StatusConflict)
		assert.Equal(t, "Session is not completed", resp.Error)
	})

	t.Run("study action on a match session", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, base+"/study/flip", token, nil)
		requireError(t, rec, http.StatusConflict)
	})
}

func TestProgressHandler(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	ts.progress.records = []*domain.ProgressRecord{
		{ID: uuid.New(), UserID: userID, SetID: setID, CardsStudied: 2, CardsCorrect: 1, CompletionPercentage: 100},
		{ID: uuid.New(), UserID: uuid.New(), SetID: setID},
	}
	token := ts.token(t, userID)

	rec := ts.do(t, http.MethodGet, "/api/progress?set_id="+setID.String()+"&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[ProgressListResponse](t, rec)
	require.Len(t, resp.Records, 1)
	assert.Equal(t, 1, resp.Records[0].CardsCorrect)
	require.NotNil(t, ts.progress.gotSet)
	assert.Equal(t, setID, *ts.progress.gotSet)
	assert.Equal(t, 5, ts.progress.gotLim)

	rec = ts.do(t, http.MethodGet, "/api/progress", ts.token(t, uuid.New()), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"records":[]`)
	assert.Nil(t, ts.progress.gotSet)

	requireError(t, ts.do(t, http.MethodGet, "/api/progress?set_id=bad", token, nil), http.StatusBadRequest)
}
