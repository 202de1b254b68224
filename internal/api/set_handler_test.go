package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/deckfile"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/service"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testDetail(owner uuid.UUID) *service.SetDetail {
	set := &domain.Set{ID: uuid.New(), UserID: owner, Title: "Animals"}
	return &service.SetDetail{
		Set: set,
		Cards: []*domain.Card{
			{ID: uuid.New(), SetID: set.ID, Term: "Dog", Definition: "Canine"},
			{ID: uuid.New(), SetID: set.ID, Term: "Cat", Definition: "Feline", Position: 1},
		},
	}
}

func TestSetHandler_ListSets(t *testing.T) {
	t.Run("parses scope, sort and paging", func(t *testing.T) {
		ts := newTestServer(t)
		userID := uuid.New()
		opts := store.ListOptions{Sort: domain.SortAlphabetical, Limit: 10, Offset: 20}
		ts.sets.On("ListSets", mock.Anything, userID, domain.ScopePublic, opts).
			Return([]store.SetSummary{{Set: domain.Set{Title: "Animals"}, CardCount: 2}}, nil).Once()

		rec := ts.do(t, http.MethodGet, "/api/sets?scope=public&sort=alphabetical&limit=10&offset=20", ts.token(t, userID), nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[SetListResponse](t, rec)
		require.Len(t, resp.Sets, 1)
		assert.Equal(t, 2, resp.Sets[0].CardCount)
	})

	t.Run("empty listing is an empty array", func(t *testing.T) {
		ts := newTestServer(t)
		userID := uuid.New()
		ts.sets.On("ListSets", mock.Anything, userID, domain.ScopeMine, store.ListOptions{Sort: domain.SortNewest}).
			Return(nil, nil).Once()

		rec := ts.do(t, http.MethodGet, "/api/sets", ts.token(t, userID), nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"sets":[]`)
	})

	for _, query := range []string{"scope=everyone", "sort=random", "limit=-1", "offset=abc"} {
		t.Run("rejects "+query, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(t, http.MethodGet, "/api/sets?"+query, ts.token(t, uuid.New()), nil)

			requireError(t, rec, http.StatusBadRequest)
		})
	}
}

func TestSetHandler_CreateSet(t *testing.T) {
	t.Run("creates with cards", func(t *testing.T) {
		ts := newTestServer(t)
		userID := uuid.New()
		detail := testDetail(userID)
		ts.sets.On("CreateSet", mock.Anything, userID,
			service.SetInput{Title: "Animals", IsPublic: true},
			[]domain.CardContent{{Term: "Dog", Definition: "Canine"}},
		).Return(detail, nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/sets", ts.token(t, userID), CreateSetRequest{
			SetRequest: SetRequest{Title: "Animals", IsPublic: true},
			Cards:      []CardRequest{{Term: "Dog", Definition: "Canine"}},
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decodeBody[SetDetailResponse](t, rec)
		assert.Equal(t, detail.Set.ID, resp.ID)
		assert.Len(t, resp.Cards, 2)
	})

	t.Run("missing title", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/sets", ts.token(t, uuid.New()), CreateSetRequest{})

		resp := requireError(t, rec, http.StatusBadRequest)
		assert.Equal(t, "Invalid title: required field", resp.Error)
	})

	t.Run("card without definition", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/sets", ts.token(t, uuid.New()), CreateSetRequest{
			SetRequest: SetRequest{Title: "Animals"},
			Cards:      []CardRequest{{Term: "Dog"}},
		})

		resp := requireError(t, rec, http.StatusBadRequest)
		assert.Equal(t, "Invalid definition: required field", resp.Error)
	})
}

func TestSetHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", store.ErrSetNotFound, http.StatusNotFound, "Set not found"},
		{"private", service.ErrSetNotVisible, http.StatusForbidden, "This set is private"},
		{"not owner", service.ErrNotOwned, http.StatusForbidden, "You do not own this set"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			userID, setID := uuid.New(), uuid.New()
			ts.sets.On("GetSet", mock.Anything, userID, setID).Return(nil, tc.err).Once()

			rec := ts.do(t, http.MethodGet, "/api/sets/"+setID.String(), ts.token(t, userID), nil)

			resp := requireError(t, rec, tc.status)
			assert.Equal(t, tc.message, resp.Error)
		})
	}

	t.Run("malformed id", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/api/sets/not-a-uuid", ts.token(t, uuid.New()), nil)

		resp := requireError(t, rec, http.StatusBadRequest)
		assert.Equal(t, "Invalid ID", resp.Error)
	})
}

func TestSetHandler_UpdateAndDelete(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	token := ts.token(t, userID)

	ts.sets.On("UpdateSet", mock.Anything, userID, setID, service.SetInput{Title: "Pets"}).
		Return(&domain.Set{ID: setID, Title: "Pets"}, nil).Once()
	rec := ts.do(t, http.MethodPut, "/api/sets/"+setID.String(), token, SetRequest{Title: "Pets"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Pets", decodeBody[domain.Set](t, rec).Title)

	ts.sets.On("DeleteSet", mock.Anything, userID, setID).Return(nil).Once()
	rec = ts.do(t, http.MethodDelete, "/api/sets/"+setID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetHandler_Cards(t *testing.T) {
	ts := newTestServer(t)
	userID, setID, cardID := uuid.New(), uuid.New(), uuid.New()
	token := ts.token(t, userID)
	base := "/api/sets/" + setID.String() + "/cards"

	ts.sets.On("AddCards", mock.Anything, userID, setID, []domain.CardContent{{Term: "Cow", Definition: "Bovine"}}).
		Return([]*domain.Card{{ID: cardID, SetID: setID, Term: "Cow", Definition: "Bovine", Position: 2}}, nil).Once()
	rec := ts.do(t, http.MethodPost, base, token, AddCardsRequest{Cards: []CardRequest{{Term: "Cow", Definition: "Bovine"}}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeBody[CardListResponse](t, rec).Cards[0].Position)

	rec = ts.do(t, http.MethodPost, base, token, AddCardsRequest{})
	requireError(t, rec, http.StatusBadRequest)

	ts.sets.On("UpdateCard", mock.Anything, userID, setID, cardID, domain.CardContent{Term: "Ox", Definition: "Bovine"}).
		Return(nil, store.ErrCardNotFound).Once()
	rec = ts.do(t, http.MethodPut, base+"/"+cardID.String(), token, CardRequest{Term: "Ox", Definition: "Bovine"})
	assert.Equal(t, "Card not found", requireError(t, rec, http.StatusNotFound).Error)

	ts.sets.On("DeleteCard", mock.Anything, userID, setID, cardID).Return(nil).Once()
	rec = ts.do(t, http.MethodDelete, base+"/"+cardID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetHandler_Favorites(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	token := ts.token(t, userID)
	path := "/api/sets/" + setID.String() + "/favorite"

	ts.sets.On("Favorite", mock.Anything, userID, setID).Return(nil).Once()
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodPost, path, token, nil).Code)

	ts.sets.On("Unfavorite", mock.Anything, userID, setID).Return(store.ErrFavoriteNotFound).Once()
	requireError(t, ts.do(t, http.MethodDelete, path, token, nil), http.StatusNotFound)
}

func TestSetHandler_ImportSet(t *testing.T) {
	t.Run("csv body", func(t *testing.T) {
		ts := newTestServer(t)
		userID := uuid.New()
		ts.sets.On("ImportSet", mock.Anything, userID, &deckfile.Deck{
			Title: "Imported deck",
			Cards: []domain.CardContent{{Term: "ser", Definition: "to be"}, {Term: "tener", Definition: "to have"}},
		}).Return(testDetail(userID), nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/sets/import?format=csv", ts.token(t, userID),
			"term,definition\nser,to be\ntener,to have\n")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("unsupported format", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/sets/import?format=pdf", ts.token(t, uuid.New()), "x")

		requireError(t, rec, http.StatusBadRequest)
	})

	t.Run("unparseable yaml", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/sets/import", ts.token(t, uuid.New()), "title: [unclosed")

		resp := requireError(t, rec, http.StatusBadRequest)
		assert.Equal(t, "Deck file could not be parsed", resp.Error)
	})

	t.Run("malformed csv row", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/sets/import?format=csv", ts.token(t, uuid.New()), "ser,to be\nlonely\n")

		resp := requireError(t, rec, http.StatusBadRequest)
		assert.Contains(t, resp.Error, "row 2")
	})
}

func TestSetHandler_ExportSet(t *testing.T) {
	ts := newTestServer(t)
	userID, setID := uuid.New(), uuid.New()
	ts.sets.On("ExportSet", mock.Anything, userID, setID).Return(&deckfile.Deck{
		Title: "Spanish Verbs!",
		Cards: []domain.CardContent{{Term: "ser", Definition: "to be"}},
	}, nil).Twice()

	rec := ts.do(t, http.MethodGet, "/api/sets/"+setID.String()+"/export?format=csv", ts.token(t, userID), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="spanish-verbs.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "term,definition\nser,to be\n", rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/sets/"+setID.String()+"/export", ts.token(t, userID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	deck, err := deckfile.Decode(strings.NewReader(rec.Body.String()), deckfile.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "Spanish Verbs!", deck.Title)
}
