package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet(t *testing.T) {
	t.Parallel()

	owner := uuid.New()

	set, err := NewSet(owner, "  Spanish verbs ", " ar, er, ir ", true)
	require.NoError(t, err)
	assert.Equal(t, "Spanish verbs", set.Title)
	assert.Equal(t, "ar, er, ir", set.Description)
	assert.True(t, set.IsPublic)
	assert.Equal(t, owner, set.UserID)

	_, err = NewSet(owner, "   ", "", false)
	assert.ErrorIs(t, err, ErrSetTitleEmpty)

	_, err = NewSet(owner, strings.Repeat("t", MaxSetTitleLength+1), "", false)
	assert.ErrorIs(t, err, ErrSetTitleTooLong)

	_, err = NewSet(owner, "ok", strings.Repeat("d", MaxSetDescriptionLength+1), false)
	assert.ErrorIs(t, err, ErrSetDescriptionTooLong)

	_, err = NewSet(uuid.Nil, "ok", "", false)
	assert.ErrorIs(t, err, ErrSetUserIDEmpty)
}

func TestSetAccess(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	stranger := uuid.New()

	tests := []struct {
		name     string
		isPublic bool
		user     uuid.UUID
		canView  bool
		canEdit  bool
	}{
		{name: "owner of private set", user: owner, canView: true, canEdit: true},
		{name: "stranger on private set", user: stranger},
		{name: "anonymous on private set", user: uuid.Nil},
		{name: "owner of public set", isPublic: true, user: owner, canView: true, canEdit: true},
		{name: "stranger on public set", isPublic: true, user: stranger, canView: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := &Set{ID: uuid.New(), UserID: owner, Title: "t", IsPublic: tt.isPublic}
			assert.Equal(t, tt.canView, set.CanView(tt.user))
			assert.Equal(t, tt.canEdit, set.CanEdit(tt.user))
		})
	}
}

func TestParseSetSortAndScope(t *testing.T) {
	t.Parallel()

	sort, err := ParseSetSort("")
	require.NoError(t, err)
	assert.Equal(t, SortNewest, sort)

	sort, err = ParseSetSort("Alphabetical")
	require.NoError(t, err)
	assert.Equal(t, SortAlphabetical, sort)

	_, err = ParseSetSort("random")
	assert.ErrorIs(t, err, ErrValidation)

	scope, err := ParseSetScope("favorites")
	require.NoError(t, err)
	assert.Equal(t, ScopeFavorites, scope)

	scope, err = ParseSetScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeMine, scope)

	_, err = ParseSetScope("everyone")
	assert.ErrorIs(t, err, ErrValidation)
}
