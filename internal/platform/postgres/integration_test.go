//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flipdeck/internal/domain"
	"github.com/phrazzld/flipdeck/internal/platform/postgres"
	"github.com/phrazzld/flipdeck/internal/store"
	"github.com/phrazzld/flipdeck/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "averylongpassword")
	require.NoError(t, err)
	user.HashedPassword = "$2a$04$notarealhashbutlongenough"
	user.Password = ""
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(context.Background(), user))
	return user
}

func createSet(t *testing.T, tx *sql.Tx, owner uuid.UUID, title string, public bool, terms ...string) *domain.Set {
	t.Helper()
	ctx := context.Background()

	set, err := domain.NewSet(owner, title, "", public)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresSetStore(tx, nil).Create(ctx, set))

	cards := make([]*domain.Card, len(terms))
	for i, term := range terms {
		cards[i], err = domain.NewCard(set.ID, term, "definition of "+term, i)
		require.NoError(t, err)
	}
	if len(cards) > 0 {
		require.NoError(t, postgres.NewPostgresCardStore(tx, nil).CreateMultiple(ctx, cards))
	}
	return set
}

func TestUserStoreIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, nil)
		user := createUser(t, tx, "learner@example.com")

		got, err := users.GetByEmail(ctx, "learner@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		duplicate, err := domain.NewUser("learner@example.com", "averylongpassword")
		require.NoError(t, err)
		duplicate.HashedPassword = "hash"
		assert.ErrorIs(t, users.Create(ctx, duplicate), store.ErrEmailExists)

		require.NoError(t, users.UpdateEmail(ctx, user.ID, "renamed@example.com"))
		got, err = users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "renamed@example.com", got.Email)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestSetAndCardStoreIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		sets := postgres.NewPostgresSetStore(tx, nil)
		cards := postgres.NewPostgresCardStore(tx, nil)
		favorites := postgres.NewPostgresFavoriteStore(tx, nil)

		owner := createUser(t, tx, "owner@example.com")
		viewer := createUser(t, tx, "viewer@example.com")
		verbs := createSet(t, tx, owner.ID, "Verbs", true, "ser", "tener")
		createSet(t, tx, owner.ID, "Animals", false, "perro")

		listed, err := cards.ListBySet(ctx, verbs.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "ser", listed[0].Term)

		next, err := cards.NextPosition(ctx, verbs.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, next)

		mine, err := sets.ListByOwner(ctx, owner.ID, store.ListOptions{Sort: domain.SortAlphabetical})
		require.NoError(t, err)
		require.Len(t, mine, 2)
		assert.Equal(t, "Animals", mine[0].Title)
		assert.Equal(t, 2, mine[1].CardCount)

		public, err := sets.ListPublic(ctx, viewer.ID, store.ListOptions{Sort: domain.SortNewest})
		require.NoError(t, err)
		var publicIDs []uuid.UUID
		for _, s := range public {
			publicIDs = append(publicIDs, s.ID)
		}
		assert.Contains(t, publicIDs, verbs.ID)

		require.NoError(t, favorites.Add(ctx, viewer.ID, verbs.ID))
		require.NoError(t, favorites.Add(ctx, viewer.ID, verbs.ID), "adding a favorite twice is a no-op")
		favs, err := sets.ListFavorites(ctx, viewer.ID, store.ListOptions{Sort: domain.SortNewest})
		require.NoError(t, err)
		require.Len(t, favs, 1)
		assert.True(t, favs[0].IsFavorite)

		require.NoError(t, sets.Delete(ctx, verbs.ID))
		remaining, err := cards.ListBySet(ctx, verbs.ID)
		require.NoError(t, err)
		assert.Empty(t, remaining, "cards cascade with their set")
		exists, err := favorites.Exists(ctx, viewer.ID, verbs.ID)
		require.NoError(t, err)
		assert.False(t, exists, "favorites cascade with their set")
		assert.ErrorIs(t, sets.Delete(ctx, verbs.ID), store.ErrSetNotFound)
	})
}

func TestProgressStoreIntegration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		progress := postgres.NewPostgresProgressStore(tx, nil)
		user := createUser(t, tx, "progress@example.com")
		verbs := createSet(t, tx, user.ID, "Verbs", false, "ser", "tener")
		animals := createSet(t, tx, user.ID, "Animals", false, "perro")

		base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
		for i, setID := range []uuid.UUID{verbs.ID, animals.ID, verbs.ID} {
			record, err := domain.NewProgressRecord(user.ID, setID, 2, i, 100, base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, err)
			require.NoError(t, progress.Create(ctx, record))
		}

		all, err := progress.ListByUser(ctx, user.ID, nil, 10)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, 2, all[0].CardsCorrect, "newest first")

		onlyVerbs, err := progress.ListByUser(ctx, user.ID, &verbs.ID, 10)
		require.NoError(t, err)
		assert.Len(t, onlyVerbs, 2)

		limited, err := progress.ListByUser(ctx, user.ID, nil, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}
