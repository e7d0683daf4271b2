package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
)

// runSessionRepoContract checks the behavior every portfolio.Repository
// backend must share.
func runSessionRepoContract(t *testing.T, repo portfolio.Repository) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := portfolio.NewSession(time.Now().UTC())
		s.Builder.AddSkill("Go")
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
		assert.Equal(t, []string{"Go"}, got.Builder.Profile.Skills)
		assert.Equal(t, portfolio.ModeEdit, got.Mode)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, portfolio.ErrSessionNotFound)

		_, err = repo.Update(ctx, uuid.New(), func(*portfolio.Session) error { return nil })
		assert.ErrorIs(t, err, portfolio.ErrSessionNotFound)
	})

	t.Run("update commits", func(t *testing.T) {
		s := portfolio.NewSession(time.Now().UTC())
		require.NoError(t, repo.Save(ctx, s))

		out, err := repo.Update(ctx, s.ID, func(s *portfolio.Session) error {
			s.Builder.SetField(portfolio.FieldFullName, "Ada")
			s.SetMode(portfolio.ModePreview)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Ada", out.Builder.Profile.FullName)

		got, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ada", got.Builder.Profile.FullName)
		assert.Equal(t, portfolio.ModePreview, got.Mode)
	})

	t.Run("failed update leaves session untouched", func(t *testing.T) {
		s := portfolio.NewSession(time.Now().UTC())
		require.NoError(t, repo.Save(ctx, s))

		boom := errors.New("boom")
		_, err := repo.Update(ctx, s.ID, func(s *portfolio.Session) error {
			s.Builder.AddSkill("half applied")
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Builder.Profile.Skills)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		s := portfolio.NewSession(time.Now().UTC())
		require.NoError(t, repo.Save(ctx, s))

		got, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		got.Builder.AddSkill("local only")
		s.Builder.AddSkill("caller only")

		again, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Empty(t, again.Builder.Profile.Skills)
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		s := portfolio.NewSession(time.Now().UTC())
		require.NoError(t, repo.Save(ctx, s))

		const writers = 4
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Update(ctx, s.ID, func(s *portfolio.Session) error {
					s.Builder.AddSkill(string(rune('A' + i)))
					return nil
				})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		got, err := repo.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Len(t, got.Builder.Profile.Skills, writers)
	})

	t.Run("delete", func(t *testing.T) {
		s := portfolio.NewSession(time.Now().UTC())
		require.NoError(t, repo.Save(ctx, s))
		require.NoError(t, repo.Delete(ctx, s.ID))
		require.NoError(t, repo.Delete(ctx, s.ID))

		_, err := repo.Get(ctx, s.ID)
		assert.ErrorIs(t, err, portfolio.ErrSessionNotFound)
	})
}
