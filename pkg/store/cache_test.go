package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// countingRepo は GetStory の呼び出し回数を数える Repository なのだ。
type countingRepo struct {
	Repository
	storyCalls     int
	characterCalls int
}

func (r *countingRepo) GetStory(ctx context.Context, id int64) (*domain.Story, error) {
	r.storyCalls++
	return r.Repository.GetStory(ctx, id)
}

func (r *countingRepo) GetCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error) {
	r.characterCalls++
	return r.Repository.GetCharacter(ctx, id)
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	repo := &countingRepo{Repository: openTestStore(t)}
	cs := NewCachedStore(repo, 0)

	id, err := cs.CreateStory(ctx, &domain.Story{Prompt: "p", Pages: []domain.Page{{Text: "a"}}})
	require.NoError(t, err)

	t.Run("2回目の取得はキャッシュから返すこと", func(t *testing.T) {
		first, err := cs.GetStory(ctx, id)
		require.NoError(t, err)
		second, err := cs.GetStory(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.storyCalls)
		assert.Equal(t, first.Pages, second.Pages)
	})

	t.Run("取得結果を変更してもキャッシュに影響しないこと", func(t *testing.T) {
		got, err := cs.GetStory(ctx, id)
		require.NoError(t, err)
		got.Pages[0].Text = "changed"

		again, err := cs.GetStory(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "a", again.Pages[0].Text)
	})

	t.Run("削除するとキャッシュも破棄されること", func(t *testing.T) {
		require.NoError(t, cs.DeleteStory(ctx, id))
		_, err := cs.GetStory(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("キャラクターもキャッシュされること", func(t *testing.T) {
		charID, err := cs.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			got, err := cs.GetCharacter(ctx, charID)
			require.NoError(t, err)
			assert.Equal(t, "Alice", got.Name)
		}
		assert.Equal(t, 1, repo.characterCalls)
	})
}
