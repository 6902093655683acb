package store

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

const (
	defaultCacheExpiration = 10 * time.Minute
	cacheCleanupInterval   = 20 * time.Minute
)

// CachedStore は読み取り結果をメモリにキャッシュする Repository のデコレーターです。
// 書き込み系はそのまま委譲し、削除時には該当エントリを破棄します。
type CachedStore struct {
	Repository
	cache *cache.Cache
}

// NewCachedStore は Repository をキャッシュ付きでラップします。ttl が 0 以下なら既定値を使います。
func NewCachedStore(repo Repository, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheExpiration
	}
	return &CachedStore{
		Repository: repo,
		cache:      cache.New(ttl, cacheCleanupInterval),
	}
}

func storyKey(id int64) string     { return fmt.Sprintf("story:%d", id) }
func characterKey(id int64) string { return fmt.Sprintf("character:%d", id) }

// GetStory はキャッシュを優先して物語を取得します。
func (c *CachedStore) GetStory(ctx context.Context, id int64) (*domain.Story, error) {
	if v, ok := c.cache.Get(storyKey(id)); ok {
		return cloneStory(v.(*domain.Story)), nil
	}
	story, err := c.Repository.GetStory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(storyKey(id), cloneStory(story))
	return story, nil
}

// GetCharacter はキャッシュを優先してキャラクターを取得します。
func (c *CachedStore) GetCharacter(ctx context.Context, id int64) (*domain.CharacterRecord, error) {
	if v, ok := c.cache.Get(characterKey(id)); ok {
		rec := *v.(*domain.CharacterRecord)
		return &rec, nil
	}
	rec, err := c.Repository.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	cached := *rec
	c.cache.SetDefault(characterKey(id), &cached)
	return rec, nil
}

// DeleteStory は削除に成功したらキャッシュも破棄します。
func (c *CachedStore) DeleteStory(ctx context.Context, id int64) error {
	if err := c.Repository.DeleteStory(ctx, id); err != nil {
		return err
	}
	c.cache.Delete(storyKey(id))
	return nil
}

// cloneStory は呼び出し側の変更がキャッシュに波及しないようにページを複製します。
func cloneStory(s *domain.Story) *domain.Story {
	out := *s
	out.Pages = make([]domain.Page, len(s.Pages))
	copy(out.Pages, s.Pages)
	return &out
}
