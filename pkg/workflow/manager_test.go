package workflow

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/pipeline"

	imagedom "github.com/shouni/gemini-image-kit/pkg/domain"
)

type stubAdapter struct {
	texts  int
	images int
}

func (a *stubAdapter) GenerateText(_ context.Context, prompt string) (string, error) {
	a.texts++
	return "Once upon a time " + strings.Repeat(".", a.texts), nil
}

func (a *stubAdapter) GenerateImage(_ context.Context, _ imagedom.ImageGenerationRequest) (*imagedom.ImageResponse, error) {
	a.images++
	return &imagedom.ImageResponse{Data: []byte("xyz"), MimeType: "image/jpeg"}, nil
}

func TestNew(t *testing.T) {
	t.Run("アダプターもAPIキーも無い場合はエラーとなること", func(t *testing.T) {
		_, err := New(context.Background(), ManagerArgs{Config: config.DefaultConfig()})
		assert.Error(t, err)
	})

	t.Run("既定のカタログが読み込まれること", func(t *testing.T) {
		a := &stubAdapter{}
		m, err := New(context.Background(), ManagerArgs{TextAdapter: a, ImageAdapter: a})
		require.NoError(t, err)
		assert.Equal(t, 13, m.Catalog().Len())
	})
}

func TestManager_BuildStoryRunner(t *testing.T) {
	a := &stubAdapter{}
	var states []pipeline.State
	m, err := New(context.Background(), ManagerArgs{
		TextAdapter:   a,
		ImageAdapter:  a,
		StateObserver: func(s pipeline.State, _ int) { states = append(states, s) },
	})
	require.NoError(t, err)

	r, err := m.BuildStoryRunner()
	require.NoError(t, err)

	story, err := r.Run(context.Background(), domain.StoryRequest{
		TemplateID: "birthday",
		PageCount:  3,
		Character:  domain.Character{Name: "Alice", Age: "5", Gender: domain.GenderGirl, FavoriteThing: "unicorns"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, a.texts)
	assert.Equal(t, 3, a.images)
	assert.Equal(t, 3, story.IllustratedCount())
	assert.Equal(t, "data:image/jpeg;base64,eHl6", *story.Pages[0].ImageData)
	assert.Contains(t, story.Prompt, "Alice, a 5-year-old girl")
	require.NotEmpty(t, states)
	assert.Equal(t, pipeline.StateDone, states[len(states)-1])
}

func TestManager_BuildPublishRunner(t *testing.T) {
	a := &stubAdapter{}
	m, err := New(context.Background(), ManagerArgs{TextAdapter: a, ImageAdapter: a})
	require.NoError(t, err)

	pr, err := m.BuildPublishRunner()
	require.NoError(t, err)

	md := pr.BuildMarkdown(&domain.Story{TemplateID: "birthday", Pages: []domain.Page{{PageNumber: 1, Text: "hi"}}})
	assert.Contains(t, md, "# My Birthday Party")
}

func TestManager_BuildBatchRunner(t *testing.T) {
	a := &stubAdapter{}
	m, err := New(context.Background(), ManagerArgs{
		Config:       config.Config{BatchConcurrency: 1},
		TextAdapter:  a,
		ImageAdapter: a,
	})
	require.NoError(t, err)

	br, err := m.BuildBatchRunner()
	require.NoError(t, err)

	results := br.Run(context.Background(), []domain.StoryRequest{
		{TemplateID: "birthday", PageCount: 3, Character: domain.Character{Name: "A", Age: "4"}},
		{TemplateID: "unknown", PageCount: 3, Character: domain.Character{Name: "B", Age: "4"}},
	}, nil)

	require.Len(t, results, 2)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, domain.ErrInvalidInput)
}
