package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// StoryGenerator はストーリー生成パイプラインの契約です。
type StoryGenerator interface {
	GenerateStory(ctx context.Context, tmpl domain.Template, character domain.Character, pageCount int, language domain.Language, onProgress domain.ProgressFunc) ([]domain.Page, error)
}

// StorySaver は生成済みの物語を保存する契約です。
type StorySaver interface {
	CreateStory(ctx context.Context, story *domain.Story) (int64, error)
}

// StoryRunner はテンプレートの解決、生成、保存を1つの実行としてまとめます。
type StoryRunner struct {
	catalog  *prompts.Catalog
	pipeline StoryGenerator
	saver    StorySaver // nil の場合は保存しない
}

// NewStoryRunner は依存関係を注入して初期化します。
func NewStoryRunner(catalog *prompts.Catalog, pipeline StoryGenerator, saver StorySaver) *StoryRunner {
	return &StoryRunner{
		catalog:  catalog,
		pipeline: pipeline,
		saver:    saver,
	}
}

// Run は要求を検証して物語を生成し、保存先があれば保存します。
// 本文生成の失敗はそのまま返し、物語は保存しません。
func (r *StoryRunner) Run(ctx context.Context, req domain.StoryRequest, onProgress domain.ProgressFunc) (*domain.Story, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tmpl, ok := r.catalog.Get(req.TemplateID)
	if !ok {
		return nil, fmt.Errorf("%w: テンプレートが見つかりません: %s", domain.ErrInvalidInput, req.TemplateID)
	}

	runID := uuid.NewString()
	logger := slog.With("run_id", runID, "template_id", tmpl.ID, "character", req.Character.Name)
	logger.InfoContext(ctx, "StoryRunner: 物語の生成を開始します", "pages", req.PageCount, "language", req.Language)
	startTime := time.Now()

	pages, err := r.pipeline.GenerateStory(ctx, tmpl, req.Character, req.PageCount, req.Language, onProgress)
	if err != nil {
		logger.ErrorContext(ctx, "StoryRunner: 物語の生成に失敗しました", "error", err)
		return nil, err
	}

	story := &domain.Story{
		CharacterID: req.CharacterID,
		TemplateID:  tmpl.ID,
		Language:    req.Language,
		Prompt:      prompts.FillTemplate(tmpl.Localized(req.Language).Prompt, req.Character),
		Character:   req.Character,
		Pages:       pages,
	}

	if r.saver != nil {
		if _, err := r.saver.CreateStory(ctx, story); err != nil {
			return nil, fmt.Errorf("物語の保存に失敗しました: %w", err)
		}
	}

	logger.InfoContext(ctx, "StoryRunner: 物語の生成が完了しました",
		"story_id", story.ID,
		"illustrated", story.IllustratedCount(),
		"duration", time.Since(startTime).Round(time.Millisecond))
	return story, nil
}
