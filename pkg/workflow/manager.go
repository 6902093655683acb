package workflow

import (
	"context"
	"fmt"

	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// Manager は、ワークフローの各工程を担う Runner 群を構築・管理します。
type Manager struct {
	cfg       config.Config
	catalog   *prompts.Catalog
	store     runner.StorySaver
	writer    publisher.OutputWriter
	generator generator.PageGenerator
	observer  pipeline.StateObserver
}

// New は、設定と依存関係を基に新しい Manager を初期化します。
// アダプターが渡されない場合は Gemini クライアントを生成するため、APIキーが必要です。
func New(ctx context.Context, args ManagerArgs) (*Manager, error) {
	cfg := args.Config.WithDefaults()

	textAdapter, imageAdapter, err := initializeAdapters(ctx, cfg, args.TextAdapter, args.ImageAdapter)
	if err != nil {
		return nil, err
	}

	sp, err := initializeStoryPrompt(args.StoryPrompt)
	if err != nil {
		return nil, err
	}

	catalog, err := initializeCatalog(args.Catalog)
	if err != nil {
		return nil, err
	}

	writer := args.Writer
	if writer == nil {
		writer = publisher.NewLocalWriter()
	}

	return &Manager{
		cfg:       cfg,
		catalog:   catalog,
		store:     args.Store,
		writer:    writer,
		generator: generator.NewStoryClient(textAdapter, imageAdapter, sp, cfg.AspectRatio),
		observer:  args.StateObserver,
	}, nil
}

// Catalog は Manager が利用するテンプレートカタログを返します。
func (m *Manager) Catalog() *prompts.Catalog {
	return m.catalog
}

// initializeAdapters は不足しているアダプターを Gemini アダプターで補います。
func initializeAdapters(ctx context.Context, cfg config.Config, text adapters.TextAdapter, image adapters.ImageAdapter) (adapters.TextAdapter, adapters.ImageAdapter, error) {
	if text != nil && image != nil {
		return text, image, nil
	}

	gemini, err := adapters.NewGeminiAdapter(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("Gemini アダプターの初期化に失敗しました: %w", err)
	}
	if text == nil {
		text = gemini
	}
	if image == nil {
		image = gemini
	}
	return text, image, nil
}

// initializeStoryPrompt は StoryPrompt ビルダーを初期化します。
// 引数として既存のビルダーが渡された場合はそれを返し、nil の場合は新規作成します。
func initializeStoryPrompt(sp prompts.StoryPrompt) (prompts.StoryPrompt, error) {
	if sp != nil {
		return sp, nil
	}

	pb, err := prompts.NewStoryPromptBuilder()
	if err != nil {
		return nil, fmt.Errorf("StoryPromptBuilder の新規作成に失敗しました: %w", err)
	}
	return pb, nil
}

func initializeCatalog(c *prompts.Catalog) (*prompts.Catalog, error) {
	if c != nil {
		return c, nil
	}

	catalog, err := prompts.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("テンプレートカタログの読み込みに失敗しました: %w", err)
	}
	return catalog, nil
}
