package runner

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
)

// DefaultPublisherRunner は pkg/publisher を利用した標準実装なのだ。
type DefaultPublisherRunner struct {
	catalog   *prompts.Catalog
	publisher *publisher.StoryPublisher
}

func NewDefaultPublisherRunner(catalog *prompts.Catalog, pub *publisher.StoryPublisher) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		catalog:   catalog,
		publisher: pub,
	}
}

// Run は物語をテンプレートのタイトル付きで outputDir に書き出します。
func (pr *DefaultPublisherRunner) Run(ctx context.Context, story *domain.Story, outputDir string) (publisher.PublishResult, error) {
	opts := publisher.Options{
		OutputDir: outputDir,
		Title:     pr.titleFor(story),
	}
	return pr.publisher.Publish(ctx, story, opts)
}

// BuildMarkdown は保存処理を行わず、物語から Markdown 文字列のみを生成して返却します。
// 画像は data URI のまま埋め込みます。
func (pr *DefaultPublisherRunner) BuildMarkdown(story *domain.Story) string {
	return publisher.BuildMarkdown(story, pr.titleFor(story), nil)
}

func (pr *DefaultPublisherRunner) titleFor(story *domain.Story) string {
	if pr.catalog == nil {
		return ""
	}
	tmpl, ok := pr.catalog.Get(story.TemplateID)
	if !ok {
		return ""
	}
	return tmpl.Localized(story.Language).Title
}
