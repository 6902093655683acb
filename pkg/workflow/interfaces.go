package workflow

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// Workflow は、絵本生成ワークフローの各工程を担当する Runner を構築するためのインターフェースを定義します。
type Workflow interface {
	BuildStoryRunner() (StoryRunner, error)
	BuildBatchRunner() (BatchRunner, error)
	BuildPublishRunner() (PublishRunner, error)
}

// StoryRunner は、テンプレートとキャラクターから1冊の物語を生成し、保存する責務を持ちます。
type StoryRunner interface {
	Run(ctx context.Context, req domain.StoryRequest, onProgress domain.ProgressFunc) (*domain.Story, error)
}

// BatchRunner は、複数の独立した生成要求を同時実行数を制限しながら処理する責務を持ちます。
type BatchRunner interface {
	Run(ctx context.Context, reqs []domain.StoryRequest, onProgress func(index int, e domain.ProgressEvent)) []runner.BatchResult
}

// PublishRunner は、物語を Markdown と画像ファイルとして出力する責務を持ちます。
type PublishRunner interface {
	Run(ctx context.Context, story *domain.Story, outputDir string) (publisher.PublishResult, error)
	BuildMarkdown(story *domain.Story) string
}
