package workflow

import (
	"github.com/shouni/go-storybook-kit/pkg/adapters"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// ManagerArgs は Manager の初期化に必要な依存関係です。
// nil の項目は既定の実装で補われます。
type ManagerArgs struct {
	Config config.Config

	TextAdapter  adapters.TextAdapter
	ImageAdapter adapters.ImageAdapter
	StoryPrompt  prompts.StoryPrompt
	Catalog      *prompts.Catalog

	// Store が nil の場合、生成した物語は保存されません。
	Store  runner.StorySaver
	Writer publisher.OutputWriter

	StateObserver pipeline.StateObserver
}
