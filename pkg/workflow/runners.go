package workflow

import (
	"github.com/shouni/go-storybook-kit/pkg/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// BuildStoryRunner は、1冊の物語生成を担当する Runner を作成します。
func (m *Manager) BuildStoryRunner() (StoryRunner, error) {
	return m.buildStoryRunner(), nil
}

// BuildBatchRunner は、複数物語の並行生成を担当する Runner を作成します。
func (m *Manager) BuildBatchRunner() (BatchRunner, error) {
	return runner.NewBatchRunner(m.buildStoryRunner(), m.cfg.BatchConcurrency), nil
}

// BuildPublishRunner は、成果物のパブリッシュを担当する Runner を作成します。
func (m *Manager) BuildPublishRunner() (PublishRunner, error) {
	pub := publisher.NewStoryPublisher(m.writer)
	return runner.NewDefaultPublisherRunner(m.catalog, pub), nil
}

func (m *Manager) buildStoryRunner() *runner.StoryRunner {
	var opts []pipeline.Option
	if m.observer != nil {
		opts = append(opts, pipeline.WithStateObserver(m.observer))
	}
	p := pipeline.NewStoryPipeline(m.generator, opts...)

	return runner.NewStoryRunner(m.catalog, p, m.store)
}
