package runner

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// BatchResult は1件の生成要求の結果です。
type BatchResult struct {
	Index   int
	Request domain.StoryRequest
	Story   *domain.Story
	Err     error
}

// SingleStoryRunner は1件の物語を生成します。
type SingleStoryRunner interface {
	Run(ctx context.Context, req domain.StoryRequest, onProgress domain.ProgressFunc) (*domain.Story, error)
}

// BatchRunner は互いに独立した複数の物語を並行して生成します。
// 各物語の内部は直列のままで、1件の失敗は他の物語に影響しません。
type BatchRunner struct {
	story SingleStoryRunner
	limit int
}

// NewBatchRunner は同時実行数 limit の BatchRunner を生成します。
func NewBatchRunner(story SingleStoryRunner, limit int) *BatchRunner {
	if limit < 1 {
		limit = 1
	}
	return &BatchRunner{story: story, limit: limit}
}

// Run は全要求を処理し、入力順の結果を返します。
// onProgress には要求のインデックス付きで進捗が届きます。呼び出しは複数のゴルーチンから行われます。
func (br *BatchRunner) Run(ctx context.Context, reqs []domain.StoryRequest, onProgress func(index int, e domain.ProgressEvent)) []BatchResult {
	results := make([]BatchResult, len(reqs))

	var eg errgroup.Group
	eg.SetLimit(br.limit)

	for i, req := range reqs {
		eg.Go(func() error {
			var progress domain.ProgressFunc
			if onProgress != nil {
				progress = func(e domain.ProgressEvent) { onProgress(i, e) }
			}

			story, err := br.story.Run(ctx, req, progress)
			results[i] = BatchResult{Index: i, Request: req, Story: story, Err: err}
			if err != nil {
				slog.WarnContext(ctx, "BatchRunner: 要求の処理に失敗しました", "index", i, "template_id", req.TemplateID, "error", err)
			}
			// 失敗を他の要求に波及させないため常に nil を返す
			return nil
		})
	}
	_ = eg.Wait()

	return results
}
