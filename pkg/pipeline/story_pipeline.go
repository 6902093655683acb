package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
)

// StoryPipeline はテンプレートとキャラクターから複数ページの物語を組み立てる司令塔です。
//
// 本文を 1..N ページ順に生成し終えてから、挿絵を 1..N ページ順に生成します。
// すべての呼び出しは直列で、本文の失敗は即座に実行全体を中断させますが、
// 挿絵の失敗はそのページの ImageData を nil にするだけです。
type StoryPipeline struct {
	generator generator.PageGenerator
	observer  StateObserver
}

// Option は StoryPipeline の設定を変更します。
type Option func(*StoryPipeline)

// WithStateObserver は状態遷移フックを設定します。
func WithStateObserver(fn StateObserver) Option {
	return func(p *StoryPipeline) {
		p.observer = fn
	}
}

// NewStoryPipeline は PageGenerator を受け取り、StoryPipeline を生成します。
func NewStoryPipeline(g generator.PageGenerator, opts ...Option) *StoryPipeline {
	p := &StoryPipeline{generator: g}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GenerateStory は pageCount ページの物語を生成し、ページ番号順のスライスを返します。
// onProgress は nil でもよく、各リモート呼び出しの直前に同期的に1回ずつ呼ばれます。
func (p *StoryPipeline) GenerateStory(
	ctx context.Context,
	tmpl domain.Template,
	character domain.Character,
	pageCount int,
	language domain.Language,
	onProgress domain.ProgressFunc,
) ([]domain.Page, error) {
	if pageCount < 1 {
		return nil, fmt.Errorf("%w: pageCount は 1 以上である必要があります (got %d)", domain.ErrInvalidInput, pageCount)
	}
	if language == "" {
		language = domain.DefaultLanguage
	}

	notify := func(phase domain.Phase, page int) {
		if onProgress != nil {
			onProgress(domain.ProgressEvent{Phase: phase, Page: page, Total: pageCount})
		}
	}

	logger := slog.With("template_id", tmpl.ID, "pages", pageCount, "language", language)
	p.transition(StateIdle, 0)

	prompt := prompts.FillTemplate(tmpl.Localized(language).Prompt, character)
	pages := make([]domain.Page, 0, pageCount)

	// 1. 本文フェーズ
	startTime := time.Now()
	for i := 1; i <= pageCount; i++ {
		p.transition(StateGeneratingText, i)
		notify(domain.PhaseText, i)

		text, err := p.generator.GenerateText(ctx, prompt, i, pageCount, character, language)
		if err != nil {
			p.transition(StateFailed, i)
			logger.ErrorContext(ctx, "本文生成に失敗したため物語の生成を中断します", "page", i, "error", err)
			return nil, err
		}
		pages = append(pages, domain.Page{PageNumber: i, Text: text})
	}
	logger.InfoContext(ctx, "本文フェーズが完了しました", "duration", time.Since(startTime).Round(time.Millisecond))

	// 2. 挿絵フェーズ
	startTime = time.Now()
	missing := 0
	for i := range pages {
		p.transition(StateGeneratingImages, pages[i].PageNumber)
		notify(domain.PhaseImage, pages[i].PageNumber)

		pages[i].ImageData = p.generator.GenerateImage(ctx, pages[i].Text, pages[i].PageNumber, character, language)
		if pages[i].ImageData == nil {
			missing++
		}
	}
	logger.InfoContext(ctx, "挿絵フェーズが完了しました",
		"duration", time.Since(startTime).Round(time.Millisecond),
		"missing_images", missing)

	p.transition(StateDone, pageCount)
	return pages, nil
}

func (p *StoryPipeline) transition(s State, page int) {
	if p.observer != nil {
		p.observer(s, page)
	}
}
