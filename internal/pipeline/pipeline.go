package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/internal/server"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/parser"
	"github.com/shouni/go-storybook-kit/pkg/runner"
)

// ProgressMessage は進捗イベントを利用者向けの1行に整形します。
func ProgressMessage(e domain.ProgressEvent) string {
	if e.Phase == domain.PhaseImage {
		return fmt.Sprintf("Illustrating page %d of %d…", e.Page, e.Total)
	}
	return fmt.Sprintf("Writing page %d of %d…", e.Page, e.Total)
}

// ExecuteGenerate は CLI オプションから1冊の物語を生成し、保存と書き出しを行うのだ。
func ExecuteGenerate(ctx context.Context, cfg *config.Config, progress io.Writer) (*domain.Story, error) {
	return executeGenerate(ctx, cfg, builder.AppArgs{}, progress)
}

func executeGenerate(ctx context.Context, cfg *config.Config, args builder.AppArgs, progress io.Writer) (*domain.Story, error) {
	appCtx, err := builder.NewAppContext(ctx, cfg, args)
	if err != nil {
		return nil, err
	}
	defer appCtx.Close()

	req, err := buildStoryRequest(ctx, appCtx)
	if err != nil {
		return nil, err
	}

	storyRunner, err := appCtx.Workflow().BuildStoryRunner()
	if err != nil {
		return nil, fmt.Errorf("StoryRunner の構築に失敗しました: %w", err)
	}

	story, err := storyRunner.Run(ctx, req, func(e domain.ProgressEvent) {
		fmt.Fprintln(progress, ProgressMessage(e))
	})
	if err != nil {
		return nil, err
	}

	if err := publishTo(ctx, appCtx, story, ""); err != nil {
		return story, err
	}
	return story, nil
}

// ExecuteBatch は JSON ファイルに並んだ生成要求を並行して処理し、結果を返すのだ。
// 1件でも失敗した場合はエラーも返しますが、成功分は保存済みです。
func ExecuteBatch(ctx context.Context, cfg *config.Config, progress io.Writer) ([]runner.BatchResult, error) {
	return executeBatch(ctx, cfg, builder.AppArgs{}, progress)
}

func executeBatch(ctx context.Context, cfg *config.Config, args builder.AppArgs, progress io.Writer) ([]runner.BatchResult, error) {
	if cfg.Options.BatchFile == "" {
		return nil, fmt.Errorf("バッチファイル（--file）を指定してほしいのだ")
	}
	reqs, err := parser.NewBatchRequestParser().ParseFromPath(ctx, cfg.Options.BatchFile)
	if err != nil {
		return nil, err
	}

	appCtx, err := builder.NewAppContext(ctx, cfg, args)
	if err != nil {
		return nil, err
	}
	defer appCtx.Close()

	batchRunner, err := appCtx.Workflow().BuildBatchRunner()
	if err != nil {
		return nil, fmt.Errorf("BatchRunner の構築に失敗しました: %w", err)
	}

	// 進捗は複数のゴルーチンから届く
	pw := &syncWriter{w: progress}
	results := batchRunner.Run(ctx, reqs, func(index int, e domain.ProgressEvent) {
		pw.printf("[%d] %s\n", index+1, ProgressMessage(e))
	})

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		if err := publishTo(ctx, appCtx, res.Story, fmt.Sprintf("story_%d", res.Index+1)); err != nil {
			slog.WarnContext(ctx, "物語の書き出しに失敗しました", "index", res.Index, "error", err)
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%d 件中 %d 件の生成に失敗したのだ", len(results), failed)
	}
	return results, nil
}

// ExecuteServe は HTTP API を起動し、ctx がキャンセルされるまで待つのだ。
func ExecuteServe(ctx context.Context, cfg *config.Config) error {
	appCtx, err := builder.NewAppContext(ctx, cfg, builder.AppArgs{})
	if err != nil {
		return err
	}
	defer appCtx.Close()

	storyRunner, err := appCtx.Workflow().BuildStoryRunner()
	if err != nil {
		return fmt.Errorf("StoryRunner の構築に失敗しました: %w", err)
	}

	router := server.NewRouter(server.NewHandler(appCtx.Store, storyRunner, appCtx.Catalog))
	return server.Run(ctx, cfg.ServerAddr, router)
}

// buildStoryRequest は CLI オプションを生成要求に変換します。
func buildStoryRequest(ctx context.Context, appCtx *builder.AppContext) (domain.StoryRequest, error) {
	opts := appCtx.Options

	lang, err := domain.ParseLanguage(opts.Language)
	if err != nil {
		return domain.StoryRequest{}, err
	}
	req := domain.StoryRequest{
		TemplateID:  opts.TemplateID,
		CharacterID: opts.CharacterID,
		Character: domain.Character{
			Name:          opts.Name,
			Age:           opts.Age,
			Gender:        opts.Gender,
			FavoriteThing: opts.FavoriteThing,
		},
		PageCount: opts.PageCount,
		Language:  lang,
	}

	// 保存時の外部キー違反を避けるため、生成前に存在を確かめる
	if req.CharacterID > 0 {
		rec, err := appCtx.Store.GetCharacter(ctx, req.CharacterID)
		if err != nil {
			return domain.StoryRequest{}, fmt.Errorf("キャラクター %d の取得に失敗しました: %w", req.CharacterID, err)
		}
		if req.Character.Name == "" {
			req.Character = rec.Character
		}
	}
	return req, nil
}

// publishTo は出力先ディレクトリ配下の sub に物語を書き出します。出力先が空なら何もしません。
func publishTo(ctx context.Context, appCtx *builder.AppContext, story *domain.Story, sub string) error {
	dir := appCtx.Options.OutputDir
	if dir == "" {
		dir = appCtx.Config.OutputDir
	}
	if dir == "" {
		return nil
	}
	if sub != "" {
		dir = filepath.Join(dir, sub)
	}

	publishRunner, err := appCtx.Workflow().BuildPublishRunner()
	if err != nil {
		return fmt.Errorf("PublishRunner の構築に失敗しました: %w", err)
	}
	res, err := publishRunner.Run(ctx, story, dir)
	if err != nil {
		return fmt.Errorf("物語の書き出しに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "物語を書き出したのだ", "markdown", res.MarkdownPath, "images", len(res.ImagePaths))
	return nil
}
