package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/internal/pipeline"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/spf13/cobra"
)

// generateCmd は、テンプレートとキャラクターから1冊の絵本を生成するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "テンプレートとキャラクターから絵本を1冊生成するのだ。",
	Long: `本文をページ順に書き終えてから、各ページの挿絵を順番に描くのだ。
本文が1ページでも失敗すると中断するけれど、挿絵の失敗は絵なしのページになるだけなのだよ。`,
	Example: "  storybook generate --template birthday --name Alice --age 5 --gender girl --favorite unicorns --pages 5",
	PreRunE: requireAPIKey,
	RunE:    generateCommand,
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&opts.TemplateID, "template", "t", "", "物語テンプレートの ID なのだ（templates コマンドで一覧できる）。")
	f.StringVar(&opts.Name, "name", "", "主人公の名前なのだ。")
	f.StringVar(&opts.Age, "age", "", "主人公の年齢なのだ。")
	f.StringVar(&opts.Gender, "gender", domain.GenderBoy, "主人公の性別（boy / girl）なのだ。")
	f.StringVar(&opts.FavoriteThing, "favorite", "", "主人公の好きなものなのだ。")
	f.Int64Var(&opts.CharacterID, "character-id", 0, "保存済みキャラクターの ID なのだ（--name の代わりに使える）。")
	f.IntVarP(&opts.PageCount, "pages", "p", domain.DefaultPageCount, "ページ数（3, 5, 10）なのだ。")
	f.StringVarP(&opts.Language, "lang", "l", string(domain.DefaultLanguage), "物語の言語（en / he）なのだ。")
	f.StringVarP(&opts.OutputDir, "output-dir", "o", "", "Markdown と画像の書き出し先なのだ（未指定なら STORYBOOK_OUTPUT_DIR）。")
	_ = generateCmd.MarkFlagRequired("template")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	slog.Info("絵本の生成を開始するのだ！",
		"template", opts.TemplateID,
		"pages", opts.PageCount,
		"language", opts.Language,
		"text_model", cfg.KitConfig().GeminiModel)

	story, err := pipeline.ExecuteGenerate(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		if story == nil {
			return fmt.Errorf("絵本の生成に失敗したのだ: %w", err)
		}
		slog.Warn("物語は保存済みですが、書き出しに失敗したのだ", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Story #%d saved (%d/%d pages illustrated)\n",
		story.ID, story.IllustratedCount(), len(story.Pages))
	return nil
}
