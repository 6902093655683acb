package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/go-storybook-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts は各サブコマンドのフラグを受け取る実行時オプションなのだ。
var opts config.GenerateOptions

var rootCmd = &cobra.Command{
	Use:   "storybook",
	Short: "子ども向けのパーソナライズ絵本を生成するのだ。",
	Long: `テンプレートとキャラクター情報から、本文と挿絵つきの絵本を生成するのだ。
生成した物語は SQLite に保存され、Markdown として書き出すこともできるのだよ。`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

func init() {
	addAppFlags(rootCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(storiesCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite データベースのパスなのだ（未指定なら STORYBOOK_DB）。")
	cmd.PersistentFlags().StringVar(&opts.AIModel, "model", "", "本文生成に使う Gemini モデル名なのだ。")
	cmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "挿絵生成に使うモデル名なのだ。")
	cmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", 0, "Gemini API リクエストのタイムアウトなのだ。")
}

// setupLogger は --verbose に応じて slog の既定ハンドラーを設定するのだ。
func setupLogger(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadConfig は環境変数を読み込み、CLI フラグを反映した設定を返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// requireAPIKey は、Gemini API を呼ぶコマンドの実行前に APIキーを確認するのだ。
func requireAPIKey(cmd *cobra.Command, args []string) error {
	if err := loadConfig().Validate(); err != nil {
		return fmt.Errorf("エラー: %w", err)
	}
	return nil
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
