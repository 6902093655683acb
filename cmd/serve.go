package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd は、生成と保存の HTTP API を起動するのだ。
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "HTTP API サーバーを起動するのだ。",
	PreRunE: requireAPIKey,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := loadConfig()
		if serveAddr != "" {
			cfg.ServerAddr = serveAddr
		}
		return pipeline.ExecuteServe(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "待ち受けアドレスなのだ（未指定なら STORYBOOK_ADDR）。")
}
