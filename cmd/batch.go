package cmd

import (
	"fmt"

	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// batchCmd は、JSON ファイルの生成要求をまとめて処理するのだ。
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "複数の絵本を並行して生成するのだ。",
	Long: `JSON 配列で書かれた生成要求を読み込み、物語ごとに並行して生成するのだ。
1冊の中の呼び出しは直列のままで、失敗した要求があっても他の物語は続行するのだよ。`,
	Example: `  storybook batch --file examples/batch_requests.json --concurrency 2

  batch_requests.json:
  [{"templateId": "ocean", "pageCount": 5, "character": {"name": "Maya", "age": "5", "gender": "girl", "favoriteThing": "dolphins"}}]`,
	PreRunE: requireAPIKey,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := pipeline.ExecuteBatch(cmd.Context(), loadConfig(), cmd.ErrOrStderr())

		out := cmd.OutOrStdout()
		for _, res := range results {
			if res.Err != nil {
				fmt.Fprintf(out, "[%d] %s: FAILED: %v\n", res.Index+1, res.Request.TemplateID, res.Err)
				continue
			}
			fmt.Fprintf(out, "[%d] %s: story #%d (%d/%d pages illustrated)\n",
				res.Index+1, res.Request.TemplateID, res.Story.ID, res.Story.IllustratedCount(), len(res.Story.Pages))
		}
		return err
	},
}

func init() {
	batchCmd.Flags().StringVarP(&opts.BatchFile, "file", "f", "", "生成要求を並べた JSON ファイルなのだ。")
	batchCmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", 0, "同時に生成する物語の数なのだ（未指定なら STORYBOOK_BATCH_CONCURRENCY）。")
	batchCmd.Flags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "Markdown と画像の書き出し先なのだ。")
	_ = batchCmd.MarkFlagRequired("file")
}
