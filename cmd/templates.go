package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/prompts"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "組み込みの物語テンプレートを一覧表示するのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, err := domain.ParseLanguage(opts.Language)
		if err != nil {
			return err
		}
		catalog, err := prompts.DefaultCatalog()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\t\tTITLE")
		for _, t := range catalog.All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Emoji, t.Localized(lang).Title)
		}
		return tw.Flush()
	},
}

func init() {
	templatesCmd.Flags().StringVarP(&opts.Language, "lang", "l", string(domain.DefaultLanguage), "表示する言語（en / he）なのだ。")
}
