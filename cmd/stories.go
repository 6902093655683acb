package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/runner"
	"github.com/shouni/go-storybook-kit/pkg/store"

	"github.com/spf13/cobra"
)

var showMarkdown bool

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "保存済みの物語を管理するのだ。",
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "保存済みの物語を新しい順に一覧表示するのだ。",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		stories, err := s.ListStories(cmd.Context(), opts.CharacterID)
		if err != nil {
			return err
		}
		if len(stories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stories yet. Use 'storybook generate' to create one.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTEMPLATE\tLANG\tPAGES\tCREATED")
		for _, st := range stories {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", st.ID, st.TemplateID, st.Language, st.PageCount, st.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var storiesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "物語の本文を表示するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseStoryID(args[0])
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		story, err := s.GetStory(cmd.Context(), id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showMarkdown {
			catalog, err := prompts.DefaultCatalog()
			if err != nil {
				return err
			}
			fmt.Fprint(out, runner.NewDefaultPublisherRunner(catalog, nil).BuildMarkdown(story))
			return nil
		}

		fmt.Fprintf(out, "%s\n\n", story.Prompt)
		for _, p := range story.Pages {
			mark := " "
			if p.HasImage() {
				mark = "*"
			}
			fmt.Fprintf(out, "[%d]%s %s\n", p.PageNumber, mark, p.Text)
		}
		return nil
	},
}

var storiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "物語とそのページを削除するのだ。",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseStoryID(args[0])
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.DeleteStory(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Story #%d deleted\n", id)
		return nil
	},
}

func init() {
	storiesListCmd.Flags().Int64Var(&opts.CharacterID, "character-id", 0, "キャラクターで絞り込むのだ。")
	storiesShowCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "Markdown 形式で表示するのだ。")

	storiesCmd.AddCommand(storiesListCmd, storiesShowCmd, storiesDeleteCmd)
}

// openStore は API キーを必要としない保存先だけを開くのだ。
func openStore() (*store.Store, error) {
	cfg := loadConfig()
	path := cfg.DBPath
	if opts.DBPath != "" {
		path = opts.DBPath
	}
	return store.Open(path)
}

func parseStoryID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("物語の ID が不正なのだ: %q", s)
	}
	return id, nil
}
