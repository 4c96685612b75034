package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newStoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Check long-form content against the offline story filter",
	}

	cmd.AddCommand(
		newStoryCheckCmd(app),
		newStoryThemeCmd(app),
	)

	return cmd
}

func newStoryCheckCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check [TEXT]",
		Short: "Filter a story for tone, length and a positive ending",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var story string
			switch {
			case file != "":
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("reading story: %w", err)
				}
				story = string(raw)
			case len(args) == 1:
				story = args[0]
			default:
				return fmt.Errorf("pass the story as an argument or with --file")
			}

			result := app.Filter.FilterStory(story)

			var b strings.Builder
			b.WriteString(formatter.VerdictPill(result.IsSafe))
			b.WriteString(formatter.Dim(fmt.Sprintf("  confidence %.1f", result.Confidence)))
			for _, v := range result.Violations {
				b.WriteString("\n" + formatter.StyleYellow.Render("  "+v))
			}
			for _, s := range app.Filter.SuggestImprovements(result) {
				b.WriteString("\n" + formatter.Dim("  → "+s))
			}
			fmt.Println(formatter.RenderBox("Story Filter", b.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the story from a file")

	return cmd
}

func newStoryThemeCmd(app *App) *cobra.Command {
	var random bool

	cmd := &cobra.Command{
		Use:   "theme [THEME]",
		Short: "Validate a story theme or suggest one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if random || len(args) == 0 {
				fmt.Printf("How about a story about %s?\n", formatter.Bold(app.Filter.RandomTheme()))
				return nil
			}

			if app.Filter.ValidateTheme(args[0]) {
				fmt.Println(formatter.StyleGreen.Render("● theme looks fine"))
			} else {
				fmt.Println(formatter.StyleRed.Render("● not a bedtime theme"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&random, "random", false, "Suggest a random encouraged theme")

	return cmd
}
