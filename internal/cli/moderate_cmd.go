package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
	"github.com/alexanderramin/guardian/internal/policy"
)

func newModerateCmd(app *App) *cobra.Command {
	var asOutput bool
	var rewrite bool

	cmd := &cobra.Command{
		Use:   "moderate TEXT",
		Short: "Run text through the moderation pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Lock state is checked before any new moderation call.
			if app.Crisis.IsLocked() {
				fmt.Println(formatter.FormatCrisisCard(app.Crisis.Card()))
				return nil
			}

			band := app.Gate.AgeBand()

			var result policy.ModResult
			if asOutput {
				result = app.Pipeline.ModerateOutput(ctx, args[0], band)
			} else {
				result = app.Pipeline.ModerateInput(ctx, args[0], band)
			}

			if app.Crisis.Check(ctx, result) {
				fmt.Println(formatter.FormatCrisisCard(app.Crisis.Card()))
				return nil
			}

			fmt.Println(formatter.FormatModResult(result))

			if !result.Allowed {
				fmt.Println(policy.KidFriendlyBlockMsg)
				if asOutput && rewrite {
					fmt.Println(formatter.Dim("rewrite:"))
					fmt.Println(app.Pipeline.SafeRewrite(ctx, args[0], band))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asOutput, "output", false, "Moderate as model output instead of user input")
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "On a blocked output, attempt one safe rewrite")

	return cmd
}
