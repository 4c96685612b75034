package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the overall safety status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			var b strings.Builder

			if app.Gate.IsConfigured() {
				b.WriteString(fmt.Sprintf("Age band     %s\n", formatter.Bold(string(app.Gate.AgeBand()))))
			} else {
				b.WriteString("Age band     " + formatter.StyleYellow.Render("not configured, run 'guardian setup'") + "\n")
			}

			b.WriteString(fmt.Sprintf("Crisis lock  %s\n", formatter.LockPill(app.Crisis.IsLocked())))

			if app.Gate.IsLockedOut() {
				b.WriteString(fmt.Sprintf("PIN          %s for %s\n",
					formatter.StyleRed.Render("locked out"),
					formatter.Duration(app.Gate.LockoutRemaining())))
			}

			guardState := formatter.StyleRed.Render("unreachable (failing closed)")
			if app.Guard.Available(ctx) {
				guardState = formatter.StyleGreen.Render("reachable")
			}
			b.WriteString(fmt.Sprintf("Guard model  %s\n", guardState))

			fmt.Print(formatter.RenderBox("Guardian", b.String()))
			return nil
		},
	}
}
