package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newResourcesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Show resource usage against the configured ceilings",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := app.Limiter.CheckResources()
			fmt.Println(formatter.FormatResourceStatus(status, app.Limiter.Limits(), app.Limiter.RecommendedFanSpeed()))
			return nil
		},
	}

	cmd.AddCommand(newResourcesCanStartCmd(app))

	return cmd
}

func newResourcesCanStartCmd(app *App) *cobra.Command {
	var project bool

	cmd := &cobra.Command{
		Use:   "can-start",
		Short: "Check whether new work may begin right now",
		RunE: func(cmd *cobra.Command, args []string) error {
			var ok bool
			var reason string
			if project {
				ok, reason = app.Limiter.CanStartProject()
			} else {
				ok, reason = app.Limiter.CanStartActivity()
			}

			if ok {
				fmt.Println(formatter.StyleGreen.Render("● clear to start"))
				return nil
			}
			fmt.Printf("%s  %s\n", formatter.StyleRed.Render("▲ blocked"), formatter.Dim(reason))
			return nil
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Also apply the daily project cap")

	return cmd
}
