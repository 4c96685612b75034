package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/agegate"
	"github.com/alexanderramin/guardian/internal/capability"
	"github.com/alexanderramin/guardian/internal/contentfilter"
	"github.com/alexanderramin/guardian/internal/crisis"
	"github.com/alexanderramin/guardian/internal/guard"
	"github.com/alexanderramin/guardian/internal/limits"
	"github.com/alexanderramin/guardian/internal/moderation"
	"github.com/alexanderramin/guardian/internal/repository"
)

// App holds references to all safety components used by CLI commands.
type App struct {
	Gate     *agegate.Gate
	Guard    guard.Client
	Pipeline *moderation.Pipeline
	Crisis   *crisis.Manager
	Engine   *capability.Engine
	Limiter  *limits.Limiter
	Filter   *contentfilter.Filter
	Events   repository.SafetyEventRepo

	// IsInteractive reports whether stdin is a terminal; interactive
	// commands fall back to flags when it is not.
	IsInteractive func() bool
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// NewRootCmd creates the top-level "guardian" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "guardian",
		Short: "Safety and policy enforcement for a kid-facing assistant",
	}

	root.AddCommand(
		newSetupCmd(app),
		newModerateCmd(app),
		newSettingsCmd(app),
		newPinCmd(app),
		newUnlockCmd(app),
		newPolicyCmd(app),
		newResourcesCmd(app),
		newStatsCmd(app),
		newStatusCmd(app),
		newStoryCmd(app),
	)

	return root
}
