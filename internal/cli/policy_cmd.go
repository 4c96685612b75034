package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/capability"
	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newPolicyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Check capability policy decisions",
	}

	cmd.AddCommand(newPolicyCheckCmd(app))

	return cmd
}

func newPolicyCheckCmd(app *App) *cobra.Command {
	var createdBy string
	var explicit bool

	cmd := &cobra.Command{
		Use:   "check TASK_TYPE",
		Short: "Decide whether a task may use its capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if createdBy == "" {
				createdBy = app.Engine.NodeID()
			}
			task := capability.Task{
				TaskType:  args[0],
				CreatedBy: createdBy,
			}

			decision := app.Engine.CheckTask(task, explicit)

			pill := formatter.StyleGreen.Render("● ALLOWED")
			if !decision.Allowed {
				pill = formatter.StyleRed.Render("● DENIED")
			}
			fmt.Printf("%s  %s\n", pill, formatter.Dim(decision.Reason))
			return nil
		},
	}

	cmd.Flags().StringVar(&createdBy, "created-by", "", "Node that created the task (defaults to this node)")
	cmd.Flags().BoolVar(&explicit, "explicit", false, "The user explicitly requested this task")

	return cmd
}
