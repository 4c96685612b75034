package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newPinCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pin",
		Short: "Manage the parent PIN",
	}

	cmd.AddCommand(newPinChangeCmd(app))

	return cmd
}

func newPinChangeCmd(app *App) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "change",
		Short: "Change the parent PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			if current == "" && next == "" && app.interactive() {
				if err := runPinChangeWizard(&current, &next); err != nil {
					return err
				}
			}

			if !app.Gate.ChangePIN(current, next) {
				if app.Gate.IsLockedOut() {
					fmt.Printf("Too many failed attempts. Try again in %s.\n",
						formatter.Duration(app.Gate.LockoutRemaining()))
					return nil
				}
				return fmt.Errorf("PIN change rejected: check the current PIN and make sure the new one has at least 4 characters")
			}

			fmt.Printf("%s PIN changed\n", formatter.StyleGreen.Render("✔"))
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "Current PIN (prompted interactively when omitted)")
	cmd.Flags().StringVar(&next, "new", "", "New PIN")

	return cmd
}
