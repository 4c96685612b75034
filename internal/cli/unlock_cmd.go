package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
)

func newUnlockCmd(app *App) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Clear a crisis lockout with the parent PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Crisis.IsLocked() {
				fmt.Println("Not locked.")
				return nil
			}

			if app.Gate.IsLockedOut() {
				fmt.Printf("Too many failed PIN attempts. Try again in %s.\n",
					formatter.Duration(app.Gate.LockoutRemaining()))
				return nil
			}

			// The crisis manager trusts only this verification result; it
			// never sees the PIN itself.
			verified := app.Gate.VerifyPIN(pin)
			if !app.Crisis.UnlockWithPIN(verified) {
				fmt.Println(formatter.StyleRed.Render("Unlock refused: PIN not accepted."))
				return nil
			}

			fmt.Printf("%s unlocked\n", formatter.StyleGreen.Render("✔"))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Parent PIN")
	_ = cmd.MarkFlagRequired("pin")

	return cmd
}
