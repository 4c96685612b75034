package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
	"github.com/alexanderramin/guardian/internal/policy"
)

func newSetupCmd(app *App) *cobra.Command {
	var bandFlag, pinFlag string
	var force bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Configure the age band and parent PIN",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Gate.IsConfigured() && !force {
				return fmt.Errorf("already configured; rerun with --force to overwrite")
			}

			band := policy.AgeBand(bandFlag)
			pin := pinFlag

			if pin == "" && app.interactive() {
				if err := runSetupWizard(&band, &pin); err != nil {
					return err
				}
			}

			if !app.Gate.Setup(band, pin) {
				return fmt.Errorf("setup rejected: the age band must be one of under_13, teen_13_17, adult and the PIN needs at least 4 characters")
			}

			fmt.Printf("%s configured for %s\n", formatter.StyleGreen.Render("✔"), band)
			return nil
		},
	}

	cmd.Flags().StringVar(&bandFlag, "age-band", string(policy.BandUnder13), "Age band: under_13, teen_13_17 or adult")
	cmd.Flags().StringVar(&pinFlag, "pin", "", "Parent PIN (prompted interactively when omitted)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}
