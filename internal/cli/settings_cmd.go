package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
	"github.com/alexanderramin/guardian/internal/policy"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change parental settings",
	}

	cmd.AddCommand(
		newSettingsGetCmd(app),
		newSettingsSetCmd(app),
	)

	return cmd
}

func newSettingsGetCmd(app *App) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show settings (full view requires the PIN)",
		RunE: func(cmd *cobra.Command, args []string) error {
			verified := pin != "" && app.Gate.VerifyPIN(pin)
			if pin != "" && !verified {
				fmt.Println(formatter.StyleYellow.Render("PIN not accepted; showing the reduced view."))
			}

			settings := app.Gate.GetSettings(verified)

			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var b strings.Builder
			for _, k := range keys {
				b.WriteString(fmt.Sprintf("%-22s %v\n", k, settings[k]))
			}
			fmt.Print(formatter.RenderBox("Settings", b.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Parent PIN for the full view")

	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "set KEY=VALUE ...",
		Short: "Change settings (requires the PIN)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pin == "" {
				fmt.Println(policy.ParentNeededMsg)
				return nil
			}

			fields := make(map[string]any, len(args))
			for _, arg := range args {
				key, raw, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected KEY=VALUE, got %q", arg)
				}
				fields[key] = parseSettingValue(raw)
			}

			if !app.Gate.UpdateSettings(pin, fields) {
				fmt.Println(policy.ParentNeededMsg)
				return nil
			}

			fmt.Printf("%s settings updated\n", formatter.StyleGreen.Render("✔"))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "Parent PIN")

	return cmd
}

// parseSettingValue maps flag strings onto the types the gate expects.
// Unknown keys and mistyped values are ignored by the gate itself.
func parseSettingValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}
