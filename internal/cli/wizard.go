package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/guardian/internal/cli/formatter"
	"github.com/alexanderramin/guardian/internal/policy"
)

// guardianHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func guardianHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// runSetupWizard walks a parent through first-time setup interactively.
func runSetupWizard(band *policy.AgeBand, pin *string) error {
	var bandValue string
	var confirm string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Who is this device for?").
				Options(
					huh.NewOption("A child under 13", string(policy.BandUnder13)),
					huh.NewOption("A teen (13-17)", string(policy.BandTeen)),
					huh.NewOption("An adult", string(policy.BandAdult)),
				).
				Value(&bandValue),
			huh.NewInput().
				Title("Parent PIN").
				Description("At least 4 characters; needed to change settings").
				EchoMode(huh.EchoModePassword).
				Value(pin),
			huh.NewInput().
				Title("Confirm PIN").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(s string) error {
					if s != *pin {
						return fmt.Errorf("PINs do not match")
					}
					return nil
				}),
		),
	).WithTheme(guardianHuhTheme()).WithShowHelp(false)

	if err := form.Run(); err != nil {
		return err
	}
	*band = policy.AgeBand(bandValue)
	return nil
}

// runPinChangeWizard prompts for the current and a new PIN.
func runPinChangeWizard(current, next *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current PIN").
				EchoMode(huh.EchoModePassword).
				Value(current),
			huh.NewInput().
				Title("New PIN").
				Description("At least 4 characters").
				EchoMode(huh.EchoModePassword).
				Value(next),
		),
	).WithTheme(guardianHuhTheme()).WithShowHelp(false)

	return form.Run()
}
