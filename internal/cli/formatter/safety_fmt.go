package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/guardian/internal/limits"
	"github.com/alexanderramin/guardian/internal/policy"
	"github.com/alexanderramin/guardian/internal/repository"
)

// FormatModResult renders one moderation verdict. The rationale and category
// list are parent-facing detail; the kid only ever sees the static messages.
func FormatModResult(result policy.ModResult) string {
	var b strings.Builder
	b.WriteString(VerdictPill(result.Allowed))
	if cats := result.Categories.Strings(); len(cats) > 0 {
		b.WriteString("\n" + Dim("categories: "+strings.Join(cats, ", ")))
	}
	if result.Rationale != "" {
		b.WriteString("\n" + Dim("rationale:  "+result.Rationale))
	}
	return RenderBox("Moderation", b.String())
}

// FormatCrisisCard renders the fixed crisis card.
func FormatCrisisCard(card policy.CrisisCard) string {
	var b strings.Builder
	b.WriteString(StyleFg.Render(card.Message) + "\n\n")
	for _, r := range card.Resources {
		b.WriteString(StyleBlue.Render("  "+r) + "\n")
	}
	b.WriteString("\n" + Dim(card.ParentNote))
	return RenderBox(card.Title, b.String())
}

// FormatResourceStatus renders a resource snapshot against its ceilings.
func FormatResourceStatus(status limits.ResourceStatus, l limits.Limits, fanSpeed int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("CPU     %s\n", Percent(status.CPUPercent, l.CPUPercent)))
	b.WriteString(fmt.Sprintf("Memory  %s  %s\n",
		Percent(status.MemoryPercent, l.MemoryPercent),
		Dim(fmt.Sprintf("(%.0f MB free)", status.MemoryAvailableMB))))
	b.WriteString(fmt.Sprintf("Disk    %s  %s\n",
		Percent(status.DiskPercent, l.DiskPercent),
		Dim(fmt.Sprintf("(%.1f GB free)", status.DiskAvailableGB))))

	if status.Temperature != nil {
		b.WriteString(fmt.Sprintf("Temp    %s  %s\n",
			Percent(*status.Temperature, l.TemperatureC),
			Dim(fmt.Sprintf("(fan %d%%)", fanSpeed))))
	} else {
		b.WriteString("Temp    " + Dim("no sensor") + "\n")
	}

	b.WriteString("\n")
	if status.WithinLimits {
		b.WriteString(StyleGreen.Render("● within limits"))
	} else {
		b.WriteString(StyleRed.Render("▲ over limits"))
		for _, w := range status.Warnings {
			b.WriteString("\n" + StyleYellow.Render("  "+w))
		}
	}

	return RenderBox("Resources", b.String())
}

// FormatSafetyStats renders the parent dashboard aggregate view.
func FormatSafetyStats(stats *repository.SafetyStats) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Blocked requests      %s\n", Bold(fmt.Sprintf("%d", stats.TotalDenials))))
	b.WriteString(fmt.Sprintf("Crisis interventions  %s\n", Bold(fmt.Sprintf("%d", stats.TotalInterventions))))
	if stats.LastEventAt != nil {
		b.WriteString(fmt.Sprintf("Last event            %s\n", Dim(HumanTimestamp(*stats.LastEventAt))))
	}

	if len(stats.DenialsByCategory) > 0 {
		b.WriteString("\n" + Header("by category") + "\n")
		for _, c := range policy.AllCategories {
			if n, ok := stats.DenialsByCategory[c]; ok {
				b.WriteString(fmt.Sprintf("  %-22s %d\n", string(c), n))
			}
		}
		if n, ok := stats.DenialsByCategory[policy.CategoryAbuseVictimization]; ok {
			b.WriteString(fmt.Sprintf("  %-22s %d\n", string(policy.CategoryAbuseVictimization), n))
		}
	}

	return RenderBox("Safety Stats", b.String())
}

// FormatEvents renders recent safety events as a table.
func FormatEvents(events []*repository.SafetyEvent) string {
	if len(events) == 0 {
		return Dim("No safety events recorded.")
	}

	headers := []string{"ID", "WHEN", "KIND", "DIR", "CATEGORIES"}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		kind := StyleYellow.Render(string(e.Kind))
		if e.Kind == repository.EventCrisis {
			kind = StyleRed.Render(string(e.Kind))
		}
		var cats []string
		for _, c := range e.Categories {
			cats = append(cats, string(c))
		}
		rows = append(rows, []string{
			TruncID(e.ID),
			HumanTimestamp(e.CreatedAt),
			kind,
			Dim(e.Direction),
			strings.Join(cats, ", "),
		})
	}

	return RenderBox("Recent Events", RenderTable(headers, rows))
}
