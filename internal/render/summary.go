// Package render formats the computed summary for human consumption.
// The JSON report is the machine output; this package only serves the
// --pretty flag.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vvka-141/popstat/pkg/popstat"
)

// Color palette - keeping it minimal and accessible.
var (
	colorPrimary   = lipgloss.Color("39")  // Blue
	colorSecondary = lipgloss.Color("245") // Gray
	colorMuted     = lipgloss.Color("240") // Dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	countryStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

// SummaryTable renders the summary as an aligned two-column table,
// countries sorted by name, with a total row at the bottom.
func SummaryTable(summary popstat.Summary) string {
	if len(summary) == 0 {
		return emptyStyle.Render("no people with a known birthplace country") + "\n"
	}

	countries := make([]string, 0, len(summary))
	countryWidth := len("Country")
	for country := range summary {
		countries = append(countries, country)
		if w := lipgloss.Width(country); w > countryWidth {
			countryWidth = w
		}
	}
	sort.Strings(countries)

	var b strings.Builder
	writeRow := func(country, population string, style lipgloss.Style) {
		padding := strings.Repeat(" ", countryWidth-lipgloss.Width(country)+2)
		b.WriteString(style.Render(country) + padding + style.Render(population) + "\n")
	}

	writeRow("Country", "Population", headerStyle)
	writeRow(strings.Repeat("─", countryWidth), strings.Repeat("─", len("Population")), countryStyle)
	for _, country := range countries {
		writeRow(country, fmt.Sprintf("%d", summary[country]), countryStyle)
	}
	writeRow("Total", fmt.Sprintf("%d", summary.Total()), totalStyle)

	return b.String()
}
