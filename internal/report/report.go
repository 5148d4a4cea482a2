// Package report renders the run summary for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vadiminshakov/paperbots/internal/domain"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	loss      = lipgloss.AdaptiveColor{Light: "#D94C4C", Dark: "#FF6B6B"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true).
			MarginBottom(1)

	nameStyle = lipgloss.NewStyle().Bold(true)

	profitStyle = lipgloss.NewStyle().Foreground(special)
	lossStyle   = lipgloss.NewStyle().Foreground(loss)
)

// RenderStandings formats the leaderboard, best performer first.
func RenderStandings(standings []domain.Standing) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Paper Trading Competition - Standings"))
	b.WriteString("\n")

	for _, s := range standings {
		sign := "+"
		style := profitStyle
		if s.Profit.IsNegative() {
			sign = ""
			style = lossStyle
		}

		pnl := style.Render(fmt.Sprintf("%s$%s / %s%s%%",
			sign, s.Profit.StringFixed(2), sign, s.ProfitPercent.StringFixed(2)))

		b.WriteString(fmt.Sprintf("%d. %s  $%s  (%s)\n",
			s.Rank,
			nameStyle.Render(s.Name),
			s.TotalValue.StringFixed(2),
			pnl))
	}

	return b.String()
}
