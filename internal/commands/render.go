package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/safespend-dev/safespend/internal/config"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorOrange = lipgloss.Color("#DA702C")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	goodStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(colorOrange)
	badStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(colorBorder)
)

// table is a bordered text table. The first column is left-aligned, the
// rest right-aligned.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func (t table) render() string {
	numCols := len(t.headers)
	widths := make([]int, numCols)
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := 0; i < numCols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	if t.title != "" {
		b.WriteString("  " + headerStyle.Render(t.title) + "\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right) + "\n")
	}
	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i == 0 {
				b.WriteString(style.Render(" " + cell + pad + " "))
			} else {
				b.WriteString(style.Render(" " + pad + cell + " "))
			}
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│") + "\n")
	}

	rule("╭", "┬", "╮")
	line(t.headers, headerStyle)
	rule("├", "┼", "┤")
	for _, row := range t.rows {
		line(row, lipgloss.NewStyle())
	}
	rule("╰", "┴", "╯")
	return b.String()
}

func renderTitle(title string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Render(titleStyle.Render(title))
}

// money formats an amount in the workspace currency.
type money struct {
	symbol string
	places int32
}

func newMoney(cfg *config.Config) money {
	return money{symbol: cfg.Currency.Symbol, places: cfg.Currency.MinorUnits}
}

func (m money) format(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + m.symbol + d.Neg().StringFixed(m.places)
	}
	return m.symbol + d.StringFixed(m.places)
}

func printWarnings(w io.Writer, warnings []error) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("  %d record(s) skipped:", len(warnings))))
	for _, warning := range warnings {
		fmt.Fprintln(w, mutedStyle.Render("    "+warning.Error()))
	}
}
