package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/themeflex/internal/models"
	"github.com/jmylchreest/themeflex/internal/theme"
)

const terminalWidth = 72

var terminalBorders = map[theme.ID]lipgloss.Border{
	theme.Minimalist:   lipgloss.NormalBorder(),
	theme.Professional: lipgloss.ThickBorder(),
	theme.Creative:     lipgloss.RoundedBorder(),
}

// TerminalStyles is the terminal rendition of a theme.
type TerminalStyles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Card     lipgloss.Style
	Name     lipgloss.Style
	Price    lipgloss.Style
	Faint    lipgloss.Style
	Badge    lipgloss.Style
}

// NewTerminalStyles builds styles for d from its stylesheet palette. Empty
// palette entries leave the terminal default color.
func NewTerminalStyles(d theme.Descriptor, palette models.ThemePalette) TerminalStyles {
	border, ok := terminalBorders[d.ID]
	if !ok {
		border = lipgloss.NormalBorder()
	}

	return TerminalStyles{
		Title:    colored(lipgloss.NewStyle().Bold(true), palette.Primary),
		Subtitle: colored(lipgloss.NewStyle().Italic(true), palette.Muted),
		Card: colored(lipgloss.NewStyle().
			Border(border).
			Padding(0, 1).
			Width(terminalWidth), palette.Foreground).
			BorderForeground(lipgloss.Color(orDefault(palette.Border, "240"))),
		Name:  colored(lipgloss.NewStyle().Bold(true), palette.Foreground),
		Price: colored(lipgloss.NewStyle().Bold(true), orDefault(palette.Accent, palette.Primary)),
		Faint: colored(lipgloss.NewStyle().Faint(true), palette.Muted),
		Badge: colored(lipgloss.NewStyle(), palette.Secondary),
	}
}

func colored(s lipgloss.Style, color string) lipgloss.Style {
	if color == "" {
		return s
	}
	return s.Foreground(lipgloss.Color(color))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// RenderTerminal writes products as a list of cards styled after d.
func RenderTerminal(w io.Writer, d theme.Descriptor, styles TerminalStyles, products []models.Product) error {
	var b strings.Builder

	b.WriteString(styles.Title.Render("ThemeFlex · " + d.Name))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(d.Description))
	b.WriteString("\n\n")

	if len(products) == 0 {
		b.WriteString(styles.Faint.Render("No products."))
		b.WriteString("\n")
	}

	for _, p := range products {
		lines := []string{
			styles.Name.Render(p.Title),
			styles.Faint.Render(truncate(p.Description, terminalWidth-4)),
			fmt.Sprintf("★ %s %s   %s   %s",
				FormatRating(p.Rating.Rate),
				styles.Faint.Render(fmt.Sprintf("(%d reviews)", p.Rating.Count)),
				styles.Price.Render(FormatPrice(p.Price)),
				styles.Badge.Render(p.Category),
			),
		}
		b.WriteString(styles.Card.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// truncate shortens s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
