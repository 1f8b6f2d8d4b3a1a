package ui

import (
	"strings"

	"crystal-mem/internal/assets"
	"crystal-mem/internal/crystal"

	"github.com/charmbracelet/lipgloss"
)

var (
	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(1, 3).
			Align(lipgloss.Center)
	popupTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	popupHintStyle  = lipgloss.NewStyle().Faint(true)
)

// Popup is the win dialog. Image names the sprite of the winning crystal.
type Popup struct {
	Visible bool
	Crystal crystal.Type
	Image   string
}

func (p *Popup) Show(t crystal.Type) {
	p.Visible = true
	p.Crystal = t
	p.Image = t.String()
}

func (p *Popup) Hide() {
	p.Visible = false
}

// Render draws the dialog centered in a width×height area. stats are extra
// lines shown under the title.
func (p *Popup) Render(set *assets.Set, stats []string, width, height int) string {
	var lines []string
	lines = append(lines, popupTitleStyle.Render("ALL "+strings.ToUpper(p.Image)+" CRYSTALS FOUND!"))

	if set != nil {
		if sp, ok := set.Crystals[p.Crystal]; ok {
			art := lipgloss.NewStyle().Foreground(lipgloss.Color(sp.Color)).Render(strings.Join(sp.Art, "\n"))
			lines = append(lines, "", art)
		}
	}
	if len(stats) > 0 {
		lines = append(lines, "", strings.Join(stats, "\n"))
	}
	lines = append(lines, "", popupHintStyle.Render("press r or click to play again"))

	dialog := popupStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}
