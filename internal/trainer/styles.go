package trainer

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const progressWidth = 24

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	headingStyle   = lipgloss.NewStyle().Bold(true)
)

// painter applies styles only when color output is enabled.
type painter struct {
	color bool
	bar   progress.Model
}

func newPainter(color bool) painter {
	return painter{
		color: color,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth), progress.WithoutPercentage()),
	}
}

func (p painter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// progressBar renders done/total as a bar, or nothing when color is off.
func (p painter) progressBar(done, total int) string {
	if !p.color || total <= 0 {
		return ""
	}
	pct := float64(done) / float64(total)
	if pct > 1 {
		pct = 1
	}
	return p.bar.ViewAs(pct)
}
