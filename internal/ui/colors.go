package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/souffle/internal/breath"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	phases map[breath.Phase]lipgloss.Style
	big    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		phases: map[breath.Phase]lipgloss.Style{
			breath.Inhale: NewBold("#4FC3F7"),
			breath.Hold:   NewBold(t),
			breath.Exhale: NewBold(s),
		},
		big: lipgloss.NewStyle().Bold(true).Padding(1, 4).Border(lipgloss.RoundedBorder()),
	}
}

// Phase returns the style used for the instruction of phase p.
func (p *Palette) Phase(phase breath.Phase) lipgloss.Style {
	if s, ok := p.phases[phase]; ok {
		return s
	}
	return p.title
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
