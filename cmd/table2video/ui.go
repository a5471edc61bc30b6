package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("#00FFFF")
	colorGreen  = lipgloss.Color("#00FF00")
	colorYellow = lipgloss.Color("#FFFF00")
	colorRed    = lipgloss.Color("#FF0000")
	colorGray   = lipgloss.Color("#666666")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	statusStyle  = lipgloss.NewStyle().Foreground(colorGray)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	barStyle     = lipgloss.NewStyle().Foreground(colorCyan)
	barEmpty     = lipgloss.NewStyle().Foreground(colorGray)
)

func status(format string, args ...any) {
	fmt.Println(statusStyle.Render(fmt.Sprintf(format, args...)))
}

func warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render(fmt.Sprintf(format, args...)))
}

func success(format string, args ...any) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

const barWidth = 30

// progressLine redraws a single terminal line as progress moves, only when
// the whole percentage changes.
type progressLine struct {
	label string

	mu      sync.Mutex
	percent int
	drawn   bool
}

func newProgressLine(label string) *progressLine {
	return &progressLine{label: label, percent: -1}
}

func (p *progressLine) Update(v float64) {
	pct := int(v * 100)
	p.mu.Lock()
	defer p.mu.Unlock()
	if pct == p.percent {
		return
	}
	p.percent = pct
	p.drawn = true
	fmt.Print("\r" + renderBar(p.label, v))
}

// Done ends the line. Repeated calls do nothing.
func (p *progressLine) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Println()
		p.drawn = false
		p.percent = -1
	}
}

func renderBar(label string, v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v * barWidth)
	return fmt.Sprintf("[>] %s %s%s %3d%%", label,
		barStyle.Render(strings.Repeat("█", filled)),
		barEmpty.Render(strings.Repeat("░", barWidth-filled)),
		int(v*100))
}
