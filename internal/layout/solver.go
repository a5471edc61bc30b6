// Package layout fits a whole table plus its header into a fixed canvas.
//
// The solver is a bounded iteration: it shrinks font size, header font size
// and row padding by fixed decrements until the table fits or the font floor
// is reached, then spreads any large surplus as extra row padding.
package layout

import (
	"math"

	"github.com/ivlev/table2video/internal/text"
)

// Metrics provides measurers for a font size and weight.
type Metrics interface {
	Measurer(size float64, bold bool) text.Measurer
	LineHeight(size float64) float64
}

// Params are the tunable constants of the solver.
type Params struct {
	Width, Height float64
	Margin        float64
	FooterHeight  float64
	TitleSize     float64
	SummarySize   float64
	HeaderGap     float64

	FontSize       float64
	HeaderFontSize float64
	RowPadding     float64
	CellPadding    float64 // horizontal, each side
	MinRowHeight   float64

	FontStep        float64
	PaddingStep     float64
	MinFontSize     float64
	MinPadding      float64
	MaxAttempts     int
	FillThreshold   float64 // expand padding when the table uses less than this share of the target
	MaxExtraPadding float64
}

// DefaultParams returns the constants used for print-size exports.
func DefaultParams(width, height float64) Params {
	return Params{
		Width:           width,
		Height:          height,
		Margin:          120,
		FooterHeight:    260,
		TitleSize:       96,
		SummarySize:     44,
		HeaderGap:       48,
		FontSize:        48,
		HeaderFontSize:  54,
		RowPadding:      40,
		CellPadding:     20,
		MinRowHeight:    70,
		FontStep:        2,
		PaddingStep:     3,
		MinFontSize:     25,
		MinPadding:      10,
		MaxAttempts:     15,
		FillThreshold:   0.85,
		MaxExtraPadding: 60,
	}
}

// Result is a solved layout. Heights are in canvas pixels.
type Result struct {
	ContentWidth   float64
	ColumnWidth    float64
	HeaderBlock    float64 // title + summary block, top margin included
	TargetHeight   float64
	FontSize       float64
	HeaderFontSize float64
	RowPadding     float64
	HeaderRow      float64
	RowHeights     []float64
	TableHeight    float64
	Attempts       int
	Fits           bool
}

// Solve computes a layout for columns and rows under p.
func Solve(m Metrics, p Params, title, summary string, columns []string, rows [][]string) Result {
	content := p.Width - 2*p.Margin
	if content < 1 {
		content = 1
	}

	header := p.Margin
	if title != "" {
		n := text.WrapCount(m.Measurer(p.TitleSize, true), title, content)
		header += float64(n)*m.LineHeight(p.TitleSize) + p.HeaderGap/2
	}
	if summary != "" {
		n := text.WrapCount(m.Measurer(p.SummarySize, false), summary, content)
		header += float64(n)*m.LineHeight(p.SummarySize) + p.HeaderGap/2
	}
	header += p.HeaderGap / 2

	target := p.Height - header - p.FooterHeight
	if target < 0 {
		target = 0
	}

	cols := len(columns)
	if cols < 1 {
		cols = 1
	}

	floor := p.MinFontSize
	if floor < 1 {
		floor = 1
	}

	r := Result{
		ContentWidth:   content,
		ColumnWidth:    content / float64(cols),
		HeaderBlock:    header,
		TargetHeight:   target,
		FontSize:       clampMin(p.FontSize, floor),
		HeaderFontSize: clampMin(p.HeaderFontSize, floor),
		RowPadding:     clampMin(p.RowPadding, 0),
	}

	measure(m, p, &r, columns, rows)
	for r.TableHeight > target && r.Attempts < p.MaxAttempts && r.FontSize > floor {
		r.Attempts++
		r.FontSize = clampMin(r.FontSize-p.FontStep, floor)
		r.HeaderFontSize = clampMin(r.HeaderFontSize-p.FontStep, floor)
		r.RowPadding = clampMin(r.RowPadding-p.PaddingStep, p.MinPadding)
		measure(m, p, &r, columns, rows)
	}

	if r.TableHeight < target*p.FillThreshold {
		n := float64(len(rows) + 1)
		extra := math.Floor((target - r.TableHeight) / n)
		if extra > p.MaxExtraPadding {
			extra = p.MaxExtraPadding
		}
		r.RowPadding += extra
		measure(m, p, &r, columns, rows)
	}

	r.Fits = r.TableHeight <= target
	return r
}

func measure(m Metrics, p Params, r *Result, columns []string, rows [][]string) {
	cellWidth := r.ColumnWidth - 2*p.CellPadding
	if cellWidth < 1 {
		cellWidth = 1
	}

	r.HeaderRow = rowHeight(m, p, columns, cellWidth, r.HeaderFontSize, r.RowPadding, func(int) bool { return true })

	r.RowHeights = r.RowHeights[:0]
	total := r.HeaderRow
	for _, row := range rows {
		h := rowHeight(m, p, row, cellWidth, r.FontSize, r.RowPadding, func(col int) bool { return col == 0 })
		r.RowHeights = append(r.RowHeights, h)
		total += h
	}
	r.TableHeight = total
}

func rowHeight(m Metrics, p Params, cells []string, width, size, padding float64, bold func(int) bool) float64 {
	lines := 1
	for i, c := range cells {
		if n := text.WrapCount(m.Measurer(size, bold(i)), c, width); n > lines {
			lines = n
		}
	}
	h := float64(lines)*m.LineHeight(size) + padding
	if h < p.MinRowHeight {
		h = p.MinRowHeight
	}
	return h
}

func clampMin(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}
