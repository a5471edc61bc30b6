package layout

import (
	"fmt"
	"testing"

	"github.com/ivlev/table2video/internal/text"
)

// monoMetrics measures each rune as 0.5em and uses 1.25em lines.
type monoMetrics struct{}

func (monoMetrics) Measurer(size float64, bold bool) text.Measurer {
	w := 0.5
	if bold {
		w = 0.55
	}
	return text.MeasureFunc(func(s string) float64 {
		return float64(len([]rune(s))) * size * w
	})
}

func (monoMetrics) LineHeight(size float64) float64 { return size * 1.25 }

func makeTable(rows, cols int, cell string) ([]string, [][]string) {
	columns := make([]string, cols)
	for c := range columns {
		columns[c] = fmt.Sprintf("Column %d", c+1)
	}
	data := make([][]string, rows)
	for r := range data {
		data[r] = make([]string, cols)
		for c := range data[r] {
			data[r][c] = cell
		}
	}
	return columns, data
}

func TestSolveSmallTableExpands(t *testing.T) {
	p := DefaultParams(2400, 3000)
	columns, rows := makeTable(3, 3, "short")

	r := Solve(monoMetrics{}, p, "Title", "", columns, rows)

	if !r.Fits {
		t.Fatalf("Expected fit: %+v", r)
	}
	if r.Attempts != 0 {
		t.Errorf("Expected no shrinking, got %d attempts", r.Attempts)
	}
	if r.RowPadding <= p.RowPadding {
		t.Errorf("Expected surplus padding, got %f", r.RowPadding)
	}
	if r.RowPadding > p.RowPadding+p.MaxExtraPadding {
		t.Errorf("Extra padding not capped: %f", r.RowPadding)
	}
	if r.ColumnWidth != r.ContentWidth/3 {
		t.Errorf("Columns must be uniform: %f vs %f", r.ColumnWidth, r.ContentWidth/3)
	}
}

func TestSolveShrinksToFit(t *testing.T) {
	p := DefaultParams(2400, 3000)
	columns, rows := makeTable(24, 4, "a moderately long value")

	r := Solve(monoMetrics{}, p, "A fairly long presentation title", "With a summary line that explains the data.", columns, rows)

	if r.Attempts == 0 {
		t.Errorf("Expected shrinking attempts")
	}
	if r.Attempts > p.MaxAttempts {
		t.Errorf("Attempts exceed bound: %d", r.Attempts)
	}
	if !r.Fits || r.TableHeight > r.TargetHeight {
		t.Errorf("Expected fit: height %f target %f font %f", r.TableHeight, r.TargetHeight, r.FontSize)
	}
	if r.FontSize < p.MinFontSize {
		t.Errorf("Font below floor: %f", r.FontSize)
	}
	t.Logf("font=%.1f header=%.1f padding=%.1f attempts=%d height=%.0f/%.0f",
		r.FontSize, r.HeaderFontSize, r.RowPadding, r.Attempts, r.TableHeight, r.TargetHeight)
}

func TestSolveUnsatisfiableStopsAtFloor(t *testing.T) {
	p := DefaultParams(2400, 3000)
	columns, rows := makeTable(200, 6, "value that wraps across several lines in a narrow column")

	r := Solve(monoMetrics{}, p, "Huge", "", columns, rows)

	if r.Fits {
		t.Errorf("Did not expect a fit")
	}
	if r.FontSize != p.MinFontSize {
		t.Errorf("Expected floor font %f, got %f", p.MinFontSize, r.FontSize)
	}
	if r.Attempts > p.MaxAttempts {
		t.Errorf("Attempts exceed bound: %d", r.Attempts)
	}
}

func TestSolveNeverNonPositiveFont(t *testing.T) {
	p := DefaultParams(400, 300)
	p.MinFontSize = 0
	p.FontSize = 4
	p.HeaderFontSize = 4
	columns, rows := makeTable(50, 2, "x")

	r := Solve(monoMetrics{}, p, "", "", columns, rows)
	if r.FontSize <= 0 || r.HeaderFontSize <= 0 {
		t.Errorf("Non-positive font: %+v", r)
	}
}

func TestRowHeightUsesMinimum(t *testing.T) {
	p := DefaultParams(2400, 3000)
	p.MinRowHeight = 500
	columns, rows := makeTable(2, 2, "x")

	r := Solve(monoMetrics{}, p, "", "", columns, rows)
	for i, h := range r.RowHeights {
		if h < 500 {
			t.Errorf("Row %d below minimum: %f", i, h)
		}
	}
}

func TestHeaderBlockGrowsWithSummary(t *testing.T) {
	p := DefaultParams(2400, 3000)
	columns, rows := makeTable(2, 2, "x")

	bare := Solve(monoMetrics{}, p, "Title", "", columns, rows)
	withSummary := Solve(monoMetrics{}, p, "Title", "Summary text", columns, rows)

	if withSummary.HeaderBlock <= bare.HeaderBlock {
		t.Errorf("Summary should enlarge header: %f <= %f", withSummary.HeaderBlock, bare.HeaderBlock)
	}
	if withSummary.TargetHeight >= bare.TargetHeight {
		t.Errorf("Summary should shrink target height")
	}
}
