package director

import "github.com/ivlev/table2video/internal/source"

// Sequence maps step indices to table cells. Step s shows row
// s/Attributes and attribute s%Attributes.
type Sequence struct {
	Rows       int
	Columns    int
	Attributes int
	Total      int
}

// Step identifies the cell shown during one step.
type Step struct {
	Index   int
	RowIdx  int
	AttrIdx int
	ColIdx  int // column holding the attribute value; 0 when the table has only the subject column
}

// NewSequence derives the step sequence of a table.
func NewSequence(t *source.TableData) Sequence {
	cols := len(t.Columns)
	attrs := cols - 1
	if attrs < 1 {
		attrs = 1
	}
	return Sequence{
		Rows:       len(t.Data),
		Columns:    cols,
		Attributes: attrs,
		Total:      len(t.Data) * attrs,
	}
}

// At returns the cell for step s. Out-of-range steps are clamped; an empty
// sequence yields Index -1.
func (q Sequence) At(s int) Step {
	if q.Total <= 0 {
		return Step{Index: -1, RowIdx: -1, AttrIdx: -1, ColIdx: -1}
	}
	if s < 0 {
		s = 0
	}
	if s >= q.Total {
		s = q.Total - 1
	}

	st := Step{
		Index:   s,
		RowIdx:  s / q.Attributes,
		AttrIdx: s % q.Attributes,
	}
	if q.Columns > 1 {
		st.ColIdx = st.AttrIdx + 1
	}
	return st
}

// HasAttributes reports whether an attribute block exists at all.
func (q Sequence) HasAttributes() bool {
	return q.Columns > 1
}
