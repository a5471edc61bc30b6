package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/table2video/internal/config"
)

var (
	ErrNoColumns  = errors.New("table has no columns")
	ErrRaggedRow  = errors.New("row length does not match column count")
	ErrUnknownExt = errors.New("unsupported table file")
)

// TableData is the dataset a presentation is built from. Columns[0] is the
// subject column; every row is aligned to Columns.
type TableData struct {
	Title   string     `yaml:"title,omitempty" json:"title,omitempty"`
	Summary string     `yaml:"summary,omitempty" json:"summary,omitempty"`
	Columns []string   `yaml:"columns" json:"columns"`
	Data    [][]string `yaml:"data" json:"data"`
	Sources []string   `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// Validate checks the structural invariants of the table.
func (t *TableData) Validate() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	for i, row := range t.Data {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d: %w", i, len(row), len(t.Columns), ErrRaggedRow)
		}
	}
	return nil
}

// Cell returns the value at (row, col) or "" when out of range.
func (t *TableData) Cell(row, col int) string {
	if row < 0 || row >= len(t.Data) || col < 0 || col >= len(t.Data[row]) {
		return ""
	}
	return t.Data[row][col]
}

// Column returns the label of column col or "" when out of range.
func (t *TableData) Column(col int) string {
	if col < 0 || col >= len(t.Columns) {
		return ""
	}
	return t.Columns[col]
}

// Project bundles a table with everything needed to present it.
type Project struct {
	Table         TableData              `yaml:"table" json:"table"`
	Animation     config.AnimationConfig `yaml:"animation" json:"animation"`
	Narration     string                 `yaml:"narration,omitempty" json:"narration,omitempty"`
	NarrationFile string                 `yaml:"narrationFile,omitempty" json:"narrationFile,omitempty"`
	Logo          string                 `yaml:"logo,omitempty" json:"logo,omitempty"`
}

// Load reads a project from a YAML/JSON document or an XLSX workbook.
// Relative asset paths are resolved against the project file's directory.
func Load(path string) (*Project, error) {
	var (
		p   *Project
		err error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		p, err = LoadProjectFile(path)
	case ".xlsx":
		p, err = LoadWorkbook(path, "")
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownExt)
	}
	if err != nil {
		return nil, err
	}

	if err := p.Table.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := filepath.Dir(path)
	p.Animation.BackgroundImage = resolve(base, p.Animation.BackgroundImage)
	p.Logo = resolve(base, p.Logo)

	if p.Narration == "" && p.NarrationFile != "" {
		data, err := os.ReadFile(resolve(base, p.NarrationFile))
		if err != nil {
			return nil, fmt.Errorf("read narration: %w", err)
		}
		p.Narration = strings.TrimSpace(string(data))
	}

	return p, nil
}

func resolve(base, ref string) string {
	if ref == "" || filepath.IsAbs(ref) || strings.Contains(ref, "://") {
		return ref
	}
	return filepath.Join(base, ref)
}
