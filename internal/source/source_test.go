package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ivlev/table2video/internal/config"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   TableData
		wantErr error
	}{
		{"ok", TableData{Columns: []string{"X", "Y"}, Data: [][]string{{"a", "1"}}}, nil},
		{"single column", TableData{Columns: []string{"X"}, Data: [][]string{{"a"}, {"b"}}}, nil},
		{"empty rows", TableData{Columns: []string{"X"}}, nil},
		{"no columns", TableData{}, ErrNoColumns},
		{"ragged", TableData{Columns: []string{"X", "Y"}, Data: [][]string{{"a"}}}, ErrRaggedRow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadProjectYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cities.yaml")
	doc := `
table:
  title: Cities
  columns: [City, Population, Country]
  data:
    - [Tokyo, "37M", Japan]
    - [Delhi, "32M", India]
  sources: ["https://example.org/cities"]
animation:
  theme: GLASS
  layout: SPLIT
  durationPerItem: 2
  backgroundImage: bg.png
narrationFile: narration.txt
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "narration.txt"), []byte("AAAA\n"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if p.Table.Title != "Cities" || len(p.Table.Data) != 2 {
		t.Errorf("Unexpected table: %+v", p.Table)
	}
	if p.Animation.Theme != config.ThemeGlass || p.Animation.Layout != config.LayoutSplit {
		t.Errorf("Unexpected animation: %+v", p.Animation)
	}
	// Unset fields keep their defaults.
	if p.Animation.Style != config.StyleSlide || !p.Animation.ShowProgressBar {
		t.Errorf("Defaults lost: %+v", p.Animation)
	}
	if p.Animation.BackgroundImage != filepath.Join(dir, "bg.png") {
		t.Errorf("Background not resolved: %s", p.Animation.BackgroundImage)
	}
	if p.Narration != "AAAA" {
		t.Errorf("Narration not loaded: %q", p.Narration)
	}
}

func TestLoadProjectJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.json")
	doc := `{"table":{"columns":["X","Y"],"data":[["a","1"],["b","2"]]},"animation":{"theme":"NEON","layout":"LOWER_THIRD","style":"ZOOM","durationPerItem":1}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Animation.Layout != config.LayoutLowerThird || p.Animation.Style != config.StyleZoom {
		t.Errorf("Unexpected animation: %+v", p.Animation)
	}
}

func TestLoadRejectsRaggedTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := "table:\n  columns: [X, Y]\n  data:\n    - [a]\n"
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrRaggedRow) {
		t.Errorf("Expected ErrRaggedRow, got %v", err)
	}
}

func TestLoadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "Planet", "B1": "Moons", "C1": "Rings",
		"A2": "Earth", "B2": "1",
		"A3": "Saturn", "B3": "146", "C3": "yes",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "planets.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(p.Table.Columns) != 3 || len(p.Table.Data) != 2 {
		t.Fatalf("Unexpected shape: %+v", p.Table)
	}
	if p.Table.Cell(0, 2) != "" {
		t.Errorf("Short row should be padded, got %q", p.Table.Cell(0, 2))
	}
	if p.Table.Cell(1, 2) != "yes" {
		t.Errorf("Expected yes, got %q", p.Table.Cell(1, 2))
	}
	if p.Table.Title != sheet {
		t.Errorf("Expected title %q, got %q", sheet, p.Table.Title)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	if _, err := Load("table.csv"); !errors.Is(err, ErrUnknownExt) {
		t.Errorf("Expected ErrUnknownExt, got %v", err)
	}
}
