package renderer

import (
	"context"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/table2video/internal/assets"
	"github.com/ivlev/table2video/internal/config"
	"github.com/ivlev/table2video/internal/director"
	"github.com/ivlev/table2video/internal/source"
	"github.com/ivlev/table2video/internal/text"
)

var sharedFaces = text.NewFaces()

func cityTable() *source.TableData {
	return &source.TableData{
		Title:   "Largest cities",
		Columns: []string{"City", "Population", "Country"},
		Data: [][]string{
			{"Tokyo", "37M", "Japan"},
			{"Delhi", "32M", "India"},
		},
		Sources: []string{"https://example.org/cities"},
	}
}

func newScene(table *source.TableData, mutate func(*config.AnimationConfig)) Scene {
	anim := config.DefaultAnimation()
	anim.DurationPerItem = 2
	anim.ShowAppName = true
	anim.ShowAIWatermark = true
	if mutate != nil {
		mutate(&anim)
	}
	return Scene{Table: table, Animation: anim}
}

func tickAt(table *source.TableData, anim config.AnimationConfig, elapsed time.Duration) director.Tick {
	s := director.NewScheduler(director.NewSequence(table), anim.StepDuration(), config.DefaultEndBuffer)
	return s.Advance(elapsed)
}

func TestDrawEveryThemeAndLayout(t *testing.T) {
	table := cityTable()
	for _, theme := range config.Themes() {
		for _, lay := range config.Layouts() {
			t.Run(theme.String()+"/"+lay.String(), func(t *testing.T) {
				scene := newScene(table, func(a *config.AnimationConfig) {
					a.Theme = theme
					a.Layout = lay
				})
				c := NewCompositor(scene, sharedFaces)
				dst := image.NewRGBA(image.Rect(0, 0, 270, 270))
				c.Draw(dst, tickAt(table, scene.Animation, 1500*time.Millisecond))

				if a := dst.RGBAAt(135, 135).A; a != 255 {
					t.Errorf("Background not opaque at center: alpha %d", a)
				}
			})
		}
	}
}

func TestPlanSingleColumn(t *testing.T) {
	table := &source.TableData{Columns: []string{"X"}, Data: [][]string{{"a"}, {"b"}, {"c"}}}
	scene := newScene(table, nil)
	c := NewCompositor(scene, sharedFaces)

	for _, ms := range []int{0, 2500, 5900} {
		p := c.Plan(tickAt(table, scene.Animation, time.Duration(ms)*time.Millisecond), 1080, 1080)
		if p.Subject == nil {
			t.Fatalf("At %dms: subject block missing", ms)
		}
		if p.Attribute != nil {
			t.Errorf("At %dms: attribute block should be omitted, got %+v", ms, p.Attribute)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	c.Draw(dst, tickAt(table, scene.Animation, time.Second))
}

func TestPlanScenarioA(t *testing.T) {
	table := &source.TableData{Columns: []string{"X", "Y"}, Data: [][]string{{"a", "1"}, {"b", "2"}}}
	scene := newScene(table, nil)
	c := NewCompositor(scene, sharedFaces)

	p := c.Plan(tickAt(table, scene.Animation, 0), 1080, 1080)
	if p.Subject.Value != "a" || p.Attribute.Value != "1" || p.Attribute.Label != "Y" {
		t.Errorf("Unexpected first frame: %+v %+v", p.Subject, p.Attribute)
	}

	p = c.Plan(tickAt(table, scene.Animation, 2000*time.Millisecond), 1080, 1080)
	if p.Subject.Value != "b" || p.Attribute.Value != "2" {
		t.Errorf("Unexpected second step: %+v %+v", p.Subject, p.Attribute)
	}
}

func TestAttributeFadeEnvelope(t *testing.T) {
	table := cityTable()
	scene := newScene(table, nil)
	c := NewCompositor(scene, sharedFaces)

	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{150 * time.Millisecond, 0.5},
		{time.Second, 1},
		{1850 * time.Millisecond, 0.5},
		// Last step is held, so it never fades out.
		{7 * time.Second, 1},
		{7900 * time.Millisecond, 1},
	}

	for _, tt := range tests {
		p := c.Plan(tickAt(table, scene.Animation, tt.elapsed), 1080, 1080)
		if math.Abs(p.Attribute.Alpha-tt.want) > 1e-9 {
			t.Errorf("At %v: expected alpha %.2f, got %.4f", tt.elapsed, tt.want, p.Attribute.Alpha)
		}
	}
}

func TestSubjectEntranceRetriggersPerRow(t *testing.T) {
	table := cityTable() // two attributes per row
	scene := newScene(table, nil)
	c := NewCompositor(scene, sharedFaces)

	// Second attribute of the first row: the subject is at rest.
	p := c.Plan(tickAt(table, scene.Animation, 2*time.Second), 1080, 1080)
	if p.Subject.Alpha != 1 {
		t.Errorf("Subject should be at rest within a row, alpha %.2f", p.Subject.Alpha)
	}

	// First attribute of the second row: the entrance starts again.
	p = c.Plan(tickAt(table, scene.Animation, 4*time.Second), 1080, 1080)
	if p.Subject.Alpha != 0 {
		t.Errorf("Subject entrance should restart on a new row, alpha %.2f", p.Subject.Alpha)
	}
}

func TestProgressBarHidden(t *testing.T) {
	table := cityTable()
	scene := newScene(table, func(a *config.AnimationConfig) { a.ShowProgressBar = false })
	c := NewCompositor(scene, sharedFaces)

	if p := c.Plan(tickAt(table, scene.Animation, time.Second), 1080, 1080); p.Progress >= 0 {
		t.Errorf("Expected hidden progress, got %.2f", p.Progress)
	}
}

func TestProgressBarFill(t *testing.T) {
	table := &source.TableData{Columns: []string{"X", "Y"}, Data: [][]string{{"a", "1"}, {"b", "2"}}}
	scene := newScene(table, func(a *config.AnimationConfig) {
		a.ShowAppName = false
		a.ShowAIWatermark = false
	})
	c := NewCompositor(scene, sharedFaces)
	dst := image.NewRGBA(image.Rect(0, 0, 400, 400))
	c.Draw(dst, tickAt(table, scene.Animation, 2*time.Second)) // half way

	bar := c.Style().Colors.Bar
	y := 398
	if got := dst.RGBAAt(50, y); !sameRGB(got, bar) {
		t.Errorf("Expected filled bar at x=50, got %v", got)
	}
	if got := dst.RGBAAt(350, y); sameRGB(got, bar) {
		t.Errorf("Bar should not be filled at x=350")
	}
}

func TestMissingBackgroundFallsBack(t *testing.T) {
	ref := filepath.Join(t.TempDir(), "missing.png")
	bg := assets.NewLoader().LoadOptional(context.Background(), ref, "background")
	if bg != nil {
		t.Fatal("Expected nil background for a missing file")
	}

	table := cityTable()
	scene := newScene(table, func(a *config.AnimationConfig) { a.BackgroundImage = ref })
	scene.Background = bg

	c := NewCompositor(scene, sharedFaces)
	dst := image.NewRGBA(image.Rect(0, 0, 216, 216))
	c.Draw(dst, tickAt(table, scene.Animation, 0))

	if dst.RGBAAt(5, 5).A != 255 {
		t.Error("Procedural background not drawn")
	}
}

func TestBitmapBackgroundAndLogo(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for i := range bg.Pix {
		bg.Pix[i] = 255
	}
	logo := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := 0; i < len(logo.Pix); i += 4 {
		logo.Pix[i], logo.Pix[i+3] = 255, 255
	}

	table := cityTable()
	scene := newScene(table, nil)
	scene.Background = bg
	scene.Logo = logo

	c := NewCompositor(scene, sharedFaces)
	if c.overlay < 0.35 {
		t.Errorf("White background should get a strong overlay, got %.2f", c.overlay)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 540, 540))
	c.Draw(dst, tickAt(table, scene.Animation, 10*time.Second))

	// Darkened white: grey, not black, not white.
	if px := dst.RGBAAt(20, 150); px.R == 255 || px.R == 0 {
		t.Errorf("Expected darkened background, got %v", px)
	}
}

func TestOpacity(t *testing.T) {
	step := 2 * time.Second
	tests := []struct {
		elapsed time.Duration
		fadeOut bool
		want    float64
	}{
		{-time.Millisecond, true, 0},
		{0, true, 0},
		{300 * time.Millisecond, true, 1},
		{1850 * time.Millisecond, true, 0.5},
		{1850 * time.Millisecond, false, 1},
		{3 * time.Second, true, 0},
	}

	for _, tt := range tests {
		if got := Opacity(tt.elapsed, step, FadeDuration, tt.fadeOut); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Opacity(%v, fadeOut=%v) = %.3f, want %.3f", tt.elapsed, tt.fadeOut, got, tt.want)
		}
	}
}

func TestBackgroundZoom(t *testing.T) {
	if z := BackgroundZoom(0); z != 1 {
		t.Errorf("Expected 1 at start, got %v", z)
	}
	if BackgroundZoom(10*time.Second) <= BackgroundZoom(5*time.Second) {
		t.Error("Zoom must grow with elapsed time")
	}
	if z := BackgroundZoom(time.Hour); z != backgroundZoomMax {
		t.Errorf("Zoom should be capped, got %v", z)
	}
}

func TestRenderPoster(t *testing.T) {
	table := cityTable()
	table.Summary = "The five most populous urban areas according to the latest estimates."
	scene := newScene(table, func(a *config.AnimationConfig) { a.Theme = config.ThemeLuxe })

	img, res := RenderPoster(scene, 1200, 1500, sharedFaces)
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 1500 {
		t.Fatalf("Unexpected size %v", img.Bounds())
	}
	if !res.Fits {
		t.Errorf("Small table should fit: %+v", res)
	}
	if res.FontSize < 25 {
		t.Errorf("Font below floor: %.1f", res.FontSize)
	}
	if len(res.RowHeights) != len(table.Data) {
		t.Errorf("Expected %d row heights, got %d", len(table.Data), len(res.RowHeights))
	}
	t.Logf("Poster layout: font %.0f, padding %.0f, table %.0f/%.0f", res.FontSize, res.RowPadding, res.TableHeight, res.TargetHeight)
}

func TestFirstURL(t *testing.T) {
	if got := firstURL([]string{"Census 2020", "https://a.example", "http://b.example"}); got != "https://a.example" {
		t.Errorf("Unexpected url %q", got)
	}
	if got := firstURL([]string{"book"}); got != "" {
		t.Errorf("Expected no url, got %q", got)
	}
}

func sameRGB(a color.RGBA, b color.NRGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}
