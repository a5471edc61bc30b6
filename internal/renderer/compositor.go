package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/table2video/internal/analyzer"
	"github.com/ivlev/table2video/internal/config"
	"github.com/ivlev/table2video/internal/director"
	"github.com/ivlev/table2video/internal/effects"
	"github.com/ivlev/table2video/internal/source"
	"github.com/ivlev/table2video/internal/text"
)

const (
	// ReferenceSize is the canvas edge all layout sizes are expressed in.
	ReferenceSize = 1080.0

	AppName     = "table2video"
	AIWatermark = "AI generated"
)

// Scene is everything a frame is composed from besides the tick.
type Scene struct {
	Table      *source.TableData
	Animation  config.AnimationConfig
	Background image.Image // nil selects the theme's procedural background
	Logo       image.Image // nil omits the logo
}

// BlockPlan is a text block resolved to canvas pixels.
type BlockPlan struct {
	Label     string
	Value     string
	X, Y      float64 // anchor; Y is the block's vertical center
	Width     float64
	Align     text.Align
	LabelSize float64
	ValueSize float64
	Alpha     float64
}

// Plan is the resolved content of one frame.
type Plan struct {
	Title     string
	Subject   *BlockPlan
	Attribute *BlockPlan
	Watermark string
	Progress  float64 // negative when the progress bar is hidden
	Zoom      float64
}

// Compositor draws presentation frames.
type Compositor struct {
	scene    Scene
	style    ThemeStyle
	layout   LayoutSpec
	seq      director.Sequence
	stepDur  time.Duration
	faces    *text.Faces
	entrance effects.Effect
	overlay  float64

	bgCache   *image.RGBA
	logoCache *image.RGBA
}

// NewCompositor resolves the theme and layout tables once for scene.
func NewCompositor(scene Scene, faces *text.Faces) *Compositor {
	if faces == nil {
		faces = text.NewFaces()
	}
	if scene.Table == nil {
		scene.Table = &source.TableData{}
	}

	c := &Compositor{
		scene:    scene,
		style:    StyleFor(scene.Animation.Theme),
		layout:   LayoutFor(scene.Animation.Layout),
		seq:      director.NewSequence(scene.Table),
		stepDur:  scene.Animation.StepDuration(),
		faces:    faces,
		entrance: effects.ForStyle(scene.Animation.Style),
	}
	if scene.Background != nil {
		c.overlay = analyzer.NewLegibility().OverlayAlpha(scene.Background)
	}
	return c
}

// Style returns the resolved theme.
func (c *Compositor) Style() ThemeStyle { return c.style }

// Plan resolves what tick shows on a w×h canvas.
func (c *Compositor) Plan(tick director.Tick, w, h int) Plan {
	scale := canvasScale(w, h)
	fw, fh := float64(w), float64(h)
	table := c.scene.Table
	anim := c.scene.Animation

	p := Plan{
		Title:    table.Title,
		Progress: -1,
		Zoom:     BackgroundZoom(tick.Elapsed),
	}
	if anim.ShowProgressBar {
		p.Progress = tick.Progress
	}

	st := tick.Step
	if st.Index < 0 || st.RowIdx >= len(table.Data) {
		return p
	}

	tr := c.entrance.Apply(tick.RowElapsed)
	subject := c.layout.Subject
	p.Subject = &BlockPlan{
		Label:     strings.ToUpper(table.Column(0)),
		Value:     table.Cell(st.RowIdx, 0),
		X:         subject.X*fw + tr.DX*scale,
		Y:         subject.Y*fh + tr.DY*scale,
		Width:     subject.Width * fw,
		Align:     subject.Align,
		LabelSize: c.layout.LabelSize * scale * tr.Scale,
		ValueSize: c.layout.SubjectSize * scale * tr.Scale,
		Alpha:     tr.Alpha,
	}
	if c.layout.Watermark {
		p.Watermark = p.Subject.Value
	}

	if c.seq.HasAttributes() {
		attr := c.layout.Attribute
		last := st.Index == c.seq.Total-1
		p.Attribute = &BlockPlan{
			Label:     strings.ToUpper(table.Column(st.ColIdx)),
			Value:     table.Cell(st.RowIdx, st.ColIdx),
			X:         attr.X * fw,
			Y:         attr.Y * fh,
			Width:     attr.Width * fw,
			Align:     attr.Align,
			LabelSize: c.layout.LabelSize * scale,
			ValueSize: c.layout.ValueSize * scale,
			Alpha:     Opacity(tick.StepElapsed, c.stepDur, FadeDuration, !last),
		}
	}
	return p
}

// Draw composes the frame for tick into dst.
func (c *Compositor) Draw(dst *image.RGBA, tick director.Tick) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := canvasScale(w, h)
	plan := c.Plan(tick, w, h)

	c.drawBackground(dst, plan.Zoom)
	c.drawTitle(dst, plan.Title, scale)

	if plan.Watermark != "" && plan.Subject != nil {
		face := c.faces.Face(c.style.Subject, 260*scale)
		col := withAlpha(c.style.Colors.Subject, 0.08*plan.Subject.Alpha)
		text.Draw(dst, face, plan.Watermark, 0.04*float64(w), 0.5*float64(h), text.AlignLeft, col)
	}
	if c.layout.Divider {
		x := w / 2
		fillRect(dst, image.Rect(x-int(scale), int(0.32*float64(h)), x+int(scale)+1, int(0.72*float64(h))),
			withAlpha(c.style.Colors.Line, 0.6))
	}
	if c.layout.CaptionBar {
		top, bottom := int(0.72*float64(h)), int(0.9*float64(h))
		fillRect(dst, image.Rect(0, top, w, bottom), color.NRGBA{A: 140})
		fillRect(dst, image.Rect(0, top, w, top+int(4*scale)+1), c.style.Colors.Bar)
	}

	if plan.Subject != nil {
		c.drawBlock(dst, plan.Subject, c.style.Subject, c.style.Colors.Subject)
	}
	if plan.Attribute != nil {
		c.drawBlock(dst, plan.Attribute, c.style.Value, c.style.Colors.Value)
	}

	if plan.Progress >= 0 {
		c.drawProgress(dst, plan.Progress, scale)
	}
	c.drawLogo(dst, scale)
	c.drawLabels(dst, scale)
}

func (c *Compositor) drawBackground(dst *image.RGBA, zoom float64) {
	if c.scene.Background != nil {
		drawCover(dst, c.scene.Background, zoom, xdraw.ApproxBiLinear)
		fillRect(dst, dst.Bounds(), color.NRGBA{A: uint8(c.overlay * 255)})
		return
	}

	b := dst.Bounds()
	if c.bgCache == nil || c.bgCache.Bounds().Size() != b.Size() {
		c.bgCache = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		paintProcedural(c.bgCache, c.style)
	}
	draw.Draw(dst, b, c.bgCache, image.Point{}, draw.Src)
}

// paintProcedural renders the theme's substitute for a bitmap background.
func paintProcedural(dst *image.RGBA, style ThemeStyle) {
	b := dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	scale := canvasScale(b.Dx(), b.Dy())
	colors := style.Colors

	switch style.Background {
	case BackgroundGrid:
		draw.Draw(dst, b, image.NewUniform(colors.Background), image.Point{}, draw.Src)
		drawGrid(dst, int(54*scale), int(scale), withAlpha(colors.Line, 0.16))
		fillRadialGlow(dst, w/2, h, h*0.7, withAlpha(colors.Line, 0.25))
	case BackgroundFrame:
		fillGradient(dst, colors.BackgroundAlt, colors.Background)
		inset := int(36 * scale)
		strokeRect(dst, b.Inset(inset), int(2*scale)+1, withAlpha(colors.Line, 0.7))
	case BackgroundGlass:
		fillGradient(dst, colors.Background, colors.BackgroundAlt)
		fillRadialGlow(dst, w*0.2, h*0.15, h*0.5, withAlpha(colors.Bar, 0.35))
		fillRadialGlow(dst, w*0.85, h*0.9, h*0.55, withAlpha(colors.Label, 0.3))
		panel := image.Rect(int(0.05*w), int(0.18*h), int(0.95*w), int(0.92*h))
		fillRoundedRect(dst, panel, int(36*scale), color.NRGBA{R: 255, G: 255, B: 255, A: 22})
	default:
		fillGradient(dst, colors.Background, colors.BackgroundAlt)
		fillRadialGlow(dst, w*0.75, h*0.25, h*0.6, withAlpha(colors.Line, 0.3))
	}
}

func (c *Compositor) drawTitle(dst *image.RGBA, title string, scale float64) {
	if title == "" {
		return
	}
	w := float64(dst.Bounds().Dx())
	size := 44 * scale
	face := c.faces.Face(c.style.Title, size)
	textH := text.BlockHeight(face, title, w*0.86, size)

	band := 150 * scale
	if textH+40*scale > band {
		band = textH + 40*scale
	}
	bg := withAlpha(c.style.Colors.Background, 0.55)
	fillRect(dst, image.Rect(0, 0, int(w), int(band)), bg)
	fillRect(dst, image.Rect(0, int(band), int(w), int(band+2*scale)+1), withAlpha(c.style.Colors.Line, 0.5))
	text.DrawBlock(dst, face, title, w/2, (band-textH)/2, w*0.86, size, text.AlignCenter, c.style.Colors.Header)
}

func (c *Compositor) drawBlock(dst *image.RGBA, bp *BlockPlan, valueFamily text.Family, valueColor color.NRGBA) {
	if bp.Alpha <= 0 {
		return
	}
	labelFace := c.faces.Face(c.style.Label, bp.LabelSize)
	valueFace := c.faces.Face(valueFamily, bp.ValueSize)

	gap := bp.LabelSize * 0.5
	labelH := text.BlockHeight(labelFace, bp.Label, bp.Width, bp.LabelSize)
	valueH := text.BlockHeight(valueFace, bp.Value, bp.Width, bp.ValueSize)
	top := bp.Y - (labelH+gap+valueH)/2

	x := bp.X
	text.DrawBlock(dst, labelFace, bp.Label, x, top, bp.Width, bp.LabelSize, bp.Align,
		withAlpha(c.style.Colors.Label, bp.Alpha))
	text.DrawBlock(dst, valueFace, bp.Value, x, top+labelH+gap, bp.Width, bp.ValueSize, bp.Align,
		withAlpha(valueColor, bp.Alpha))
}

func (c *Compositor) drawProgress(dst *image.RGBA, progress, scale float64) {
	b := dst.Bounds()
	height := int(10*scale) + 1
	y := b.Max.Y - height
	fillRect(dst, image.Rect(0, y, b.Dx(), b.Max.Y), withAlpha(c.style.Colors.Line, 0.15))
	fillRect(dst, image.Rect(0, y, int(progress*float64(b.Dx())), b.Max.Y), c.style.Colors.Bar)
}

func (c *Compositor) drawLogo(dst *image.RGBA, scale float64) {
	if c.scene.Logo == nil {
		return
	}
	size := int(120 * scale)
	if size < 1 {
		return
	}
	if c.logoCache == nil || c.logoCache.Bounds().Dx() != size {
		c.logoCache = containSquare(c.scene.Logo, size, int(22*scale))
	}
	margin := int(28 * scale)
	b := dst.Bounds()
	r := image.Rect(b.Max.X-margin-size, margin, b.Max.X-margin, margin+size)
	draw.Draw(dst, r, c.logoCache, image.Point{}, draw.Over)
}

func (c *Compositor) drawLabels(dst *image.RGBA, scale float64) {
	anim := c.scene.Animation
	if !anim.ShowAppName && !anim.ShowAIWatermark {
		return
	}
	b := dst.Bounds()
	size := 22 * scale
	face := c.faces.Face(c.style.Label, size)
	y := float64(b.Dy()) - 34*scale
	col := withAlpha(c.style.Colors.Label, 0.75)
	margin := 32 * scale

	if anim.ShowAppName {
		text.Draw(dst, face, AppName, margin, y, text.AlignLeft, col)
	}
	if anim.ShowAIWatermark {
		text.Draw(dst, face, AIWatermark, float64(b.Dx())-margin, y, text.AlignRight, col)
	}
}

func canvasScale(w, h int) float64 {
	m := w
	if h < m {
		m = h
	}
	return float64(m) / ReferenceSize
}
