package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"

	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/table2video/internal/layout"
	"github.com/ivlev/table2video/internal/source"
	"github.com/ivlev/table2video/internal/text"
)

// RenderPoster draws the whole table onto one w×h still. The returned
// layout result describes how the table was fitted.
func RenderPoster(scene Scene, w, h int, faces *text.Faces) (*image.RGBA, layout.Result) {
	if faces == nil {
		faces = text.NewFaces()
	}
	table := scene.Table
	if table == nil {
		table = &source.TableData{}
	}
	style := StyleFor(scene.Animation.Theme)
	colors := style.Colors

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if scene.Background != nil {
		drawCover(dst, scene.Background, 1, xdraw.CatmullRom)
		fillRect(dst, dst.Bounds(), withAlpha(colors.Background, 0.72))
	} else {
		paintProcedural(dst, style)
	}

	p := layout.DefaultParams(float64(w), float64(h))
	metrics := &text.FaceMetrics{Faces: faces, Regular: style.Value, Bold: style.Subject}
	res := layout.Solve(metrics, p, table.Title, table.Summary, table.Columns, table.Data)

	left := p.Margin
	y := p.Margin
	if table.Title != "" {
		face := faces.Face(style.Subject, p.TitleSize)
		y += text.DrawBlock(dst, face, table.Title, left, y, res.ContentWidth, p.TitleSize, text.AlignLeft, colors.Header)
		y += p.HeaderGap / 2
	}
	if table.Summary != "" {
		face := faces.Face(style.Value, p.SummarySize)
		text.DrawBlock(dst, face, table.Summary, left, y, res.ContentWidth, p.SummarySize, text.AlignLeft,
			withAlpha(colors.Label, 0.9))
	}

	// The solver measured the header with the same faces; start where it did.
	y = res.HeaderBlock
	drawTableRow(dst, faces, style, p, res, table.Columns, left, y, res.HeaderRow, res.HeaderFontSize, colors.Header,
		func(int) bool { return true })
	y += res.HeaderRow
	fillRect(dst, image.Rect(int(left), int(y)-2, int(left+res.ContentWidth), int(y)+2), colors.Bar)

	for i, row := range table.Data {
		rh := res.RowHeights[i]
		if i%2 == 1 {
			fillRect(dst, image.Rect(int(left), int(y), int(left+res.ContentWidth), int(y+rh)), withAlpha(colors.Line, 0.06))
		}
		drawTableRow(dst, faces, style, p, res, row, left, y, rh, res.FontSize, colors.Value,
			func(col int) bool { return col == 0 })
		y += rh
	}

	drawPosterFooter(dst, faces, style, p, table.Sources)
	return dst, res
}

func drawTableRow(dst *image.RGBA, faces *text.Faces, style ThemeStyle, p layout.Params, res layout.Result,
	cells []string, left, top, height, size float64, col color.NRGBA, bold func(int) bool) {
	width := res.ColumnWidth - 2*p.CellPadding
	for i, cell := range cells {
		family := style.Value
		c := col
		if bold(i) {
			family = style.Subject
			if i == 0 {
				c = style.Colors.Subject
			}
		}
		face := faces.Face(family, size)
		x := left + float64(i)*res.ColumnWidth + p.CellPadding
		textH := text.BlockHeight(face, cell, width, size)
		text.DrawBlock(dst, face, cell, x, top+(height-textH)/2, width, size, text.AlignLeft, c)
	}
}

func drawPosterFooter(dst *image.RGBA, faces *text.Faces, style ThemeStyle, p layout.Params, sources []string) {
	b := dst.Bounds()
	top := float64(b.Dy()) - p.FooterHeight
	fillRect(dst, image.Rect(0, int(top), b.Dx(), b.Dy()), withAlpha(style.Colors.Background, 0.8))
	fillRect(dst, image.Rect(0, int(top), b.Dx(), int(top)+3), withAlpha(style.Colors.Line, 0.6))

	qrSize := int(p.FooterHeight - 80)
	textWidth := float64(b.Dx()) - 2*p.Margin
	if url := firstURL(sources); url != "" && qrSize > 0 {
		if qr := renderQR(url, qrSize); qr != nil {
			x := b.Max.X - int(p.Margin) - qrSize
			r := image.Rect(x, int(top)+40, x+qrSize, int(top)+40+qrSize)
			draw.Draw(dst, r, qr, qr.Bounds().Min, draw.Over)
			textWidth -= float64(qrSize) + 40
		}
	}

	size := 30.0
	face := faces.Face(style.Label, size)
	if len(sources) > 0 {
		text.DrawBlock(dst, face, "Sources: "+strings.Join(sources, ", "), p.Margin, top+40, textWidth, size,
			text.AlignLeft, withAlpha(style.Colors.Label, 0.85))
	}
	text.Draw(dst, faces.Face(style.Title, 36), AppName, p.Margin, float64(b.Dy())-40, text.AlignLeft, style.Colors.Header)
}

func renderQR(content string, size int) image.Image {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		log.Printf("[!] Failed to encode QR code for %s: %v", content, err)
		return nil
	}
	q.DisableBorder = true
	return q.Image(size)
}

func firstURL(sources []string) string {
	for _, s := range sources {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			return s
		}
	}
	return ""
}
