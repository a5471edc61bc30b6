package renderer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// fillGradient paints a diagonal linear gradient from a (top-left) to b
// (bottom-right) straight into the pixel buffer.
func fillGradient(dst *image.RGBA, a, b color.NRGBA) {
	bounds := dst.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	span := float64(w + h)

	for py := 0; py < h; py++ {
		off := py * dst.Stride
		for px := 0; px < w; px++ {
			t := float64(px+py) / span
			it := 1 - t
			dst.Pix[off] = uint8(float64(a.R)*it + float64(b.R)*t)
			dst.Pix[off+1] = uint8(float64(a.G)*it + float64(b.G)*t)
			dst.Pix[off+2] = uint8(float64(a.B)*it + float64(b.B)*t)
			dst.Pix[off+3] = 255
			off += 4
		}
	}
}

// fillRadialGlow brightens the area around (cx, cy) with c fading out at radius.
func fillRadialGlow(dst *image.RGBA, cx, cy, radius float64, c color.NRGBA) {
	if radius <= 0 {
		return
	}
	bounds := dst.Bounds()
	minY := int(math.Max(cy-radius, 0))
	maxY := int(math.Min(cy+radius, float64(bounds.Dy())))
	minX := int(math.Max(cx-radius, 0))
	maxX := int(math.Min(cx+radius, float64(bounds.Dx())))
	ca := float64(c.A) / 255

	for py := minY; py < maxY; py++ {
		dy := float64(py) - cy
		off := py*dst.Stride + minX*4
		for px := minX; px < maxX; px++ {
			dx := float64(px) - cx
			d := math.Sqrt(dx*dx+dy*dy) / radius
			if d < 1 {
				k := (1 - d) * (1 - d) * ca
				dst.Pix[off] = uint8(float64(dst.Pix[off])*(1-k) + float64(c.R)*k)
				dst.Pix[off+1] = uint8(float64(dst.Pix[off+1])*(1-k) + float64(c.G)*k)
				dst.Pix[off+2] = uint8(float64(dst.Pix[off+2])*(1-k) + float64(c.B)*k)
			}
			off += 4
		}
	}
}

func drawGrid(dst *image.RGBA, step, thickness int, c color.NRGBA) {
	if step <= 0 {
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	b := dst.Bounds()
	for x := b.Min.X; x < b.Max.X; x += step {
		fillRect(dst, image.Rect(x, b.Min.Y, x+thickness, b.Max.Y), c)
	}
	for y := b.Min.Y; y < b.Max.Y; y += step {
		fillRect(dst, image.Rect(b.Min.X, y, b.Max.X, y+thickness), c)
	}
}

func strokeRect(dst draw.Image, r image.Rectangle, thickness int, c color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// roundedMask returns an alpha mask of a w×h rounded rectangle.
func roundedMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if radius > w/2 {
		radius = w / 2
	}
	if radius > h/2 {
		radius = h / 2
	}
	r2 := float64(radius * radius)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cx, cy := x, y
			switch {
			case x < radius:
				cx = radius
			case x >= w-radius:
				cx = w - radius - 1
			}
			switch {
			case y < radius:
				cy = radius
			case y >= h-radius:
				cy = h - radius - 1
			}
			dx, dy := float64(x-cx), float64(y-cy)
			if dx*dx+dy*dy <= r2 {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

func fillRoundedRect(dst draw.Image, r image.Rectangle, radius int, c color.Color) {
	mask := roundedMask(r.Dx(), r.Dy(), radius)
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// coverRect returns the part of src that, scaled by zoom around its center,
// covers a w×h target without distortion.
func coverRect(src image.Rectangle, w, h int, zoom float64) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw <= 0 || sh <= 0 || w <= 0 || h <= 0 {
		return src
	}
	if zoom < 1 {
		zoom = 1
	}
	scale := math.Max(float64(w)/sw, float64(h)/sh) * zoom
	cw, ch := float64(w)/scale, float64(h)/scale
	x0 := float64(src.Min.X) + (sw-cw)/2
	y0 := float64(src.Min.Y) + (sh-ch)/2
	return image.Rect(int(x0), int(y0), int(math.Ceil(x0+cw)), int(math.Ceil(y0+ch))).Intersect(src)
}

// containRect returns where src lands when fit entirely inside box.
func containRect(src image.Rectangle, box image.Rectangle) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{}
	}
	scale := math.Min(float64(box.Dx())/sw, float64(box.Dy())/sh)
	dw, dh := int(sw*scale), int(sh*scale)
	x := box.Min.X + (box.Dx()-dw)/2
	y := box.Min.Y + (box.Dy()-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}

// drawCover paints src over the whole of dst, cover-fit and zoomed.
func drawCover(dst *image.RGBA, src image.Image, zoom float64, scaler xdraw.Scaler) {
	b := dst.Bounds()
	sr := coverRect(src.Bounds(), b.Dx(), b.Dy(), zoom)
	scaler.Scale(dst, b, src, sr, xdraw.Src, nil)
}

// containSquare renders src contain-fit into a transparent size×size
// square clipped to rounded corners.
func containSquare(src image.Image, size, radius int) *image.RGBA {
	tile := image.NewRGBA(image.Rect(0, 0, size, size))
	dr := containRect(src.Bounds(), tile.Bounds())
	if dr.Empty() {
		return tile
	}
	xdraw.CatmullRom.Scale(tile, dr, src, src.Bounds(), xdraw.Over, nil)

	out := image.NewRGBA(tile.Bounds())
	draw.DrawMask(out, out.Bounds(), tile, image.Point{}, roundedMask(size, size, radius), image.Point{}, draw.Over)
	return out
}
