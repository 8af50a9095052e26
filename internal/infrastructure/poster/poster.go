// Package poster renders the shareable daily summary image.
package poster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"alphadash/internal/domain/stats"
	"alphadash/internal/shared/currency"
)

// Poster size in pixels.
const (
	Width  = 800
	Height = 1000
)

const margin = 60

var (
	background = color.RGBA{R: 0x0b, G: 0x0e, B: 0x11, A: 0xff}
	panel      = color.RGBA{R: 0x1e, G: 0x23, B: 0x29, A: 0xff}
	accent     = color.RGBA{R: 0xf0, G: 0xb9, B: 0x0b, A: 0xff}
	textMain   = color.RGBA{R: 0xea, G: 0xec, B: 0xef, A: 0xff}
	textMuted  = color.RGBA{R: 0x84, G: 0x8e, B: 0x9c, A: 0xff}
	positive   = color.RGBA{R: 0x0e, G: 0xcb, B: 0x81, A: 0xff}
	negative   = color.RGBA{R: 0xf6, G: 0x46, B: 0x5d, A: 0xff}
)

// Data is what the poster shows.
type Data struct {
	Title string
	Day   stats.DaySummary
	Month stats.MonthStats
}

// Render writes the poster as PNG.
func Render(w io.Writer, d Data) error {
	img := Draw(d)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode poster: %w", err)
	}
	return nil
}

// Draw paints the poster onto a new image.
func Draw(d Data) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	fill(img, img.Bounds(), background)
	fill(img, image.Rect(0, 0, Width, 12), accent)

	title := d.Title
	if title == "" {
		title = "AlphaDash"
	}
	drawText(img, title, margin, 70, 6, accent)
	drawText(img, "Daily report  "+d.Day.Date, margin, 170, 3, textMuted)

	y := 240
	fill(img, image.Rect(margin, y, Width-margin, y+300), panel)
	drawText(img, "NET", margin+30, y+30, 3, textMuted)
	drawText(img, currency.Signed(d.Day.Net), margin+30, y+80, 7, signColor(d.Day.Net))
	drawText(img, "Revenue", margin+30, y+200, 2, textMuted)
	drawText(img, currency.Format(d.Day.Revenue), margin+30, y+235, 3, textMain)
	drawText(img, "Cost", margin+370, y+200, 2, textMuted)
	drawText(img, currency.Format(d.Day.Cost), margin+370, y+235, 3, textMain)

	y = 580
	rows := []struct {
		label string
		value string
		color color.Color
	}{
		{"Score", fmt.Sprintf("%g", d.Day.Score), textMain},
		{"Accounts", fmt.Sprintf("%d", d.Day.Accounts), textMain},
		{"Month " + d.Month.Month + " net", currency.Signed(d.Month.Net), signColor(d.Month.Net)},
		{"Month ROI", currency.Percent(d.Month.ROI), signColor(d.Month.ROI)},
	}
	for _, row := range rows {
		drawText(img, row.label, margin, y, 3, textMuted)
		drawText(img, row.value, Width/2+40, y, 3, row.color)
		fill(img, image.Rect(margin, y+55, Width-margin, y+57), panel)
		y += 80
	}

	fill(img, image.Rect(0, Height-12, Width, Height), accent)
	drawText(img, "alphadash", margin, Height-70, 2, textMuted)
	return img
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, xdraw.Src)
}

// drawText draws s with its top-left corner at (x, y), scaling the
// bitmap face up by scale with nearest-neighbour sampling.
func drawText(dst *image.RGBA, s string, x, y, scale int, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	if width == 0 {
		return
	}
	height := face.Metrics().Height.Ceil()

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)

	target := image.Rect(x, y, x+width*scale, y+height*scale)
	xdraw.NearestNeighbor.Scale(dst, target, glyphs, glyphs.Bounds(), xdraw.Over, nil)
}

func signColor(v float64) color.Color {
	switch {
	case v > 0:
		return positive
	case v < 0:
		return negative
	default:
		return textMain
	}
}
