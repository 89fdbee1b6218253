package watchface

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/hajimehoshi/bitmapfont/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var col = color.RGBA{255, 255, 255, 255}
var uniformImage = image.NewUniform(col)

func AddLabel(img *image.RGBA, x, y int, label string) {
	point := fixed.Point26_6{X: fixed.Int26_6((x + 4) * 64), Y: fixed.Int26_6(y * 64)}

	d := &font.Drawer{
		Dst:  img,
		Src:  uniformImage,
		Face: bitmapfont.Face,
		Dot:  point,
	}
	d.DrawString(label)
}

func AddCenteredLabel(img *image.RGBA, y int, label string) {
	AddLabel(img, (ScreenWidth-len(label)*6)/2, y, label)
}

// Indicator positions, left and right aligned with a 2px border under
// the bottom digit row.
var powerOrigin = image.Pt(2, 150)
var bluetoothOrigin = image.Pt(ScreenWidth-12, 150)

// Render composes the full frame: the digit slots quarter by quarter,
// both indicators and the date line.
func (f *Face) Render() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)

	for slot := 0; slot < TotalImageSlots; slot++ {
		if f.arena.images[slot] == nil {
			continue
		}
		origin := image.Pt((slot%2)*72, (slot/2)*74)
		bounds := f.arena.images[slot].Bounds()
		draw.Draw(
			img,
			image.Rect(0, 0, bounds.Dx(), bounds.Dy()).Add(origin),
			f.arena.images[slot],
			bounds.Min,
			draw.Over)
	}

	if f.powerImage != nil {
		bounds := f.powerImage.Bounds()
		draw.Draw(
			img,
			image.Rect(0, 0, bounds.Dx(), bounds.Dy()).Add(powerOrigin),
			f.powerImage,
			bounds.Min,
			draw.Over)
	}

	if f.bluetoothImage != nil {
		bounds := f.bluetoothImage.Bounds()
		draw.Draw(
			img,
			image.Rect(0, 0, bounds.Dx(), bounds.Dy()).Add(bluetoothOrigin),
			f.bluetoothImage,
			bounds.Min,
			draw.Over)
	}

	if f.date != "" {
		AddCenteredLabel(img, 166, f.date)
	}

	return img
}
