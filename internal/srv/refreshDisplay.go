package srv

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/mkarren/bigtime/internal/srv/watchface"
	"github.com/mkarren/bigtime/internal/version"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) refreshDisplay() {
	var imgToDisplay image.Image

	switch s.currentMode {
	case UNDEFINED_MODE:
		img := blankScreen()
		watchface.AddCenteredLabel(img, 80, "bigtime")
		watchface.AddCenteredLabel(img, 96, "v"+version.AppVersion.String())
		imgToDisplay = img
	case CLOCK_MODE:
		logrus.Debugf("Display watch face")
		imgToDisplay = s.face.Render()
	case END_MODE:
		img := blankScreen()
		watchface.AddCenteredLabel(img, 88, "See you!")
		imgToDisplay = img
	}

	s.displayDevice.ShowImage(imgToDisplay)
}

func blankScreen() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, watchface.ScreenWidth, watchface.ScreenHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 255}}, image.Point{}, draw.Src)
	return img
}
