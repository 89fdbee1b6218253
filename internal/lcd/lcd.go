// Package lcd drives a Sharp memory-in-pixel LCD (LS013B4DN04 class)
// over SPI. The panel keeps its own pixel memory, so only lines that
// changed since the last refresh are transferred.
package lcd

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	bitWriteCmd = 0x01
	bitVcom     = 0x02
	bitClear    = 0x04
)

type Opts struct {
	W int
	H int
}

// DefaultOpts is the 1.26" 144x168 panel.
var DefaultOpts = Opts{W: 144, H: 168}

// Dev is a handle to the display.
type Dev struct {
	c  conn.Conn
	cs gpio.PinOut

	w int
	h int

	// 1 bit per pixel, 1 = white. The panel wants data LSB-first.
	buffer   []byte
	lineDiff []byte
	lineBuf  []byte
	vcom     byte
}

// NewSPI opens a handle to the display. The chip select of this panel is
// active high and software driven, so it takes a plain GPIO pin rather
// than the bus chip select.
func NewSPI(p spi.Port, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.W <= 0 || opts.H <= 0 || opts.W%8 != 0 {
		return nil, fmt.Errorf("lcd: invalid size %dx%d", opts.W, opts.H)
	}

	c, err := p.Connect(2*physic.MegaHertz, spi.Mode0|spi.LSBFirst, 8)
	if err != nil {
		return nil, fmt.Errorf("lcd: %v", err)
	}
	if err := cs.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("lcd: %v", err)
	}

	d := &Dev{
		c:        c,
		cs:       cs,
		w:        opts.W,
		h:        opts.H,
		buffer:   make([]byte, opts.W*opts.H/8),
		lineDiff: make([]byte, bitfieldBufLen(opts.H)),
		lineBuf:  make([]byte, opts.W/8+2),
		vcom:     bitVcom,
	}
	for i := range d.buffer {
		d.buffer[i] = 0xff
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("lcd.Dev{%dx%d}", d.w, d.h)
}

func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

// SetPixel sets one pixel in the buffer and marks its line dirty when it
// actually changed. Out-of-range coordinates are ignored.
func (d *Dev) SetPixel(x, y int, white bool) {
	if x < 0 || x >= d.w || y < 0 || y >= d.h {
		return
	}
	i := x + y*d.w
	div := i / 8
	mod := uint8(i % 8)

	if hasBit(d.buffer[div], mod) == white {
		return
	}
	if white {
		d.buffer[div] = setBit(d.buffer[div], mod)
	} else {
		d.buffer[div] = unsetBit(d.buffer[div], mod)
	}
	d.lineDiff[y/8] = setBit(d.lineDiff[y/8], uint8(y%8))
}

// Draw updates the buffer from src by luma threshold and refreshes the
// panel. It implements the drawing part of display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			gray := color.GrayModel.Convert(c).(color.Gray)
			d.SetPixel(x, y, gray.Y >= 0x80)
		}
	}
	return d.Flush()
}

// Flush transfers the dirty lines to the panel. The VCOM bit is toggled
// on every transfer, as the datasheet instructs, to avoid a DC bias
// damaging the liquid crystal.
func (d *Dev) Flush() error {
	defer func() {
		for i := range d.lineDiff {
			d.lineDiff[i] = 0x00
		}
	}()

	bytesPerLine := d.w / 8

	packet := make([]byte, 0, 2+d.h*(bytesPerLine+2))
	packet = append(packet, d.vcom|bitWriteCmd)
	d.toggleVcom()

	for line := 0; line < d.h; line++ {
		if !hasBit(d.lineDiff[line/8], uint8(line%8)) {
			continue
		}
		// Line addresses are 1-indexed on the wire, each line ends
		// with a padding byte.
		d.lineBuf[0] = uint8(line + 1)
		copy(d.lineBuf[1:bytesPerLine+1], d.buffer[line*bytesPerLine:(line+1)*bytesPerLine])
		d.lineBuf[bytesPerLine+1] = 0x00
		packet = append(packet, d.lineBuf...)
	}

	// Trailer byte
	packet = append(packet, 0x00)

	if err := d.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("lcd: %v", err)
	}
	err := d.c.Tx(packet, nil)
	if err2 := d.cs.Out(gpio.Low); err == nil {
		err = err2
	}
	return err
}

// Clear blanks both the buffer and the panel.
func (d *Dev) Clear() error {
	for i := range d.buffer {
		d.buffer[i] = 0xff
	}
	for i := range d.lineDiff {
		d.lineDiff[i] = 0x00
	}

	if err := d.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("lcd: %v", err)
	}
	err := d.c.Tx([]byte{d.vcom | bitClear, 0x00}, nil)
	d.toggleVcom()
	if err2 := d.cs.Out(gpio.Low); err == nil {
		err = err2
	}
	return err
}

// Halt blanks the panel, per the periph display convention.
func (d *Dev) Halt() error {
	return d.Clear()
}

func (d *Dev) toggleVcom() {
	if d.vcom != 0 {
		d.vcom = 0x00
	} else {
		d.vcom = bitVcom
	}
}
