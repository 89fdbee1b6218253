package lcd

import (
	"image"
	"image/color"
	"testing"

	qt "github.com/frankban/quicktest"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

func newTestDev(c *qt.C) (*Dev, *spitest.Record) {
	record := &spitest.Record{}
	pin := &gpiotest.Pin{N: "CS"}

	d, err := NewSPI(record, pin, &DefaultOpts)
	c.Assert(err, qt.IsNil)
	return d, record
}

func TestFlushSendsDirtyLinesOnly(t *testing.T) {
	c := qt.New(t)
	d, record := newTestDev(c)

	d.SetPixel(0, 0, false)

	c.Assert(d.Flush(), qt.IsNil)
	c.Assert(record.Ops, qt.HasLen, 1)

	bytesPerLine := DefaultOpts.W / 8
	packet := record.Ops[0].W
	c.Assert(packet, qt.HasLen, 1+(bytesPerLine+2)+1)
	c.Assert(packet[0], qt.Equals, byte(bitVcom|bitWriteCmd))
	// line addresses are 1-indexed
	c.Assert(packet[1], qt.Equals, byte(1))
	// LSB of the first byte carries pixel (0,0), now black
	c.Assert(packet[2], qt.Equals, byte(0xfe))
	// line padding and trailer
	c.Assert(packet[bytesPerLine+2], qt.Equals, byte(0x00))
	c.Assert(packet[bytesPerLine+3], qt.Equals, byte(0x00))

	// A flush without changes carries only the command and trailer,
	// with VCOM toggled.
	c.Assert(d.Flush(), qt.IsNil)
	c.Assert(record.Ops, qt.HasLen, 2)
	c.Assert(record.Ops[1].W, qt.HasLen, 2)
	c.Assert(record.Ops[1].W[0], qt.Equals, byte(bitWriteCmd))
}

func TestSetPixelIgnoresOutOfRange(t *testing.T) {
	c := qt.New(t)
	d, record := newTestDev(c)

	d.SetPixel(-1, 0, false)
	d.SetPixel(0, -1, false)
	d.SetPixel(DefaultOpts.W, 0, false)
	d.SetPixel(0, DefaultOpts.H, false)

	c.Assert(d.Flush(), qt.IsNil)
	c.Assert(record.Ops[0].W, qt.HasLen, 2)
}

func TestDrawRefreshesChangedLines(t *testing.T) {
	c := qt.New(t)
	d, record := newTestDev(c)

	bounds := d.Bounds()

	// An all-white source matches the initial buffer: nothing to send
	// beyond the command bytes.
	white := image.NewUniform(color.White)
	c.Assert(d.Draw(bounds, white, image.Point{}), qt.IsNil)
	c.Assert(record.Ops[0].W, qt.HasLen, 2)

	// An all-black source dirties every line.
	black := image.NewUniform(color.Black)
	c.Assert(d.Draw(bounds, black, image.Point{}), qt.IsNil)

	bytesPerLine := DefaultOpts.W / 8
	c.Assert(record.Ops[1].W, qt.HasLen, 1+DefaultOpts.H*(bytesPerLine+2)+1)
}

func TestClearEmitsClearCommand(t *testing.T) {
	c := qt.New(t)
	d, record := newTestDev(c)

	d.SetPixel(3, 7, false)
	c.Assert(d.Clear(), qt.IsNil)

	c.Assert(record.Ops, qt.HasLen, 1)
	c.Assert(record.Ops[0].W[0], qt.Equals, byte(bitVcom|bitClear))

	// The buffer is white again: a draw of white sends nothing.
	c.Assert(d.Flush(), qt.IsNil)
	c.Assert(record.Ops[1].W, qt.HasLen, 2)
}
