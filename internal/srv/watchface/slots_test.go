package watchface

import (
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/mkarren/bigtime/apimodel"
	"github.com/mkarren/bigtime/internal/srv/config"
)

func newTestSettings(t *testing.T) *config.Settings {
	t.Helper()
	return config.NewSettings(filepath.Join(t.TempDir(), "settings.dat"))
}

func TestLoadAndUnload(t *testing.T) {
	c := qt.New(t)
	arena := NewSlotArena(newTestSettings(t))

	arena.Load(2, 7)
	digit, ok := arena.Digit(2)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 7)

	// An occupied slot keeps its digit
	arena.Load(2, 3)
	digit, ok = arena.Digit(2)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 7)

	arena.Unload(2)
	_, ok = arena.Digit(2)
	c.Assert(ok, qt.IsFalse)

	// Unloading twice is harmless
	arena.Unload(2)
	_, ok = arena.Digit(2)
	c.Assert(ok, qt.IsFalse)
}

func TestLoadIgnoresOutOfRange(t *testing.T) {
	c := qt.New(t)
	arena := NewSlotArena(newTestSettings(t))

	arena.Load(-1, 5)
	arena.Load(TotalImageSlots, 5)
	arena.Load(0, -1)
	arena.Load(0, 10)

	for slot := 0; slot < TotalImageSlots; slot++ {
		_, ok := arena.Digit(slot)
		c.Assert(ok, qt.IsFalse)
	}
}

func TestDisplayValueSplitsDigits(t *testing.T) {
	c := qt.New(t)
	arena := NewSlotArena(newTestSettings(t))

	arena.DisplayValue(47, 0, false)
	digit, ok := arena.Digit(0)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 4)
	digit, ok = arena.Digit(1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 7)

	arena.DisplayValue(58, 1, false)
	digit, ok = arena.Digit(2)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 5)
	digit, ok = arena.Digit(3)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 8)
}

func TestDisplayValueWrapsAboveTwoDigits(t *testing.T) {
	c := qt.New(t)
	arena := NewSlotArena(newTestSettings(t))

	arena.DisplayValue(123, 0, false)
	digit, ok := arena.Digit(0)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 2)
	digit, ok = arena.Digit(1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 3)
}

func TestDisplayValueBlanksLeadingZero(t *testing.T) {
	c := qt.New(t)
	settings := newTestSettings(t)
	arena := NewSlotArena(settings)

	// Default: no zero prefix, 7 shows as ' 7'
	arena.DisplayValue(7, 0, false)
	_, ok := arena.Digit(0)
	c.Assert(ok, qt.IsFalse)
	digit, ok := arena.Digit(1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 7)

	// The bottom row always keeps its leading zero
	arena.DisplayValue(7, 1, false)
	digit, ok = arena.Digit(2)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 0)

	// With the prefix on, 7 shows as '07'
	_, err := settings.ApplyBool(apimodel.ZeroPrefixKey, true)
	c.Assert(err, qt.IsNil)
	arena.DisplayValue(7, 0, true)
	digit, ok = arena.Digit(0)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 0)
}

func TestDisplayValueSkipsUnchangedSlots(t *testing.T) {
	c := qt.New(t)
	arena := NewSlotArena(newTestSettings(t))

	arena.DisplayValue(12, 0, false)
	tens := arena.images[0]

	// Only the units digit changes, the tens bitmap must stay loaded
	arena.DisplayValue(13, 0, false)
	c.Assert(arena.images[0] == tens, qt.IsTrue)
	digit, ok := arena.Digit(0)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 1)
	digit, ok = arena.Digit(1)
	c.Assert(ok, qt.IsTrue)
	c.Assert(digit, qt.Equals, 3)
}

func TestDisplayValueIgnoresBadRow(t *testing.T) {
	c := qt.New(t)
	arena := NewSlotArena(newTestSettings(t))

	arena.DisplayValue(42, -1, false)
	arena.DisplayValue(42, 2, false)

	for slot := 0; slot < TotalImageSlots; slot++ {
		_, ok := arena.Digit(slot)
		c.Assert(ok, qt.IsFalse)
	}
}
