package watchface

import (
	"image"

	"github.com/mkarren/bigtime/internal/images"
	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/sirupsen/logrus"
)

// There's only enough room to keep all decoded digit bitmaps around, so
// each one stays compressed until a slot actually shows it and is dropped
// as soon as the slot is cleared.
//
// One slot per digit location on screen, layout:
//     0 1
//     2 3

const TotalImageSlots = 4

const emptySlot = -1

// SlotArena owns the four digit slots. A slot is either empty or holds
// the digit currently rendered in it, together with its decoded bitmap.
type SlotArena struct {
	settings *config.Settings

	state  [TotalImageSlots]int
	images [TotalImageSlots]image.Image
}

func NewSlotArena(settings *config.Settings) *SlotArena {
	arena := &SlotArena{settings: settings}
	for slot := range arena.state {
		arena.state[slot] = emptySlot
	}
	return arena
}

// Load decodes the digit bitmap into a slot. Out-of-range indices and
// already occupied slots are ignored.
func (a *SlotArena) Load(slot int, digit int) {
	// TODO: surface out-of-range indices to the caller instead of
	// swallowing them
	if slot < 0 || slot >= TotalImageSlots {
		logrus.Debugf("Ignoring load into slot %d", slot)
		return
	}
	if digit < 0 || digit > 9 {
		logrus.Debugf("Ignoring load of digit %d", digit)
		return
	}
	if a.state[slot] != emptySlot {
		return
	}
	img, err := images.DecodeDigit(digit)
	if err != nil {
		logrus.Warnf("Unable to load digit %d: %v", digit, err)
		return
	}
	a.images[slot] = img
	a.state[slot] = digit
}

// Unload drops the slot's bitmap. Can handle being called on an already
// empty slot.
func (a *SlotArena) Unload(slot int) {
	if slot < 0 || slot >= TotalImageSlots {
		return
	}
	if a.state[slot] != emptySlot {
		a.images[slot] = nil
		a.state[slot] = emptySlot
	}
}

func (a *SlotArena) UnloadAll() {
	for slot := 0; slot < TotalImageSlots; slot++ {
		a.Unload(slot)
	}
}

// Digit reports the digit currently held by a slot.
func (a *SlotArena) Digit(slot int) (int, bool) {
	if slot < 0 || slot >= TotalImageSlots || a.state[slot] == emptySlot {
		return 0, false
	}
	return a.state[slot], true
}

// DisplayValue shows a value between 0 and 99 on one row of slots.
// Rows are ordered on screen as row 0 above row 1. The leading zero of
// the top row is blanked unless the zero-prefix setting is on, so 7
// displays as ' 7' rather than '07'.
func (a *SlotArena) DisplayValue(value int, row int, force bool) {
	if row < 0 || row >= TotalImageSlots/2 {
		logrus.Debugf("Ignoring display on row %d", row)
		return
	}
	value %= 100 // Maximum of two digits per row.

	// Columns are processed in reverse order because that makes
	// extracting the digits from the value easier.
	for col := 1; col >= 0; col-- {
		slot := row*2 + col
		digit := value % 10
		if force || digit != a.state[slot] {
			a.Unload(slot)
			if a.settings.ZeroPrefix() || digit != 0 || slot != 0 {
				a.Load(slot, digit)
			}
		}
		value /= 10
	}
}
