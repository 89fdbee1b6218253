package watchface

import (
	"fmt"
	"image"
	"time"

	"github.com/mkarren/bigtime/internal/images"
	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/sirupsen/logrus"
)

const ScreenWidth = 144
const ScreenHeight = 168

const noPowerLevel = -1
const noDay = -1

const chargingPowerLevel = 5

// BatteryState is one battery reading as delivered by the battery device.
type BatteryState struct {
	Percent  int
	Charging bool
}

// Face is the pure display state of the watch: it consumes time, battery
// and connectivity events and produces the next frame, without knowing
// anything about the event dispatcher or the panel behind it.
type Face struct {
	settings *config.Settings
	hour24   bool

	arena *SlotArena

	prevPower  int
	powerImage image.Image

	prevBluetooth  bool
	bluetoothImage image.Image

	prevDay int
	date    string
}

func NewFace(settings *config.Settings, hour24 bool) *Face {
	return &Face{
		settings:  settings,
		hour24:    hour24,
		arena:     NewSlotArena(settings),
		prevPower: noPowerLevel,
		prevDay:   noDay,
	}
}

// DisplayHour maps a wall-clock hour to the displayed hour. In 12-hour
// mode 0 maps to 12.
func (f *Face) DisplayHour(hour int) int {
	if f.hour24 {
		return hour
	}
	displayHour := hour % 12
	if displayHour == 0 {
		return 12
	}
	return displayHour
}

// DisplayTime shows the hour on row 0 and the minute on row 1.
func (f *Face) DisplayTime(t time.Time, force bool) {
	f.arena.DisplayValue(f.DisplayHour(t.Hour()), 0, force)
	f.arena.DisplayValue(t.Minute(), 1, force)
}

// DisplayDate recomputes the date line from the configured day
// abbreviation and month/day order.
func (f *Face) DisplayDate(t time.Time) {
	date1 := int(t.Month())
	date2 := t.Day()
	if !f.settings.MonthFirst() {
		date1, date2 = date2, date1
	}
	f.date = fmt.Sprintf("%s %d/%d", f.settings.DayText(int(t.Weekday())), date1, date2)
}

// HandleMinuteTick updates the time rows and, when the weekday changed,
// the date line.
func (f *Face) HandleMinuteTick(t time.Time) {
	f.DisplayTime(t, false)
	if f.prevDay != int(t.Weekday()) {
		f.DisplayDate(t)
		f.prevDay = int(t.Weekday())
	}
}

// RefreshTime redraws both time rows, used after a setting affecting
// them changed.
func (f *Face) RefreshTime(t time.Time) {
	f.DisplayTime(t, true)
}

// RefreshDate redraws the date line, used after a setting affecting it
// changed.
func (f *Face) RefreshDate(t time.Time) {
	f.DisplayDate(t)
}

// CurrentDay reports the weekday of the displayed date line (Sunday = 0),
// or -1 before the first tick.
func (f *Face) CurrentDay() int {
	return f.prevDay
}

// PowerLevel maps a battery reading to one of the 6 indicator levels:
// 0-4 from 20% charge buckets, 5 while charging.
func PowerLevel(state BatteryState) int {
	if state.Charging {
		return chargingPowerLevel
	}
	level := (state.Percent - 1) / 20
	if level < 0 {
		level = 0
	}
	if level > 4 {
		level = 4
	}
	return level
}

// HandleBattery shows or updates the battery indicator. The icon is only
// swapped when the level actually changed, and removed entirely while
// the indicator is disabled.
func (f *Face) HandleBattery(state BatteryState) {
	if f.settings.ShowPower() {
		level := PowerLevel(state)
		if level != f.prevPower {
			img, err := images.DecodePower(level)
			if err != nil {
				logrus.Warnf("Unable to load power indicator: %v", err)
				return
			}
			f.powerImage = img
			f.prevPower = level
		}
	} else {
		if f.powerImage != nil {
			f.powerImage = nil
			f.prevPower = noPowerLevel
		}
	}
}

// HandleConnection shows or hides the bluetooth indicator on a
// connectivity transition, and removes it entirely while disabled.
func (f *Face) HandleConnection(connected bool) {
	if f.settings.ShowBluetooth() {
		if connected != f.prevBluetooth {
			if connected {
				if f.bluetoothImage == nil {
					img, err := images.DecodeBluetooth()
					if err != nil {
						logrus.Warnf("Unable to load bluetooth indicator: %v", err)
						return
					}
					f.bluetoothImage = img
				}
			} else {
				f.bluetoothImage = nil
			}
			f.prevBluetooth = connected
		}
	} else {
		if f.bluetoothImage != nil {
			f.bluetoothImage = nil
			f.prevBluetooth = false
		}
	}
}

// Clear empties all slots and indicators, used at shutdown.
func (f *Face) Clear() {
	f.arena.UnloadAll()
	f.powerImage = nil
	f.prevPower = noPowerLevel
	f.bluetoothImage = nil
	f.prevBluetooth = false
}
