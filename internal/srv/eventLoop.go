package srv

import (
	"fmt"
	"time"

	"github.com/mkarren/bigtime/apimodel"
	"github.com/mkarren/bigtime/internal/srv/event"
	"github.com/mkarren/bigtime/internal/srv/watchface"
	"github.com/sirupsen/logrus"
)

func (s *ServerApp) eventLoop() {
	for loop := true; loop; {
		select {
		case ev := <-s.clockDevice.EventChannel():
			switch data := ev.Data.(type) {
			case event.TickerEventMinuteData:
				logrus.Debugf("Receive ticker minute event")
				s.face.HandleMinuteTick(data.Time)
				if s.currentMode == CLOCK_MODE {
					s.refreshDisplay()
				}
			}
		case ev := <-s.batteryDevice.EventChannel():
			logrus.Debugf("Receive battery event: %d%%, charging=%v", ev.Percent, ev.Charging)
			s.lastBattery = watchface.BatteryState{Percent: ev.Percent, Charging: ev.Charging}
			s.hasBattery = true
			s.face.HandleBattery(s.lastBattery)
			if s.currentMode == CLOCK_MODE {
				s.refreshDisplay()
			}
		case ev := <-s.bluetoothDevice.EventChannel():
			logrus.Debugf("Receive bluetooth event: connected=%v", ev.Connected)
			s.lastConnected = ev.Connected
			s.face.HandleConnection(ev.Connected)
			if s.currentMode == CLOCK_MODE {
				s.refreshDisplay()
			}
		case ev := <-s.companionDevice.EventChannel():
			redraw, err := s.applySyncUpdate(ev.Update)
			ev.Result <- err
			if redraw && s.currentMode == CLOCK_MODE {
				s.refreshDisplay()
			}
		case <-s.eventLoopAskDone:
			loop = false
		}
	}
	s.eventLoopDone <- true
}

// applySyncUpdate routes one inbound settings update: store the value,
// persist it and recompute whatever part of the face it affects. The
// returned flag tells whether the frame needs a redraw; a re-delivered
// value changes nothing and triggers none. Malformed or unroutable
// updates are logged and dropped.
func (s *ServerApp) applySyncUpdate(update apimodel.SyncUpdate) (bool, error) {
	logrus.Debugf("Sync key: %d (%s), kind: %d", update.Key, update.Key, update.Value.Kind)

	if update.Key.IsBool() {
		value := update.Value.Bool()
		changed, err := s.Settings.ApplyBool(update.Key, value)
		if err != nil {
			logrus.Warnf("Dropping settings update: %v", err)
			return false, err
		}
		logrus.Debugf("Saved new %s setting to watch = %v", update.Key, value)
		if !changed {
			return false, nil
		}

		switch update.Key {
		case apimodel.ZeroPrefixKey:
			s.face.RefreshTime(time.Now())
		case apimodel.ShowPowerKey:
			if s.hasBattery {
				s.face.HandleBattery(s.lastBattery)
			}
		case apimodel.ShowBluetoothKey:
			s.face.HandleConnection(s.lastConnected)
		case apimodel.MonthFirstKey:
			s.face.RefreshDate(time.Now())
		}
		return true, nil
	}

	if day, ok := update.Key.DayIndex(); ok {
		if update.Value.Kind != apimodel.StringKind {
			err := fmt.Errorf("day text update for %s is not a string", update.Key)
			logrus.Warnf("Dropping settings update: %v", err)
			return false, err
		}
		changed, err := s.Settings.ApplyDayText(update.Key, update.Value.Str)
		if err != nil {
			logrus.Warnf("Dropping settings update: %v", err)
			return false, err
		}
		logrus.Debugf("Saved new %s setting to watch = %s", update.Key, update.Value.Str)

		// Only the displayed weekday needs a redraw
		if changed && s.face.CurrentDay() == day {
			s.face.RefreshDate(time.Now())
			return true, nil
		}
		return false, nil
	}

	err := fmt.Errorf("unknown settings key %#02x", byte(update.Key))
	logrus.Warnf("Dropping settings update: %v", err)
	return false, err
}
