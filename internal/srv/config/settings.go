package config

import (
	"fmt"
	"io/ioutil"
	"sync"
	"time"

	"github.com/mkarren/bigtime/apimodel"
	"github.com/sirupsen/logrus"
)

const maxDayTextLen = 8

var defaultDayText = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// Settings holds the user preferences mirrored with the companion device.
// They are stored as a sequence of tagged records: 1 tag byte, then 1
// value byte for booleans or 1 length byte plus the bytes for strings.
type Settings struct {
	lock                     sync.RWMutex
	values                   settingsValues
	backupTimer              *time.Timer
	completeSettingsFilename string
}

type settingsValues struct {
	zeroPrefix    bool
	showPower     bool
	showBluetooth bool
	monthFirst    bool
	dayText       [7]string
}

func defaultSettingsValues() settingsValues {
	return settingsValues{
		zeroPrefix:    false,
		showPower:     true,
		showBluetooth: true,
		monthFirst:    true,
		dayText:       defaultDayText,
	}
}

func NewSettings(completeSettingsFilename string) *Settings {
	settings := &Settings{
		completeSettingsFilename: completeSettingsFilename,
		values:                   defaultSettingsValues(),
	}

	raw, err := ioutil.ReadFile(completeSettingsFilename)
	if err == nil {
		err = settings.values.decode(raw)
		if err != nil {
			logrus.Warnf("Partially unreadable settings file, keeping defaults for the rest: %v", err)
		}
	} else {
		logrus.Infof("No settings file yet, using defaults")
	}

	return settings
}

func (s *Settings) ZeroPrefix() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.values.zeroPrefix
}

func (s *Settings) ShowPower() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.values.showPower
}

func (s *Settings) ShowBluetooth() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.values.showBluetooth
}

func (s *Settings) MonthFirst() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.values.monthFirst
}

// DayText returns the abbreviation for a weekday (Sunday = 0).
func (s *Settings) DayText(day int) string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if day < 0 || day > 6 {
		return ""
	}
	return s.values.dayText[day]
}

// ApplyBool stores a boolean setting and returns whether the stored
// value changed.
func (s *Settings) ApplyBool(key apimodel.SettingKey, value bool) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var field *bool
	switch key {
	case apimodel.ZeroPrefixKey:
		field = &s.values.zeroPrefix
	case apimodel.ShowPowerKey:
		field = &s.values.showPower
	case apimodel.ShowBluetoothKey:
		field = &s.values.showBluetooth
	case apimodel.MonthFirstKey:
		field = &s.values.monthFirst
	default:
		return false, fmt.Errorf("%s is not a boolean setting", key)
	}

	changed := *field != value
	*field = value
	s.scheduleSave()
	return changed, nil
}

// ApplyDayText stores one day abbreviation and returns whether the
// stored value changed.
func (s *Settings) ApplyDayText(key apimodel.SettingKey, text string) (bool, error) {
	day, ok := key.DayIndex()
	if !ok {
		return false, fmt.Errorf("%s is not a day text setting", key)
	}
	if len(text) == 0 || len(text) > maxDayTextLen {
		return false, fmt.Errorf("day text %q has invalid length", text)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	changed := s.values.dayText[day] != text
	s.values.dayText[day] = text
	s.scheduleSave()
	return changed, nil
}

// Dictionary returns the full settings dictionary, as exchanged with the
// companion device.
func (s *Settings) Dictionary() []apimodel.SyncUpdate {
	s.lock.RLock()
	defer s.lock.RUnlock()

	dict := []apimodel.SyncUpdate{
		{Key: apimodel.ZeroPrefixKey, Value: apimodel.BoolValue(s.values.zeroPrefix)},
		{Key: apimodel.ShowPowerKey, Value: apimodel.BoolValue(s.values.showPower)},
		{Key: apimodel.ShowBluetoothKey, Value: apimodel.BoolValue(s.values.showBluetooth)},
		{Key: apimodel.MonthFirstKey, Value: apimodel.BoolValue(s.values.monthFirst)},
	}
	for day := 0; day < 7; day++ {
		dict = append(dict, apimodel.SyncUpdate{
			Key:   apimodel.SunTextKey + apimodel.SettingKey(day),
			Value: apimodel.StringValue(s.values.dayText[day]),
		})
	}
	return dict
}

func (s *Settings) scheduleSave() {
	if s.backupTimer == nil {
		s.backupTimer = time.AfterFunc(10*time.Second, func() {
			s.lock.Lock()
			defer s.lock.Unlock()
			s.save()
		})
	} else {
		s.backupTimer.Reset(10 * time.Second)
	}
}

func (s *Settings) save() {
	logrus.Infof("Save settings file: %s", s.completeSettingsFilename)
	err := ioutil.WriteFile(s.completeSettingsFilename, s.values.encode(), 0660)
	if err != nil {
		logrus.Errorf("Unable to save settings file: %v\n", err)
	}
}

func (s *Settings) FlushSave() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.backupTimer != nil {
		if s.backupTimer.Stop() {
			s.save()
		}
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (v *settingsValues) encode() []byte {
	raw := []byte{
		byte(apimodel.ZeroPrefixKey), boolByte(v.zeroPrefix),
		byte(apimodel.ShowPowerKey), boolByte(v.showPower),
		byte(apimodel.ShowBluetoothKey), boolByte(v.showBluetooth),
		byte(apimodel.MonthFirstKey), boolByte(v.monthFirst),
	}
	for day := 0; day < 7; day++ {
		raw = append(raw, byte(apimodel.SunTextKey)+byte(day), byte(len(v.dayText[day])))
		raw = append(raw, v.dayText[day]...)
	}
	return raw
}

func (v *settingsValues) decode(raw []byte) error {
	for pos := 0; pos < len(raw); {
		key := apimodel.SettingKey(raw[pos])
		pos++
		if !key.IsValid() {
			return fmt.Errorf("unknown settings tag %#02x at offset %d", byte(key), pos-1)
		}
		if key.IsBool() {
			if pos >= len(raw) {
				return fmt.Errorf("truncated boolean record for %s", key)
			}
			value := raw[pos] != 0
			pos++
			switch key {
			case apimodel.ZeroPrefixKey:
				v.zeroPrefix = value
			case apimodel.ShowPowerKey:
				v.showPower = value
			case apimodel.ShowBluetoothKey:
				v.showBluetooth = value
			case apimodel.MonthFirstKey:
				v.monthFirst = value
			}
		} else {
			if pos >= len(raw) {
				return fmt.Errorf("truncated string record for %s", key)
			}
			length := int(raw[pos])
			pos++
			// Same bounds ApplyDayText enforces on the sync path
			if length == 0 || length > maxDayTextLen {
				return fmt.Errorf("day text record for %s has invalid length %d", key, length)
			}
			if pos+length > len(raw) {
				return fmt.Errorf("truncated string record for %s", key)
			}
			day, _ := key.DayIndex()
			v.dayText[day] = string(raw[pos : pos+length])
			pos += length
		}
	}
	return nil
}
