package apimodel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SettingKey identifies one entry of the settings dictionary exchanged
// with the companion device. The tags double as storage keys in the
// settings file.
type SettingKey uint8

const (
	ZeroPrefixKey    SettingKey = 0x00 // boolean
	ShowPowerKey     SettingKey = 0x01 // boolean
	ShowBluetoothKey SettingKey = 0x02 // boolean
	MonthFirstKey    SettingKey = 0x03 // boolean
	SunTextKey       SettingKey = 0x04 // string
	MonTextKey       SettingKey = 0x05 // string
	TueTextKey       SettingKey = 0x06 // string
	WedTextKey       SettingKey = 0x07 // string
	ThuTextKey       SettingKey = 0x08 // string
	FriTextKey       SettingKey = 0x09 // string
	SatTextKey       SettingKey = 0x0A // string
)

// IsValid tells whether the key belongs to the dictionary.
func (k SettingKey) IsValid() bool {
	return k <= SatTextKey
}

// IsBool tells whether the key carries a boolean value.
func (k SettingKey) IsBool() bool {
	return k <= MonthFirstKey
}

// DayIndex maps a day-abbreviation key to its weekday number (Sunday = 0).
func (k SettingKey) DayIndex() (int, bool) {
	if k >= SunTextKey && k <= SatTextKey {
		return int(k - SunTextKey), true
	}
	return 0, false
}

func (k SettingKey) String() string {
	switch k {
	case ZeroPrefixKey:
		return "zero_prefix"
	case ShowPowerKey:
		return "show_power"
	case ShowBluetoothKey:
		return "show_bluetooth"
	case MonthFirstKey:
		return "month_first"
	case SunTextKey, MonTextKey, TueTextKey, WedTextKey, ThuTextKey, FriTextKey, SatTextKey:
		return "day_text_" + strconv.Itoa(int(k-SunTextKey))
	default:
		return "key_" + strconv.Itoa(int(k))
	}
}

type ValueKind int

const (
	StringKind ValueKind = iota
	IntKind
	UintKind
)

// SyncValue is one tri-typed value of the settings dictionary, as sent by
// the companion device.
type SyncValue struct {
	Kind ValueKind
	Str  string
	Int  int64
	Uint uint64
}

func StringValue(s string) SyncValue {
	return SyncValue{Kind: StringKind, Str: s}
}

func IntValue(i int64) SyncValue {
	return SyncValue{Kind: IntKind, Int: i}
}

func UintValue(u uint64) SyncValue {
	return SyncValue{Kind: UintKind, Uint: u}
}

func BoolValue(b bool) SyncValue {
	if b {
		return UintValue(1)
	}
	return UintValue(0)
}

// Bool coerces the value to a boolean: a string counts as true when its
// length matches "true", an integer when it is nonzero.
func (v SyncValue) Bool() bool {
	switch v.Kind {
	case StringKind:
		return len(v.Str) == len("true")
	case IntKind:
		return v.Int != 0
	case UintKind:
		return v.Uint != 0
	default:
		return false
	}
}

func (v SyncValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case StringKind:
		return json.Marshal(v.Str)
	case IntKind:
		return json.Marshal(v.Int)
	case UintKind:
		return json.Marshal(v.Uint)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

func (v *SyncValue) UnmarshalJSON(raw []byte) error {
	text := strings.TrimSpace(string(raw))
	if len(text) == 0 {
		return fmt.Errorf("empty setting value")
	}
	if text[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	}
	if text[0] == '-' {
		var i int64
		if err := json.Unmarshal(raw, &i); err != nil {
			return err
		}
		*v = IntValue(i)
		return nil
	}
	var u uint64
	if err := json.Unmarshal(raw, &u); err != nil {
		return err
	}
	*v = UintValue(u)
	return nil
}

// SyncUpdate is one inbound key/value update.
type SyncUpdate struct {
	Key   SettingKey `json:"key"`
	Value SyncValue  `json:"value"`
}
