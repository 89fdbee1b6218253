package apimodel

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSettingKey(t *testing.T) {
	c := qt.New(t)

	c.Assert(ZeroPrefixKey.IsValid(), qt.IsTrue)
	c.Assert(SatTextKey.IsValid(), qt.IsTrue)
	c.Assert(SettingKey(0x0B).IsValid(), qt.IsFalse)

	c.Assert(MonthFirstKey.IsBool(), qt.IsTrue)
	c.Assert(SunTextKey.IsBool(), qt.IsFalse)

	day, ok := SunTextKey.DayIndex()
	c.Assert(ok, qt.IsTrue)
	c.Assert(day, qt.Equals, 0)
	day, ok = SatTextKey.DayIndex()
	c.Assert(ok, qt.IsTrue)
	c.Assert(day, qt.Equals, 6)
	_, ok = ShowPowerKey.DayIndex()
	c.Assert(ok, qt.IsFalse)
}

func TestSyncValueUnmarshal(t *testing.T) {
	c := qt.New(t)

	var v SyncValue
	err := json.Unmarshal([]byte(`"true"`), &v)
	c.Assert(err, qt.IsNil)
	c.Assert(v.Kind, qt.Equals, StringKind)
	c.Assert(v.Str, qt.Equals, "true")

	err = json.Unmarshal([]byte(`-3`), &v)
	c.Assert(err, qt.IsNil)
	c.Assert(v.Kind, qt.Equals, IntKind)
	c.Assert(v.Int, qt.Equals, int64(-3))

	err = json.Unmarshal([]byte(`1`), &v)
	c.Assert(err, qt.IsNil)
	c.Assert(v.Kind, qt.Equals, UintKind)
	c.Assert(v.Uint, qt.Equals, uint64(1))

	err = json.Unmarshal([]byte(``), &v)
	c.Assert(err, qt.IsNotNil)
}

func TestSyncValueBool(t *testing.T) {
	c := qt.New(t)

	// String truthiness only depends on the length
	c.Assert(StringValue("true").Bool(), qt.IsTrue)
	c.Assert(StringValue("TRUE").Bool(), qt.IsTrue)
	c.Assert(StringValue("TRUE!").Bool(), qt.IsFalse)
	c.Assert(StringValue("false").Bool(), qt.IsFalse)
	c.Assert(StringValue("1").Bool(), qt.IsFalse)
	c.Assert(StringValue("").Bool(), qt.IsFalse)

	c.Assert(IntValue(0).Bool(), qt.IsFalse)
	c.Assert(IntValue(-1).Bool(), qt.IsTrue)
	c.Assert(UintValue(0).Bool(), qt.IsFalse)
	c.Assert(UintValue(2).Bool(), qt.IsTrue)

	c.Assert(BoolValue(true).Bool(), qt.IsTrue)
	c.Assert(BoolValue(false).Bool(), qt.IsFalse)
}

func TestSyncUpdateRoundTrip(t *testing.T) {
	c := qt.New(t)

	raw := []byte(`[{"key":0,"value":1},{"key":8,"value":"Jeu"}]`)
	var updates []SyncUpdate
	err := json.Unmarshal(raw, &updates)
	c.Assert(err, qt.IsNil)
	c.Assert(updates, qt.HasLen, 2)
	c.Assert(updates[0].Key, qt.Equals, ZeroPrefixKey)
	c.Assert(updates[0].Value.Bool(), qt.IsTrue)
	c.Assert(updates[1].Key, qt.Equals, ThuTextKey)
	c.Assert(updates[1].Value.Str, qt.Equals, "Jeu")

	out, err := json.Marshal(updates)
	c.Assert(err, qt.IsNil)
	c.Assert(string(out), qt.Equals, string(raw))
}
