package event

import (
	"time"

	"github.com/mkarren/bigtime/apimodel"
)

// Ticker
type TickerEvent struct {
	Data interface{}
}

type TickerEventMinuteData struct {
	Time time.Time
}

// Battery
type BatteryEvent struct {
	Percent  int
	Charging bool
}

// Bluetooth
type BluetoothEvent struct {
	Connected bool
}

// Companion settings sync
type SyncEvent struct {
	Result chan error
	Update apimodel.SyncUpdate
}
