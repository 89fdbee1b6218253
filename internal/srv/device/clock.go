package device

import (
	"sync"
	"time"

	"github.com/mkarren/bigtime/internal/srv/event"
	"github.com/sirupsen/logrus"
)

type Clock struct {
	lock         sync.RWMutex
	eventChannel chan event.TickerEvent

	refreshClockTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewClock() *Clock {
	ticker := Clock{
		eventChannel: make(chan event.TickerEvent),
		askDone:      make(chan bool),
		done:         make(chan bool),
	}
	return &ticker
}

func (d *Clock) Start() {
	logrus.Infof("Start ticker device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.refreshClockTicker = time.NewTicker(time.Second)

	go func() {
		var oldDisplayedTime string

		for loop := true; loop; {
			select {
			case <-d.refreshClockTicker.C:
				now := time.Now()

				// Check starting minute
				displayedTime := now.Format("15:04")
				if oldDisplayedTime != displayedTime {
					d.eventChannel <- event.TickerEvent{Data: event.TickerEventMinuteData{Time: now}}
				}
				oldDisplayedTime = displayedTime

			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Clock) StopSendingEvent() {
	logrus.Infof("Stop ticker device")
	d.lock.Lock()
	defer d.lock.Unlock()

	d.refreshClockTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Clock) EventChannel() chan event.TickerEvent {
	return d.eventChannel
}
