package device

import (
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/mkarren/bigtime/internal/srv/event"
	"github.com/sirupsen/logrus"
)

const powerSupplyRoot = "/sys/class/power_supply"

// Battery polls the kernel power-supply class and reports charge state
// changes. The first reading is always reported.
type Battery struct {
	lock         sync.RWMutex
	eventChannel chan event.BatteryEvent

	simulationMode bool
	supplyDir      string
	pollInterval   time.Duration

	checkTicker *time.Ticker

	askDone chan bool
	done    chan bool
}

func NewBattery(param config.BatteryParam, simulationMode bool) *Battery {
	pollSeconds := param.PollSeconds
	if pollSeconds <= 0 {
		pollSeconds = 30
	}

	device := Battery{
		eventChannel:   make(chan event.BatteryEvent),
		simulationMode: simulationMode,
		supplyDir:      filepath.Join(powerSupplyRoot, param.Supply),
		pollInterval:   time.Duration(pollSeconds) * time.Second,
		askDone:        make(chan bool),
		done:           make(chan bool),
	}

	return &device
}

func (d *Battery) Start() {
	logrus.Infof("Start battery device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.checkTicker = time.NewTicker(d.pollInterval)

	go func() {
		var lastState event.BatteryEvent
		var hasState bool

		report := func() {
			state, err := d.readState()
			if err != nil {
				logrus.Warnf("Unable to read battery state: %v", err)
				return
			}
			if !hasState || state != lastState {
				d.eventChannel <- state
				lastState = state
				hasState = true
			}
		}

		if d.simulationMode {
			d.eventChannel <- event.BatteryEvent{Percent: 80, Charging: false}
		} else {
			report()
		}

		for loop := true; loop; {
			select {
			case <-d.checkTicker.C:
				if !d.simulationMode {
					report()
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

func (d *Battery) readState() (event.BatteryEvent, error) {
	rawCapacity, err := ioutil.ReadFile(filepath.Join(d.supplyDir, "capacity"))
	if err != nil {
		return event.BatteryEvent{}, err
	}
	percent, err := strconv.Atoi(strings.TrimSpace(string(rawCapacity)))
	if err != nil {
		return event.BatteryEvent{}, err
	}

	rawStatus, err := ioutil.ReadFile(filepath.Join(d.supplyDir, "status"))
	if err != nil {
		return event.BatteryEvent{}, err
	}
	charging := strings.TrimSpace(string(rawStatus)) == "Charging"

	return event.BatteryEvent{Percent: percent, Charging: charging}, nil
}

func (d *Battery) StopSendingEvent() {
	logrus.Infof("Stop battery device")

	d.lock.Lock()
	defer d.lock.Unlock()

	d.checkTicker.Stop()
	d.askDone <- true
	<-d.done
}

func (d *Battery) EventChannel() chan event.BatteryEvent {
	return d.eventChannel
}
