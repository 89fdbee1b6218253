package device

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/mkarren/bigtime/internal/srv/event"
	"github.com/sirupsen/logrus"
)

const bluezBusName = "org.bluez"
const bluezDeviceInterface = "org.bluez.Device1"
const propertiesChangedMember = "org.freedesktop.DBus.Properties.PropertiesChanged"

const propertiesMatchRule = "type='signal',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged'"

// Bluetooth watches the connectivity of the paired companion through
// bluez on the system bus and reports transitions.
type Bluetooth struct {
	lock         sync.RWMutex
	eventChannel chan event.BluetoothEvent

	simulationMode bool
	pathFragment   string

	conn    *dbus.Conn
	sigChan chan *dbus.Signal

	askDone chan bool
	done    chan bool
}

func NewBluetooth(param config.BluetoothParam, simulationMode bool) *Bluetooth {
	device := Bluetooth{
		eventChannel:   make(chan event.BluetoothEvent),
		simulationMode: simulationMode,
		askDone:        make(chan bool),
		done:           make(chan bool),
	}

	if param.DeviceAddress != "" {
		device.pathFragment = "dev_" + strings.ReplaceAll(param.DeviceAddress, ":", "_")
	}

	return &device
}

func (d *Bluetooth) Start() {
	logrus.Infof("Start bluetooth device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if d.simulationMode {
		go func() {
			d.eventChannel <- event.BluetoothEvent{Connected: true}
			<-d.askDone
			d.done <- true
		}()
		return
	}

	var err error
	d.conn, err = dbus.SystemBus()
	if err != nil {
		logrus.Fatalf("Unable to connect to system bus: %v\n", err)
	}

	if err = d.conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, propertiesMatchRule).Err; err != nil {
		logrus.Fatalf("Unable to subscribe to bluez property changes: %v\n", err)
	}

	d.sigChan = make(chan *dbus.Signal, 16)
	d.conn.Signal(d.sigChan)

	connectedDevices := d.peekConnectedDevices()

	go func() {
		anyConnected := func() bool {
			for _, connected := range connectedDevices {
				if connected {
					return true
				}
			}
			return false
		}

		lastConnected := anyConnected()
		d.eventChannel <- event.BluetoothEvent{Connected: lastConnected}

		for loop := true; loop; {
			select {
			case sig := <-d.sigChan:
				if sig == nil || sig.Name != propertiesChangedMember || len(sig.Body) < 2 {
					continue
				}
				iface, ok := sig.Body[0].(string)
				if !ok || iface != bluezDeviceInterface {
					continue
				}
				if d.pathFragment != "" && !strings.Contains(string(sig.Path), d.pathFragment) {
					continue
				}
				changed, ok := sig.Body[1].(map[string]dbus.Variant)
				if !ok {
					continue
				}
				variant, ok := changed["Connected"]
				if !ok {
					continue
				}
				connected, ok := variant.Value().(bool)
				if !ok {
					continue
				}
				logrus.Debugf("Bluez device %s connected=%v", sig.Path, connected)
				connectedDevices[sig.Path] = connected

				if nowConnected := anyConnected(); nowConnected != lastConnected {
					lastConnected = nowConnected
					d.eventChannel <- event.BluetoothEvent{Connected: nowConnected}
				}
			case <-d.askDone:
				loop = false
			}
		}
		d.done <- true
	}()
}

// peekConnectedDevices reads the initial Connected property of every
// known bluez device.
func (d *Bluetooth) peekConnectedDevices() map[dbus.ObjectPath]bool {
	connectedDevices := map[dbus.ObjectPath]bool{}

	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := d.conn.Object(bluezBusName, "/").Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).Store(&objects)
	if err != nil {
		logrus.Warnf("Unable to enumerate bluez devices: %v", err)
		return connectedDevices
	}

	for path, interfaces := range objects {
		deviceProps, ok := interfaces[bluezDeviceInterface]
		if !ok {
			continue
		}
		if d.pathFragment != "" && !strings.Contains(string(path), d.pathFragment) {
			continue
		}
		if variant, ok := deviceProps["Connected"]; ok {
			if connected, ok := variant.Value().(bool); ok {
				connectedDevices[path] = connected
			}
		}
	}
	return connectedDevices
}

func (d *Bluetooth) StopSendingEvent() {
	logrus.Infof("Stop bluetooth device")

	d.lock.Lock()
	defer d.lock.Unlock()

	if !d.simulationMode {
		d.conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, propertiesMatchRule)
		d.conn.RemoveSignal(d.sigChan)
	}
	d.askDone <- true
	<-d.done
}

func (d *Bluetooth) EventChannel() chan event.BluetoothEvent {
	return d.eventChannel
}
