package srv

import (
	"os"
	"os/exec"
	"time"

	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/mkarren/bigtime/internal/srv/device"
	"github.com/mkarren/bigtime/internal/srv/watchface"
	"github.com/mkarren/bigtime/internal/version"
	"github.com/sirupsen/logrus"
)

type ServerApp struct {
	*config.ServerConfig
	displayDevice   *device.Display
	clockDevice     *device.Clock
	batteryDevice   *device.Battery
	bluetoothDevice *device.Bluetooth
	companionDevice *device.Companion

	face *watchface.Face

	currentMode Mode

	lastBattery   watchface.BatteryState
	hasBattery    bool
	lastConnected bool

	eventLoopAskDone chan bool
	eventLoopDone    chan bool
}

type Mode int64

const (
	UNDEFINED_MODE Mode = iota
	CLOCK_MODE
	END_MODE
)

func NewServerApp(configDir string, debugMode bool, simulationMode bool) *ServerApp {

	logrus.Debugf("Creation of bigtime server %s ...", version.AppVersion.String())

	app := &ServerApp{
		currentMode:      UNDEFINED_MODE,
		eventLoopAskDone: make(chan bool),
		eventLoopDone:    make(chan bool),
		ServerConfig:     config.NewServerConfig(configDir, debugMode, simulationMode),
	}

	app.displayDevice = device.NewDisplay(app.ServerParam.DisplayParam, app.SimulationMode)
	app.clockDevice = device.NewClock()
	app.batteryDevice = device.NewBattery(app.ServerParam.BatteryParam, app.SimulationMode)
	app.bluetoothDevice = device.NewBluetooth(app.ServerParam.BluetoothParam, app.SimulationMode)
	app.companionDevice = device.NewCompanion(app.ServerConfig)

	app.face = watchface.NewFace(app.ServerConfig.Settings, app.ServerParam.Clock24h)

	logrus.Debugln("Server created")

	return app
}

func (s *ServerApp) Start() {
	logrus.Printf("Starting bigtime server ...")

	logrus.Printf("Starting devices ...")

	// Start display device
	s.displayDevice.Start()

	// Display startup screen
	s.refreshDisplay()
	time.Sleep(2 * time.Second)

	// Show the face before the first minute tick
	now := time.Now()
	s.face.RefreshTime(now)
	s.face.HandleMinuteTick(now)

	// Set clock mode
	s.currentMode = CLOCK_MODE
	s.refreshDisplay()

	// Start event loop
	go s.eventLoop()

	// Start clock device
	s.clockDevice.Start()

	// Start battery device
	s.batteryDevice.Start()

	// Start bluetooth device
	s.bluetoothDevice.Start()

	// Start companion device
	s.companionDevice.Start()
}

func (s *ServerApp) Stop(halt bool) {
	logrus.Printf("Stopping bigtime server ...")

	// Stop companion device
	s.companionDevice.StopSendingEvent()

	// Stop bluetooth device
	s.bluetoothDevice.StopSendingEvent()

	// Stop battery device
	s.batteryDevice.StopSendingEvent()

	// Stop clock device
	s.clockDevice.StopSendingEvent()

	// Stop event loop
	logrus.Infof("Stop event loop")
	s.eventLoopAskDone <- true
	<-s.eventLoopDone

	// Release the slots and display the end mode screen
	s.face.Clear()
	s.currentMode = END_MODE
	s.refreshDisplay()

	// Stop display device
	s.displayDevice.Stop()

	// Flush pending settings backup
	s.ServerConfig.Settings.FlushSave()

	logrus.Printf("Server stopped")

	if halt {
		logrus.Printf("System halt")
		haltCmd := exec.Command("sudo", "halt")
		err := haltCmd.Run()
		if err != nil {
			logrus.Panicf("Unable to halt the system: %v", err)
		}
	}
	os.Exit(0)
}
