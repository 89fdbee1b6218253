package device

import (
	"image"
	_ "image/png"
	"sync"

	"github.com/mkarren/bigtime/internal/lcd"
	"github.com/mkarren/bigtime/internal/srv/config"
	"periph.io/x/conn/v3/spi"
)

type Display struct {
	lcdLock    sync.Mutex
	lcdDisplay *lcd.Dev
	spiBus     spi.PortCloser

	param config.DisplayParam

	lock           sync.RWMutex
	on             bool
	simulationMode bool
	lastImg        image.Image

	askDone chan bool
	askImg  chan image.Image
	done    chan bool
}

func (d *Display) startSimulation() {
}

func (d *Display) invalidateSimulationWindow() {
}

func (d *Display) closeSimulationWindow() {
}
