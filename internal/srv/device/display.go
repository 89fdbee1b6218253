package device

import (
	"image"
	_ "image/png"

	"github.com/mkarren/bigtime/internal/lcd"
	"github.com/mkarren/bigtime/internal/srv/config"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func NewDisplay(param config.DisplayParam, simulationMode bool) *Display {
	if _, err := host.Init(); err != nil {
		logrus.Fatalf("Unable to initialize periph host: %v\n", err)
	}

	device := Display{
		param:          param,
		simulationMode: simulationMode,
		askDone:        make(chan bool),
		askImg:         make(chan image.Image),
		done:           make(chan bool),
	}

	return &device
}

func (d *Display) Start() {
	logrus.Infof("Start display device")

	d.on = true

	if d.simulationMode {
		d.startSimulation()
	} else {
		var err error
		// Open a handle to the SPI bus:
		d.spiBus, err = spireg.Open(d.param.SpiPort)
		if err != nil {
			logrus.Fatalf("Unable to open spi bus: %v\n", err)
		}

		// The panel chip select is software driven:
		csPin := gpioreg.ByName(d.param.CsPin)
		if csPin == nil {
			logrus.Fatalf("Unable to find display cs pin %s\n", d.param.CsPin)
		}

		d.lcdDisplay, err = lcd.NewSPI(d.spiBus, csPin, &lcd.DefaultOpts)
		if err != nil {
			logrus.Fatalf("Unable to initialize lcd display: %v\n", err)
		}

		if err = d.lcdDisplay.Clear(); err != nil {
			logrus.Fatalf("Unable to clear lcd display: %v\n", err)
		}

		go func() {
			for loop := true; loop; {
				select {
				case <-d.askDone:
					loop = false
				case newImg := <-d.askImg:
					d.lcdLock.Lock()
					if err := d.lcdDisplay.Draw(d.lcdDisplay.Bounds(), newImg, image.Point{}); err != nil {
						logrus.Warnf("Unable to refresh lcd display: %v", err)
					}
					d.lcdLock.Unlock()
				}
			}
			d.lcdLock.Lock()
			d.lcdDisplay.Halt()
			d.spiBus.Close()
			d.lcdLock.Unlock()
			d.done <- true
		}()
	}
}

func (d *Display) Stop() {
	logrus.Infof("Stop display device")

	if d.simulationMode {
		d.closeSimulationWindow()
	} else {
		d.askDone <- true
		<-d.done
	}
}

func (d *Display) SetOff() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.setOff()
}

func (d *Display) setOff() {
	d.on = false
	if !d.simulationMode {
		d.lcdLock.Lock()
		if err := d.lcdDisplay.Halt(); err != nil {
			logrus.Warnf("Unable to blank lcd display: %v", err)
		}
		d.lcdLock.Unlock()
	}
}

func (d *Display) SetOn() {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.setOn()
}

func (d *Display) setOn() {
	d.on = true
	if d.simulationMode {
		d.invalidateSimulationWindow()
	} else {
		d.askImg <- d.lastImg
	}
}

func (d *Display) Switch() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.on {
		d.setOff()
	} else {
		d.setOn()
	}

	return d.on
}

func (d *Display) IsOn() bool {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.on
}

func (d *Display) ShowImage(img image.Image) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.lastImg = img
	if d.on {
		if d.simulationMode {
			d.invalidateSimulationWindow()
		} else {
			d.askImg <- img
		}
	}
}
