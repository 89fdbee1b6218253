package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	Clock24h       bool           `yaml:"clock_24h"`
	DisplayParam   DisplayParam   `yaml:"display"`
	BatteryParam   BatteryParam   `yaml:"battery"`
	BluetoothParam BluetoothParam `yaml:"bluetooth"`
	CompanionParam CompanionParam `yaml:"companion"`
}

type DisplayParam struct {
	SpiPort string `yaml:"spi_port"`
	CsPin   string `yaml:"cs_pin"`
}

type BatteryParam struct {
	Supply      string `yaml:"supply"`
	PollSeconds int64  `yaml:"poll_seconds"`
}

type BluetoothParam struct {
	// DeviceAddress restricts connectivity tracking to one paired
	// device. Empty tracks any bluez device.
	DeviceAddress string `yaml:"device_address"`
}

type CompanionParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
	// PushUrl is the companion endpoint pinged once at startup.
	PushUrl string `yaml:"push_url"`
}
