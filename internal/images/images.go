package images

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
)

// The digit bitmaps are 72x74 pixels (a quarter of the 144x168 display),
// black and white with the digit centered in the image. They are kept
// compressed and only decoded while a slot shows them.

//go:embed num_0.png num_1.png num_2.png num_3.png num_4.png num_5.png num_6.png num_7.png num_8.png num_9.png
var digitsFs embed.FS

//go:embed power_0.png power_1.png power_2.png power_3.png power_4.png power_5.png
var powerFs embed.FS

//go:embed bluetooth.png
var bluetoothFile []byte

const NumberOfDigits = 10
const NumberOfPowerLevels = 6

// DecodeDigit decodes the bitmap for one digit (0-9).
func DecodeDigit(digit int) (image.Image, error) {
	if digit < 0 || digit >= NumberOfDigits {
		return nil, fmt.Errorf("no image for digit %d", digit)
	}
	raw, err := digitsFs.ReadFile(fmt.Sprintf("num_%d.png", digit))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("can't decode digit %d image: %v", digit, err)
	}
	return img, nil
}

// DecodePower decodes the battery indicator bitmap for one level (0-5,
// level 5 being the charging icon).
func DecodePower(level int) (image.Image, error) {
	if level < 0 || level >= NumberOfPowerLevels {
		return nil, fmt.Errorf("no image for power level %d", level)
	}
	raw, err := powerFs.ReadFile(fmt.Sprintf("power_%d.png", level))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("can't decode power level %d image: %v", level, err)
	}
	return img, nil
}

// DecodeBluetooth decodes the bluetooth indicator bitmap.
func DecodeBluetooth() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(bluetoothFile))
	if err != nil {
		return nil, fmt.Errorf("can't decode bluetooth image: %v", err)
	}
	return img, nil
}
