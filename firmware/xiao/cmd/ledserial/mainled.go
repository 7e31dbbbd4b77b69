package main

import (
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

// The XIAO RP2040 has its own NeoPixel on GPIO12, powered through GPIO11.
// https://wiki.seeedstudio.com/XIAO-RP2040-with-Arduino/
var (
	statusLED      ws2812.Device
	statusLEDPower = machine.GPIO11
	statusLEDReady bool
)

func initStatusLED() {
	if statusLEDReady {
		return
	}

	statusLEDPower.Configure(machine.PinConfig{Mode: machine.PinOutput})
	statusLEDPower.Low()

	machine.GPIO12.Configure(machine.PinConfig{Mode: machine.PinOutput})
	statusLED = ws2812.New(machine.GPIO12)

	statusLEDReady = true
}

// turnOnMainLED lights the status LED while a packet is being read. The
// onboard LED is GRB.
func turnOnMainLED(r, g, b uint8) {
	initStatusLED()
	statusLEDPower.High()
	statusLED.Write([]byte{g, r, b})
}

func turnOffMainLED() {
	initStatusLED()
	statusLEDPower.Low()
}
