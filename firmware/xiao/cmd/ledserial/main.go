// Command ledserial is the XIAO RP2040 firmware for the serial backend. It
// drives a WS2812 strip on D10 with frames received over USB serial.
package main

import "machine"

func main() {
	NewDevice(machine.Serial, machine.D10).Run()
}
