package main

import (
	"fmt"
	"machine"

	"libdb.so/ledstrip/ledserial"
	"tinygo.org/x/drivers/ws2812"
)

// Device stores the current state of the device.
type Device struct {
	serial SerialReadWriter
	led    ws2812.Device

	numLEDs   uint16
	ledBuffer []byte
}

// NewDevice creates a new device.
func NewDevice(serial machine.Serialer, ledPin machine.Pin) *Device {
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Device{
		serial: WrapSerial(serial),
		led:    ws2812.New(ledPin),
	}
}

// Run runs the device loop forever.
func (d *Device) Run() {
	for {
		p, err := d.readPacket()
		if err != nil {
			d.logError(err)
			continue
		}

		d.log(fmt.Sprintf("received packet: %s", p.Type()))

		if err := d.handlePacket(p); err != nil {
			d.logError(err)
		}
	}
}

func (d *Device) log(msg string) {
	d.sendPacket(ledserial.LogPacket{Message: msg})
}

func (d *Device) logError(err error) {
	d.sendPacket(ledserial.ErrorPacket{Message: err.Error()})
}

func (d *Device) sendPacket(p ledserial.OutgoingPacket) {
	ledserial.WriteOutgoingPacket(d.serial, p)
}

func (d *Device) readPacket() (ledserial.IncomingPacket, error) {
	turnOnMainLED(255, 255, 255)

	p, err := ledserial.ReadIncomingPacket(d.serial, ledserial.ReadContext{
		NumLEDs:   d.numLEDs,
		LEDBuffer: d.ledBuffer,
	})

	turnOffMainLED()
	return p, err
}

func (d *Device) handlePacket(p ledserial.IncomingPacket) error {
	switch p := p.(type) {
	case ledserial.InitializePacket:
		if p.NumLEDs < 1 {
			return fmt.Errorf("invalid number of LEDs: %d", p.NumLEDs)
		}
		d.numLEDs = p.NumLEDs
		d.ledBuffer = make([]byte, 3*int(p.NumLEDs))
		d.clearLEDs(true)

	case ledserial.ClearPacket:
		d.clearLEDs(false)

	case ledserial.SetPacket:
		if d.numLEDs == 0 {
			return fmt.Errorf("set packet before initialize")
		}
		// Pixels arrive in the strip's native order; send them as is.
		d.led.Write(p.Pix)

	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	d.sendPacket(ledserial.AckPacket{
		IncomingPacketType: p.Type(),
	})
	return nil
}

// clearLEDs turns the strip off. When signalReady is set, the first LED is
// lit red and the last blue so the wiring can be checked at a glance.
func (d *Device) clearLEDs(signalReady bool) {
	for i := range d.ledBuffer {
		d.ledBuffer[i] = 0
	}

	if signalReady && d.numLEDs > 1 {
		copy(d.ledBuffer[0:3], []byte{255, 0, 0})
		copy(d.ledBuffer[len(d.ledBuffer)-3:], []byte{0, 0, 255})
	}

	d.led.Write(d.ledBuffer)
}
