package main

import (
	"io"
	"machine"
	"runtime"
	"time"
)

// SerialReadWriter is the byte stream the device reads packets from.
type SerialReadWriter interface {
	io.ReadWriter
	// Buffered returns the number of bytes currently buffered in the serial
	// device.
	Buffered() int
}

// serialIO adapts a machine.Serialer, which only reads and writes single
// bytes, into an io.ReadWriter.
type serialIO struct {
	machine.Serialer
}

// WrapSerial wraps a machine.Serialer in an io.ReadWriter.
func WrapSerial(serial machine.Serialer) SerialReadWriter {
	return serialIO{Serialer: serial}
}

// Read reads whatever is buffered, up to len(b). It never returns an error
// for an empty buffer so that io.ReadFull keeps polling.
func (s serialIO) Read(b []byte) (int, error) {
	n := min(s.Buffered(), len(b))
	if n == 0 {
		// Sleep to reduce CPU usage.
		time.Sleep(time.Millisecond)
		return 0, nil
	}

	for i := 0; i < n; i++ {
		c, err := s.ReadByte()
		if err != nil {
			return i, err
		}
		b[i] = c
	}

	// Emulate blocking-like behavior by yielding the scheduler.
	runtime.Gosched()
	return n, nil
}

func (s serialIO) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := s.WriteByte(c); err != nil {
			return i, err
		}
	}
	runtime.Gosched()
	return len(b), nil
}
