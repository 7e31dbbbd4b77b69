package serial

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/pkg/errors"
	"libdb.so/ledstrip/ledserial"
)

// fakeController is the device end of a serial link. It answers every
// incoming packet with the packets returned by reply.
type fakeController struct {
	conn   net.Conn
	frames chan []byte
	reply  func(ledserial.IncomingPacket) []ledserial.OutgoingPacket
}

func ackAll(p ledserial.IncomingPacket) []ledserial.OutgoingPacket {
	return []ledserial.OutgoingPacket{ledserial.AckPacket{IncomingPacketType: p.Type()}}
}

func startController(t *testing.T, reply func(ledserial.IncomingPacket) []ledserial.OutgoingPacket) (net.Conn, *fakeController) {
	t.Helper()

	host, device := net.Pipe()
	c := &fakeController{
		conn:   device,
		frames: make(chan []byte, 8),
		reply:  reply,
	}
	t.Cleanup(func() { device.Close() })

	go c.run()
	return host, c
}

func (c *fakeController) run() {
	var numLEDs uint16
	for {
		p, err := ledserial.ReadIncomingPacket(c.conn, ledserial.ReadContext{NumLEDs: numLEDs})
		if err != nil {
			return
		}

		switch p := p.(type) {
		case ledserial.InitializePacket:
			numLEDs = p.NumLEDs
		case ledserial.SetPacket:
			c.frames <- append([]byte(nil), p.Pix...)
		}

		for _, out := range c.reply(p) {
			if err := ledserial.WriteOutgoingPacket(c.conn, out); err != nil {
				return
			}
		}
	}
}

func newTestDriver(t *testing.T, count int, reply func(ledserial.IncomingPacket) []ledserial.OutgoingPacket) (*Driver, *fakeController) {
	t.Helper()

	port, controller := startController(t, reply)
	drv, err := NewWithPort(context.Background(), port, Options{
		Count:      count,
		AckTimeout: 200 * time.Millisecond,
	}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewWithPort: %v", err)
	}
	return drv, controller
}

func TestShowSendsFrame(t *testing.T) {
	drv, controller := newTestDriver(t, 2, func(p ledserial.IncomingPacket) []ledserial.OutgoingPacket {
		return []ledserial.OutgoingPacket{
			ledserial.LogPacket{Message: "got " + p.Type().String()},
			ledserial.AckPacket{IncomingPacketType: p.Type()},
		}
	})

	drv.SetPixel(0, 0x010203)
	drv.SetPixel(1, 0xFF0000)
	if err := drv.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}

	frame := <-controller.frames
	if want := []byte{1, 2, 3, 255, 0, 0}; !bytes.Equal(frame, want) {
		t.Fatalf("frame = %v, want %v", frame, want)
	}

	drv.SetBrightness(51)
	if err := drv.Show(); err != nil {
		t.Fatalf("Show: %v", err)
	}

	frame = <-controller.frames
	if want := []byte{0, 0, 0, 51, 0, 0}; !bytes.Equal(frame, want) {
		t.Fatalf("scaled frame = %v, want %v", frame, want)
	}

	if err := drv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestShowControllerError(t *testing.T) {
	drv, _ := newTestDriver(t, 1, func(p ledserial.IncomingPacket) []ledserial.OutgoingPacket {
		if p.Type() == ledserial.TypeSetPacket {
			return []ledserial.OutgoingPacket{ledserial.ErrorPacket{Message: "strip unplugged"}}
		}
		return ackAll(p)
	})
	defer drv.Close()

	err := drv.Show()

	var controllerErr *ControllerError
	if !errors.As(err, &controllerErr) {
		t.Fatalf("expected ControllerError, got %v", err)
	}
	if controllerErr.Message != "strip unplugged" {
		t.Fatalf("message = %q", controllerErr.Message)
	}
}

func TestShowAckTimeout(t *testing.T) {
	drv, _ := newTestDriver(t, 1, func(p ledserial.IncomingPacket) []ledserial.OutgoingPacket {
		if p.Type() == ledserial.TypeSetPacket {
			return nil
		}
		return ackAll(p)
	})
	defer drv.Close()

	if err := drv.Show(); !errors.Is(err, ErrAckTimeout) {
		t.Fatalf("expected ErrAckTimeout, got %v", err)
	}
}

func TestInitializeRejected(t *testing.T) {
	port, _ := startController(t, func(p ledserial.IncomingPacket) []ledserial.OutgoingPacket {
		return []ledserial.OutgoingPacket{ledserial.ErrorPacket{Message: "invalid number of LEDs"}}
	})

	_, err := NewWithPort(context.Background(), port, Options{Count: 3}, slog.New(slog.DiscardHandler))

	var controllerErr *ControllerError
	if !errors.As(err, &controllerErr) {
		t.Fatalf("expected ControllerError, got %v", err)
	}
}

func TestInvalidCount(t *testing.T) {
	port, _ := startController(t, ackAll)

	if _, err := NewWithPort(context.Background(), port, Options{Count: 0}, slog.New(slog.DiscardHandler)); err == nil {
		t.Fatal("expected error for zero LEDs")
	}
}

func TestLateAckNotTakenForNextFrame(t *testing.T) {
	var sets int
	drv, _ := newTestDriver(t, 1, func(p ledserial.IncomingPacket) []ledserial.OutgoingPacket {
		if p.Type() != ledserial.TypeSetPacket {
			return ackAll(p)
		}
		sets++
		switch sets {
		case 1:
			// Acked only after the host gave up on it.
			time.Sleep(300 * time.Millisecond)
			return ackAll(p)
		case 2:
			return []ledserial.OutgoingPacket{ledserial.ErrorPacket{Message: "frame 2 rejected"}}
		default:
			return ackAll(p)
		}
	})
	defer drv.Close()

	if err := drv.Show(); !errors.Is(err, ErrAckTimeout) {
		t.Fatalf("first Show: expected ErrAckTimeout, got %v", err)
	}

	err := drv.Show()
	var controllerErr *ControllerError
	if !errors.As(err, &controllerErr) || controllerErr.Message != "frame 2 rejected" {
		t.Fatalf("second Show: expected the frame 2 error, got %v", err)
	}

	if err := drv.Show(); err != nil {
		t.Fatalf("third Show: %v", err)
	}
}
