// Package serial drives a strip attached to a microcontroller over a serial
// port. The host speaks the ledserial protocol; the controller does the
// actual signalling and acknowledges every packet.
package serial

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	goserial "go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/ledstrip/led"
	"libdb.so/ledstrip/ledserial"
)

// DefaultAckTimeout is used when Options.AckTimeout is not set.
const DefaultAckTimeout = 2 * time.Second

var (
	// ErrAckTimeout is returned when the controller does not acknowledge a
	// packet in time.
	ErrAckTimeout = errors.New("timed out waiting for controller ack")
	// ErrControllerPanic is returned once the controller reports that it
	// cannot recover.
	ErrControllerPanic = errors.New("controller panicked")
)

// Options configures the serial driver.
type Options struct {
	// Device is the serial device, such as /dev/ttyACM0.
	Device string
	// Baud is the baud rate.
	Baud int
	// Count is the number of LEDs.
	Count int
	// AckTimeout is how long to wait for each acknowledgement.
	AckTimeout time.Duration
}

// ControllerError is an error reported by the controller.
type ControllerError struct {
	Message string
}

func (e *ControllerError) Error() string {
	return "controller error: " + e.Message
}

// Driver is a strip behind a serial-attached controller.
type Driver struct {
	port       io.ReadWriteCloser
	logger     *slog.Logger
	pixels     led.LEDs
	frame      led.LEDs
	brightness uint8
	ackTimeout time.Duration
	// owed counts replies still due for packets that timed out. The
	// controller answers every packet exactly once, with an ack or an error,
	// so that many replies belong to old packets and are skipped.
	owed int

	ctx     context.Context
	cancel  context.CancelFunc
	errg    *errgroup.Group
	replies chan ledserial.OutgoingPacket
}

// Open opens the serial port and initializes the controller. The context
// bounds the lifetime of the connection; Close ends it early.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*Driver, error) {
	port, err := goserial.Open(opts.Device, &goserial.Mode{
		BaudRate: opts.Baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(goserial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	logger.Debug(
		"opened serial port",
		"device", opts.Device,
		"baud", opts.Baud)

	return NewWithPort(ctx, port, opts, logger)
}

// NewWithPort initializes the controller behind an already open port. The
// driver takes ownership of the port.
func NewWithPort(ctx context.Context, port io.ReadWriteCloser, opts Options, logger *slog.Logger) (*Driver, error) {
	if opts.Count < 1 || opts.Count > 0xFFFF {
		port.Close()
		return nil, errors.Errorf("invalid LED count %d", opts.Count)
	}
	if opts.AckTimeout <= 0 {
		opts.AckTimeout = DefaultAckTimeout
	}

	ctx, cancel := context.WithCancel(ctx)
	errg, ctx := errgroup.WithContext(ctx)

	d := &Driver{
		port:       port,
		logger:     logger,
		pixels:     led.NewLEDs(opts.Count),
		frame:      led.NewLEDs(opts.Count),
		brightness: 0xFF,
		ackTimeout: opts.AckTimeout,
		ctx:        ctx,
		cancel:     cancel,
		errg:       errg,
		replies:    make(chan ledserial.OutgoingPacket, 1),
	}

	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})
	errg.Go(func() error {
		return d.readPackets(ctx)
	})

	d.logger.Debug("sending initialize packet", "leds", opts.Count)
	if err := d.send(ledserial.InitializePacket{NumLEDs: uint16(opts.Count)}); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "failed to initialize LEDs")
	}

	return d, nil
}

// NumPixels implements ledstrip.Driver.
func (d *Driver) NumPixels() int { return len(d.pixels) }

// SetPixel implements ledstrip.Driver.
func (d *Driver) SetPixel(i int, c led.Color) { d.pixels[i] = c.Unpack() }

// SetBrightness implements ledstrip.Driver. The controller has no notion of
// brightness, so pixels are scaled before they are sent.
func (d *Driver) SetBrightness(level uint8) { d.brightness = level }

// Show implements ledstrip.Driver. It blocks until the controller
// acknowledges the frame.
func (d *Driver) Show() error {
	d.pixels.ScaleInto(d.frame, d.brightness)
	return d.send(ledserial.SetPacket{Pix: d.frame.AsPixels()})
}

// Close implements ledstrip.Driver. It stops the reader and closes the port.
func (d *Driver) Close() error {
	d.cancel()
	if err := d.errg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (d *Driver) send(p ledserial.IncomingPacket) error {
	// Replies that arrived since the last packet can only be stale.
drain:
	for {
		select {
		case reply := <-d.replies:
			d.skipStale(reply)
		default:
			break drain
		}
	}

	d.logger.Debug(
		"writing packet",
		"type", p.Type(),
		"owed", d.owed)

	if err := ledserial.WriteIncomingPacket(d.port, p); err != nil {
		return errors.Wrapf(err, "failed to write %s packet", p.Type())
	}

	timeout := time.NewTimer(d.ackTimeout)
	defer timeout.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return errors.Wrap(context.Cause(d.ctx), "serial connection closed")

		case <-timeout.C:
			d.owed++
			return errors.Wrapf(ErrAckTimeout, "%s packet", p.Type())

		case reply := <-d.replies:
			if _, ok := reply.(ledserial.PanicPacket); ok {
				return ErrControllerPanic
			}
			if d.skipStale(reply) {
				continue
			}

			switch reply := reply.(type) {
			case ledserial.AckPacket:
				if reply.IncomingPacketType == p.Type() {
					return nil
				}
				d.logger.Warn(
					"controller acked another packet",
					"acked_for", reply.IncomingPacketType,
					"want", p.Type())

			case ledserial.ErrorPacket:
				return &ControllerError{Message: reply.Message}
			}
		}
	}
}

// skipStale consumes reply if it answers a packet that already timed out.
func (d *Driver) skipStale(reply ledserial.OutgoingPacket) bool {
	if d.owed == 0 {
		return false
	}

	switch reply.(type) {
	case ledserial.AckPacket, ledserial.ErrorPacket:
		d.owed--
		d.logger.Debug(
			"skipping late reply",
			"type", reply.Type(),
			"owed", d.owed)
		return true
	default:
		return false
	}
}

func (d *Driver) readPackets(ctx context.Context) error {
	for ctx.Err() == nil {
		p, err := ledserial.ReadOutgoingPacket(d.port)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A short read indicates a timeout. This is expected.
			// Ignore the error and try again.
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				continue
			}
			return errors.Wrap(err, "failed to read packet")
		}

		d.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		switch p := p.(type) {
		case ledserial.LogPacket:
			d.logger.Info(
				"received log packet from controller",
				"message", p.Message)
			continue

		case ledserial.ErrorPacket:
			d.logger.Warn(
				"received error packet from controller",
				"message", p.Message)

		case ledserial.PanicPacket:
			d.logger.Error("controller unrecoverably panicked")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case d.replies <- p:
		}

		if _, ok := p.(ledserial.PanicPacket); ok {
			return ErrControllerPanic
		}
	}

	return ctx.Err()
}
