package ledstrip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
	"libdb.so/ledstrip/driver/memory"
	"libdb.so/ledstrip/driver/rpi"
	"libdb.so/ledstrip/driver/serial"
	"libdb.so/ledstrip/driver/spi"
	"libdb.so/ledstrip/driver/term"
)

// OpenDriver opens the backend named in the configuration.
func OpenDriver(ctx context.Context, cfg *Config, logger *slog.Logger) (Driver, error) {
	switch cfg.Backend {
	case MemoryBackend:
		return memory.New(cfg.Count, logger), nil

	case RPiBackend:
		return driverOf(rpi.Open(rpi.Options{
			Count:      cfg.Count,
			Pin:        cfg.Pin,
			FreqHz:     cfg.FreqHz,
			DMA:        cfg.DMA,
			Brightness: uint8(cfg.Brightness),
			Invert:     cfg.Invert,
			Channel:    cfg.Channel,
		}, logger))

	case SPIBackend:
		return driverOf(spi.Open(spi.Options{
			Port:   cfg.SPI.Port,
			Count:  cfg.Count,
			FreqHz: cfg.FreqHz,
		}, logger))

	case SerialBackend:
		return driverOf(serial.Open(ctx, serial.Options{
			Device:     cfg.Serial.Device,
			Baud:       cfg.Serial.Baud,
			Count:      cfg.Count,
			AckTimeout: cfg.Serial.AckTimeout.Or(serial.DefaultAckTimeout),
		}, logger))

	case TermBackend:
		return driverOf(term.Open(term.Options{
			Count: cfg.Count,
			Order: cfg.Order,
		}))

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// driverOf avoids returning a typed nil Driver alongside an error.
func driverOf[T Driver](drv T, err error) (Driver, error) {
	if err != nil {
		return nil, err
	}
	return drv, nil
}

// Open validates the configuration, opens its driver and creates a strip on
// top of it.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger) (*Strip, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	drv, err := OpenDriver(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s driver", cfg.Backend)
	}

	strip, err := New(cfg.StripConfig(), drv, logger)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return strip, nil
}

// Use runs f with the strip, then clears and closes it on every exit path,
// including panics. The first error wins.
func Use(strip *Strip, f func(*Strip) error) (err error) {
	defer func() {
		if clearErr := strip.Clear(); clearErr != nil {
			strip.logger.Warn("failed to clear strip", "error", clearErr)
			if err == nil {
				err = clearErr
			}
		}
		if closeErr := strip.Close(); closeErr != nil {
			strip.logger.Warn("failed to close strip", "error", closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}()

	return f(strip)
}
