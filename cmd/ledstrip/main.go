package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"libdb.so/ledstrip"
	"libdb.so/ledstrip/internal/effects"
	"libdb.so/ledstrip/led"
)

const usage = `Usage: ledstrip [flags] [command]

Commands:
  demo           show red, green and blue for a second each (default)
  fill R,G,B     set every LED to a color
  rainbow        cycle a rainbow along the strip until interrupted
  clear          turn every LED off
  run            run the scenes from the configuration until interrupted

Flags:
`

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	config  = ""
	verbose = false

	backend    = ""
	count      = 0
	pin        = 0
	order      = ""
	brightness = 255
	device     = ""
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.StringVarP(&backend, "backend", "b", backend, "driver backend (memory, rpi, spi, serial, term)")
	pflag.IntVarP(&count, "count", "n", count, "number of LEDs")
	pflag.IntVarP(&pin, "pin", "p", pin, "GPIO pin of the data line")
	pflag.StringVarP(&order, "order", "o", order, "channel order (RGB, GRB, BRG, RBG, GBR, BGR)")
	pflag.IntVar(&brightness, "brightness", brightness, "brightness from 0 to 255")
	pflag.StringVar(&device, "device", device, "serial device for the serial backend")

	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
}

// usageError is returned for mistakes on the command line.
type usageError struct{ error }

func main() {
	pflag.Parse()

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	os.Exit(exitCode(run()))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	fmt.Fprintln(os.Stderr, err)

	var usageErr usageError
	if errors.As(err, &usageErr) {
		pflag.Usage()
		return exitUsage
	}
	return exitFailure
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	if err := applyFlags(cfg, pflag.CommandLine); err != nil {
		return usageError{err}
	}

	command := "demo"
	args := pflag.Args()
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	act, err := parseCommand(command, args)
	if err != nil {
		return usageError{err}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if command == "run" {
		d, err := ledstrip.NewDaemon(cfg, slog.Default())
		if err != nil {
			return fmt.Errorf("failed to create daemon: %w", err)
		}
		if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("daemon failed: %w", err)
		}
		return nil
	}

	strip, err := ledstrip.Open(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to open strip: %w", err)
	}

	if err := ledstrip.Use(strip, func(s *ledstrip.Strip) error { return act(ctx, s) }); err != nil {
		return fmt.Errorf("%s failed: %w", command, err)
	}

	return nil
}

type action func(context.Context, *ledstrip.Strip) error

func parseCommand(command string, args []string) (action, error) {
	wantArgs := 0
	if command == "fill" {
		wantArgs = 1
	}
	if len(args) != wantArgs {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", command, wantArgs, len(args))
	}

	switch command {
	case "demo":
		return ledstrip.RunDemo, nil

	case "fill":
		c, err := parseColor(args[0])
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, s *ledstrip.Strip) error {
			if err := s.SetAllRGB(c.R(), c.G(), c.B()); err != nil {
				return err
			}
			// Keep the color up until interrupted; Use clears on the way out.
			<-ctx.Done()
			return nil
		}, nil

	case "rainbow":
		return func(ctx context.Context, s *ledstrip.Strip) error {
			return ledstrip.Play(ctx, s, 50, ledstrip.Scene{
				Range:  [2]int{0, s.NumPixels()},
				Effect: effects.Rainbow{Step: effects.DefaultRainbowStep},
			})
		}, nil

	case "clear":
		return func(ctx context.Context, s *ledstrip.Strip) error {
			return s.Clear()
		}, nil

	case "run":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

// parseColor parses "R,G,B" with decimal channels, or a #rrggbb hex color.
func parseColor(s string) (led.RGBColor, error) {
	if strings.HasPrefix(s, "#") {
		var c led.RGBColor
		err := c.UnmarshalText([]byte(s))
		return c, err
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return led.RGBColor{}, fmt.Errorf("color %q is not R,G,B", s)
	}

	var channels [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return led.RGBColor{}, fmt.Errorf("color %q: %w", s, err)
		}
		channels[i] = v
	}

	return led.RGBFromInts(channels[0], channels[1], channels[2])
}

func readConfig() (*ledstrip.Config, error) {
	if config == "" {
		return ledstrip.DefaultConfig(), nil
	}

	f, err := os.Open(config)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return ledstrip.ParseConfig(f)
}

// applyFlags overrides the configuration with the flags that were given on
// the command line.
func applyFlags(cfg *ledstrip.Config, flags *pflag.FlagSet) error {
	if flags.Changed("backend") {
		cfg.Backend = ledstrip.Backend(backend)
	}
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("pin") {
		cfg.Pin = pin
	}
	if flags.Changed("order") {
		o, ok := led.ParseChannelOrder(order)
		if !ok {
			slog.Warn("unknown channel order, falling back to RGB", "order", order)
		}
		cfg.Order = o
	}
	if flags.Changed("brightness") {
		cfg.Brightness = brightness
	}
	if flags.Changed("device") {
		cfg.Serial.Device = device
	}
	return cfg.Validate()
}
