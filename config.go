package ledstrip

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"libdb.so/ledstrip/led"
)

// Backend names a driver implementation.
type Backend string

const (
	// MemoryBackend keeps the strip in memory. Nothing is lit.
	MemoryBackend Backend = "memory"
	// RPiBackend drives the strip through the rpi_ws281x native library. It
	// is only available in binaries built with the pi build tag.
	RPiBackend Backend = "rpi"
	// SPIBackend drives the strip over an SPI port using periph.
	SPIBackend Backend = "spi"
	// SerialBackend sends frames to a microcontroller over a serial port.
	SerialBackend Backend = "serial"
	// TermBackend previews the strip in the terminal.
	TermBackend Backend = "term"
)

// Backends lists all known backends.
var Backends = []Backend{MemoryBackend, RPiBackend, SPIBackend, SerialBackend, TermBackend}

// Config is the configuration for a strip and the daemon driving it.
type Config struct {
	// Backend is the driver used to talk to the strip.
	Backend Backend `toml:"backend" default:"rpi"`
	// Count is the number of LEDs on the strip.
	Count int `toml:"count" default:"8"`
	// Pin is the GPIO pin the strip's data line is connected to.
	Pin int `toml:"pin" default:"18"`
	// FreqHz is the signal frequency, usually 800kHz.
	FreqHz int `toml:"freq_hz" default:"800000"`
	// DMA is the DMA channel used by the native driver.
	DMA int `toml:"dma" default:"10"`
	// Brightness is the initial brightness in [0, 255].
	Brightness int `toml:"brightness" default:"255"`
	// Invert inverts the data signal, for level shifters that invert.
	Invert bool `toml:"invert"`
	// Channel is the native driver's PWM channel, 0 or 1.
	Channel int `toml:"channel"`
	// Order is the channel order of the LED chips. Unknown orders fall back
	// to RGB.
	Order led.ChannelOrder `toml:"order"`
	// Rate is the refresh rate of the daemon in frames per second.
	Rate int `toml:"rate" default:"30"`

	// Serial configures the serial backend.
	Serial SerialConfig `toml:"serial"`
	// SPI configures the SPI backend.
	SPI SPIConfig `toml:"spi"`

	// Scenes is a list of effects, each drawn over a range of LEDs.
	Scenes []SceneConfig `toml:"scene"`
}

// SerialConfig is the configuration for the serial backend.
type SerialConfig struct {
	// Device is the path to the serial device.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device" default:"/dev/ttyACM0"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud" default:"115200"`
	// AckTimeout is how long to wait for the controller to acknowledge a
	// packet.
	AckTimeout TOMLDuration `toml:"ack_timeout"`
}

// SPIConfig is the configuration for the SPI backend.
type SPIConfig struct {
	// Port is the periph SPI port name. Empty means the first available port.
	Port string `toml:"port"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Backend:    RPiBackend,
		Count:      8,
		Pin:        18,
		FreqHz:     800000,
		DMA:        10,
		Brightness: 255,
		Order:      led.RGB,
		Rate:       30,
		Serial: SerialConfig{
			Device: "/dev/ttyACM0",
			Baud:   115200,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Count < 1 {
		return errors.Wrapf(ErrInvalidArgument, "count must be positive, got %d", c.Count)
	}

	if c.Brightness < 0 || c.Brightness > 255 {
		return errors.Wrapf(ErrInvalidArgument, "brightness %d out of range [0, 255]", c.Brightness)
	}

	if c.Channel != 0 && c.Channel != 1 {
		return errors.Wrapf(ErrInvalidArgument, "channel must be 0 or 1, got %d", c.Channel)
	}

	if c.Rate < 1 {
		return errors.Wrapf(ErrInvalidArgument, "rate must be positive, got %d", c.Rate)
	}

	known := false
	for _, b := range Backends {
		known = known || b == c.Backend
	}
	if !known {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	for i, scene := range c.Scenes {
		if err := scene.validate(c.Count); err != nil {
			return errors.Wrapf(err, "scene %d", i)
		}
	}

	// Check for overlapping LED ranges.
	for i, scene1 := range c.Scenes {
		for _, scene2 := range c.Scenes[i+1:] {
			if scene1.Range[0] < scene2.Range[1] && scene2.Range[0] < scene1.Range[1] {
				return fmt.Errorf("LED range %v overlaps with %v", scene1.Range, scene2.Range)
			}
		}
	}

	return nil
}

// StripConfig returns the part of the configuration used by the Strip.
func (c *Config) StripConfig() StripConfig {
	return StripConfig{
		Order:      c.Order,
		Brightness: uint8(c.Brightness),
	}
}

// SceneConfig is the configuration for an effect over a range of LEDs.
type SceneConfig struct {
	// Range is the half-open range [start, end) of LEDs to draw on.
	Range [2]int `toml:"range"`

	// Only one of the following fields should be set.
	// If none are set, then the LEDs are left off.

	// Color is the color to set the LEDs to.
	Color *led.RGBColor `toml:"color,omitempty"`
	// Rainbow cycles the rainbow along the LEDs.
	Rainbow *RainbowConfig `toml:"rainbow,omitempty"`
	// Wipe lights the LEDs one after another.
	Wipe *WipeConfig `toml:"wipe,omitempty"`
	// Fade fades between two colors.
	Fade *FadeConfig `toml:"fade,omitempty"`
}

func (s *SceneConfig) validate(count int) error {
	if s.Range[0] < 0 || s.Range[1] > count || s.Range[0] >= s.Range[1] {
		return errors.Wrapf(ErrInvalidArgument, "invalid LED range %v for %d LEDs", s.Range, count)
	}

	var set int
	for _, ok := range []bool{s.Color != nil, s.Rainbow != nil, s.Wipe != nil, s.Fade != nil} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return errors.New("only one of color, rainbow, wipe and fade may be set")
	}

	if s.Fade != nil && s.Fade.Duration <= 0 {
		return errors.New("fade duration must be positive")
	}

	return nil
}

// RainbowConfig is the configuration for the rainbow cycle.
type RainbowConfig struct {
	// Step is how long each step of the cycle lasts.
	Step TOMLDuration `toml:"step"`
}

// WipeConfig is the configuration for the color wipe.
type WipeConfig struct {
	// Color is the color wiped onto the LEDs.
	Color led.RGBColor `toml:"color"`
	// Step is how long it takes to light each LED.
	Step TOMLDuration `toml:"step"`
}

// FadeConfig is the configuration for the fade.
type FadeConfig struct {
	// From is the starting color.
	From led.RGBColor `toml:"from"`
	// To is the final color.
	To led.RGBColor `toml:"to"`
	// Duration is how long the fade takes.
	Duration TOMLDuration `toml:"duration"`
	// Bounce fades back and forth forever instead of stopping at To.
	Bounce bool `toml:"bounce"`
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Or returns d, or def if d is not positive.
func (d TOMLDuration) Or(def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return time.Duration(d)
}

// ParseConfig parses a configuration from a reader. Keys that are not set
// keep the values from DefaultConfig.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML")
	}

	// Default tags are not applied inside tables missing from the file.
	def := DefaultConfig()
	if config.Serial.Device == "" {
		config.Serial.Device = def.Serial.Device
	}
	if config.Serial.Baud == 0 {
		config.Serial.Baud = def.Serial.Baud
	}

	return &config, nil
}
