package ledstrip

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"libdb.so/ledstrip/internal/effects"
	"libdb.so/ledstrip/led"
)

// Scene is an effect drawn over the half-open range [Range[0], Range[1]) of
// LEDs.
type Scene struct {
	Range  [2]int
	Effect effects.Effect
}

// DemoBrightness is the brightness the demo runs at.
const DemoBrightness = 100

// Play draws the scenes onto the strip at the given frame rate. It returns
// nil once every scene has finished or the context is canceled. Play does
// not clear the strip; see Use.
func Play(ctx context.Context, strip *Strip, rate int, scenes ...Scene) error {
	if rate < 1 {
		return errors.Wrapf(ErrInvalidArgument, "frame rate must be positive, got %d", rate)
	}

	n := strip.NumPixels()
	for _, scene := range scenes {
		if scene.Range[0] < 0 || scene.Range[1] > n || scene.Range[0] >= scene.Range[1] {
			return errors.Wrapf(ErrInvalidArgument, "invalid LED range %v for %d LEDs", scene.Range, n)
		}
	}

	leds := led.NewLEDs(n)

	frameTicker := time.NewTicker(time.Second / time.Duration(rate))
	defer frameTicker.Stop()

	start := time.Now()
	now := start

	for {
		elapsed := now.Sub(start)
		done := true

		for _, scene := range scenes {
			if !scene.Effect.Frame(leds[scene.Range[0]:scene.Range[1]], elapsed) {
				done = false
			}
		}

		strip.SetPixels(leds)
		if err := strip.Show(); err != nil {
			return err
		}

		if done {
			strip.logger.Debug("all scenes finished", "elapsed", elapsed)
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case now = <-frameTicker.C:
		}
	}
}

// RunDemo shows red, green and blue for a second each at the demo
// brightness.
func RunDemo(ctx context.Context, strip *Strip) error {
	strip.SetBrightness(DemoBrightness)
	return Play(ctx, strip, 30, Scene{
		Range:  [2]int{0, strip.NumPixels()},
		Effect: effects.Demo(),
	})
}

// Daemon drives a strip with the scenes from its configuration until it is
// stopped.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
	scenes []Scene
}

// NewDaemon creates a new daemon. A configuration without scenes plays a
// rainbow over the whole strip.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
		scenes: scenesFromConfig(cfg),
	}, nil
}

// Run opens the configured strip and runs the daemon on it. It blocks until
// the given context is canceled. The strip is cleared before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	strip, err := Open(ctx, d.cfg, d.logger)
	if err != nil {
		return err
	}
	return d.RunStrip(ctx, strip)
}

// RunStrip runs the daemon on an already opened strip, taking ownership of
// it.
func (d *Daemon) RunStrip(ctx context.Context, strip *Strip) error {
	d.logger.Debug(
		"starting daemon",
		"scenes", len(d.scenes),
		"rate", d.cfg.Rate)

	return Use(strip, func(strip *Strip) error {
		if err := Play(ctx, strip, d.cfg.Rate, d.scenes...); err != nil {
			return err
		}
		// Finished scenes keep showing their last frame until stopped.
		<-ctx.Done()
		return nil
	})
}

func scenesFromConfig(cfg *Config) []Scene {
	if len(cfg.Scenes) == 0 {
		return []Scene{{
			Range:  [2]int{0, cfg.Count},
			Effect: effects.Rainbow{Step: effects.DefaultRainbowStep},
		}}
	}

	scenes := make([]Scene, 0, len(cfg.Scenes))

	for _, sc := range cfg.Scenes {
		var effect effects.Effect

		switch {
		case sc.Color != nil:
			effect = effects.Solid{Color: *sc.Color}
		case sc.Rainbow != nil:
			effect = effects.Rainbow{Step: sc.Rainbow.Step.Or(effects.DefaultRainbowStep)}
		case sc.Wipe != nil:
			effect = effects.Wipe{
				Color: sc.Wipe.Color,
				Step:  sc.Wipe.Step.Or(effects.DefaultWipeStep),
			}
		case sc.Fade != nil:
			effect = effects.Fade{
				From:     sc.Fade.From,
				To:       sc.Fade.To,
				Duration: time.Duration(sc.Fade.Duration),
				Bounce:   sc.Fade.Bounce,
			}
		default:
			effect = effects.Solid{}
		}

		scenes = append(scenes, Scene{Range: sc.Range, Effect: effect})
	}

	return scenes
}
