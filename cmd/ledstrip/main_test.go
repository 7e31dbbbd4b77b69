package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"libdb.so/ledstrip"
	"libdb.so/ledstrip/led"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want led.RGBColor
	}{
		{"255,0,0", led.RGBOf(255, 0, 0)},
		{" 1, 2 ,3", led.RGBOf(1, 2, 3)},
		{"#00ff80", led.RGBOf(0, 255, 128)},
	}
	for _, test := range tests {
		got, err := parseColor(test.in)
		if err != nil {
			t.Fatalf("parseColor(%q): %v", test.in, err)
		}
		if got != test.want {
			t.Errorf("parseColor(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestParseColorOutOfRange(t *testing.T) {
	if _, err := parseColor("256,0,0"); !errors.Is(err, led.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := parseColor("1,2"); err == nil {
		t.Fatal("expected error for two channels")
	}
}

func TestParseCommand(t *testing.T) {
	if _, err := parseCommand("fill", nil); err == nil {
		t.Fatal("fill without a color should fail")
	}
	if _, err := parseCommand("demo", []string{"extra"}); err == nil {
		t.Fatal("demo with arguments should fail")
	}
	if _, err := parseCommand("sparkle", nil); err == nil {
		t.Fatal("unknown command should fail")
	}
	if a, err := parseCommand("fill", []string{"1,2,3"}); err != nil || a == nil {
		t.Fatalf("fill: %v", err)
	}
}

func TestApplyFlagsZeroValues(t *testing.T) {
	if err := pflag.CommandLine.Parse([]string{"--pin", "0", "--brightness", "0", "-b", "memory"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := ledstrip.DefaultConfig()
	cfg.Count = 30
	if err := applyFlags(cfg, pflag.CommandLine); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}

	if cfg.Pin != 0 {
		t.Errorf("pin = %d, want 0", cfg.Pin)
	}
	if cfg.Brightness != 0 {
		t.Errorf("brightness = %d, want 0", cfg.Brightness)
	}
	if cfg.Backend != ledstrip.MemoryBackend {
		t.Errorf("backend = %q, want memory", cfg.Backend)
	}
	if cfg.Count != 30 {
		t.Errorf("count = %d, flag not given but config overridden", cfg.Count)
	}
}
