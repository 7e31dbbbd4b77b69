//go:build !pi

package rpi

import (
	"log/slog"
	"testing"

	"github.com/pkg/errors"
)

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(Options{Count: 8, Pin: 18}, slog.New(slog.DiscardHandler))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestOpenValidates(t *testing.T) {
	_, err := Open(Options{Count: 8, Channel: 2}, slog.New(slog.DiscardHandler))
	if err == nil || errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}
