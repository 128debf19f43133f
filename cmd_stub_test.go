//go:build !fastnoise

package main

import (
	"errors"
	"testing"

	"github.com/chazu/noisegraph/pkg/backend/fastnoise"
)

func TestCLIFastNoiseUnavailable(t *testing.T) {
	_, err := run(t, "--backend", "fastnoise", "kinds")
	if !errors.Is(err, fastnoise.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
