//go:build !fastnoise

// Package fastnoise provides a CGo binding to the FastNoise2 C API.
// When the "fastnoise" build tag is not set, this stub package is
// compiled instead, returning an error from New().
//
// Build with: go build -tags=fastnoise
package fastnoise

import (
	"errors"

	"github.com/chazu/noisegraph/pkg/backend"
)

// ErrUnavailable is returned by New in builds without the fastnoise tag.
var ErrUnavailable = errors.New("fastnoise backend not available: build with -tags=fastnoise")

// New returns an error indicating FastNoise2 is not available.
// Build with -tags=fastnoise to enable.
func New() (backend.Backend, error) {
	return nil, ErrUnavailable
}
