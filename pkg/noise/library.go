// Package noise is the typed front end over a noise engine. A Library
// owns the engine's metadata registry; Nodes created from it validate
// every member assignment against that registry before the engine sees
// it.
//
//	lib := noise.NewLibrary(perlin.New())
//	n, err := lib.New("Perlin")
//	if err != nil { ... }
//	defer n.Close()
//	err = n.SetFloat("frequency", 0.5)
package noise

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chazu/noisegraph/pkg/backend"
	"github.com/chazu/noisegraph/pkg/meta"
)

// Option configures a Library.
type Option func(*Library)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(l *Library) {
		l.log = log
	}
}

// WithSIMDLevel sets the SIMD level requested for new nodes. 0 lets the
// engine choose.
func WithSIMDLevel(level uint) Option {
	return func(l *Library) {
		l.simd = level
	}
}

// Library binds a backend to its metadata registry. The registry is built
// once, on first use, and is read-only afterwards; a Library is safe for
// concurrent use.
type Library struct {
	b    backend.Backend
	log  *zap.Logger
	simd uint

	once sync.Once
	reg  *meta.Registry
}

// NewLibrary returns a Library over b.
func NewLibrary(b backend.Backend, opts ...Option) *Library {
	l := &Library{b: b, log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the metadata registry, building it on the first call.
func (l *Library) Registry() *meta.Registry {
	l.once.Do(func() {
		l.reg = meta.Build(l.b)
		l.log.Debug("metadata registry built",
			zap.Int("kinds", l.reg.KindCount()),
			zap.Int("members", l.reg.MemberCount()))
	})
	return l.reg
}

// Backend returns the engine behind l.
func (l *Library) Backend() backend.Backend {
	return l.b
}

// New creates a node of the named kind. The name is normalized, so
// "Domain Warp" and "domainwarp" are the same kind.
func (l *Library) New(kind string) (*Node, error) {
	id, ok := l.Registry().ResolveKindID(kind)
	if !ok {
		return nil, fmt.Errorf("new node %q: %w", kind, ErrUnknownKind)
	}
	h := l.b.NewFromKind(id, l.simd)
	if h.IsNil() {
		return nil, fmt.Errorf("new node %q: %w", kind, ErrEngineRejected)
	}
	return &Node{lib: l, h: h, kind: id}, nil
}

// FromEncodedNodeTree decodes an engine-specific encoded node tree. It
// returns false, and creates nothing, when the engine cannot decode it.
// The root's kind is read back from the engine.
func (l *Library) FromEncodedNodeTree(encoded string) (*Node, bool) {
	reg := l.Registry()
	h := l.b.NewFromEncodedNodeTree(encoded, l.simd)
	if h.IsNil() {
		l.log.Debug("encoded node tree rejected", zap.Int("length", len(encoded)))
		return nil, false
	}
	id := l.b.KindID(h)
	if reg.Kind(id) == nil {
		l.log.Debug("decoded node has unregistered kind", zap.Int("kind_id", id))
		l.b.Delete(h)
		return nil, false
	}
	return &Node{lib: l, h: h, kind: id}, true
}

// Decode is FromEncodedNodeTree with ErrDecodeFailed in place of false.
func (l *Library) Decode(encoded string) (*Node, error) {
	n, ok := l.FromEncodedNodeTree(encoded)
	if !ok {
		return nil, ErrDecodeFailed
	}
	return n, nil
}
