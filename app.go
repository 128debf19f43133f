package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/noisegraph/pkg/backend"
	"github.com/chazu/noisegraph/pkg/backend/fastnoise"
	"github.com/chazu/noisegraph/pkg/backend/perlin"
	"github.com/chazu/noisegraph/pkg/config"
	"github.com/chazu/noisegraph/pkg/graph"
	"github.com/chazu/noisegraph/pkg/noise"
	"github.com/chazu/noisegraph/pkg/preview"
)

// App ties a configured engine to the commands. Every command opens its
// source into a fresh scope and releases it before returning.
type App struct {
	cfg *config.Config
	log *zap.Logger
	lib *noise.Library
}

// MemberData describes one member for listing.
type MemberData struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Index int      `json:"index"`
	Enum  []string `json:"enum,omitempty"`
}

// KindData describes one node kind for listing.
type KindData struct {
	ID      int          `json:"id"`
	Name    string       `json:"name"`
	Members []MemberData `json:"members"`
}

// FindingData is a validation finding or failure.
type FindingData struct {
	Node    string `json:"node,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the outcome of opening and sampling a source.
type EvalResult struct {
	Kind     string        `json:"kind"`
	Nodes    int           `json:"nodes"`
	Min      float32       `json:"min"`
	Max      float32       `json:"max"`
	Errors   []FindingData `json:"errors"`
	Warnings []FindingData `json:"warnings"`
}

// newLogger returns a development logger when debug is set and a
// production logger otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stderr"}
		logger, err = z.Build()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// openBackend returns the engine named by the configuration.
func openBackend(name string) (backend.Backend, error) {
	switch name {
	case config.BackendPerlin:
		return perlin.New(), nil
	case config.BackendFastNoise:
		return fastnoise.New()
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// NewApp creates an App for cfg.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	b, err := openBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	log.Debug("backend opened", zap.String("backend", cfg.Backend), zap.Uint("simd_level", cfg.SIMDLevel))
	return &App{
		cfg: cfg,
		log: log,
		lib: noise.NewLibrary(b, noise.WithLogger(log), noise.WithSIMDLevel(cfg.SIMDLevel)),
	}, nil
}

// Kinds lists every registered kind.
func (a *App) Kinds() []KindData {
	kinds := a.lib.Registry().Kinds()
	out := make([]KindData, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, kindData(k.ID, a.lib))
	}
	return out
}

// Describe returns the named kind.
func (a *App) Describe(name string) (KindData, error) {
	id, ok := a.lib.Registry().ResolveKindID(name)
	if !ok {
		return KindData{}, fmt.Errorf("%q: %w", name, noise.ErrUnknownKind)
	}
	return kindData(id, a.lib), nil
}

func kindData(id int, lib *noise.Library) KindData {
	k := lib.Registry().Kind(id)
	kd := KindData{ID: k.ID, Name: k.Name, Members: []MemberData{}}
	for _, m := range k.Members() {
		kd.Members = append(kd.Members, MemberData{
			Name:  m.Name,
			Type:  m.Type.String(),
			Index: m.Index,
			Enum:  m.EnumNames(),
		})
	}
	return kd
}

// isEncodedTree reports whether source is an encoded node tree rather
// than a YAML graph document.
func isEncodedTree(source string) bool {
	s := strings.TrimSpace(source)
	return strings.HasPrefix(s, "(") || strings.HasPrefix(s, ";")
}

// open builds source into s and returns its root. Validation findings
// are returned alongside; an error means there is no root.
func (a *App) open(source string, s *noise.Scope) (*noise.Node, []graph.ValidationError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil, errors.New("empty source")
	}
	if isEncodedTree(source) {
		n, ok := s.Decode(source)
		if !ok {
			return nil, nil, noise.ErrDecodeFailed
		}
		return n, nil, nil
	}

	doc, err := graph.Parse([]byte(source))
	if err != nil {
		return nil, nil, err
	}
	findings := graph.Validate(doc, a.lib.Registry())
	if len(graph.Errors(findings)) > 0 {
		return nil, findings, errors.New("graph is invalid")
	}
	root, err := graph.Build(doc, s)
	return root, findings, err
}

// Evaluate opens source and samples it over the configured preview grid.
// Failures are reported in the result rather than returned.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Errors:   []FindingData{},
		Warnings: []FindingData{},
	}

	s := a.lib.NewScope()
	defer s.Close()

	root, findings, err := a.open(source, s)
	for _, f := range findings {
		fd := FindingData{Node: f.Node, Message: f.Message}
		if f.Severity == graph.SeverityWarning {
			result.Warnings = append(result.Warnings, fd)
		} else {
			result.Errors = append(result.Errors, fd)
		}
	}
	if err != nil {
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, FindingData{Message: err.Error()})
		}
		a.log.Debug("evaluate failed", zap.Error(err))
		return result
	}

	im, err := preview.Render(root, a.previewOptions(false))
	if err != nil {
		result.Errors = append(result.Errors, FindingData{Message: err.Error()})
		return result
	}
	result.Kind = root.String()
	result.Nodes = s.Len()
	result.Min, result.Max = im.Range.Min, im.Range.Max
	return result
}

func (a *App) previewOptions(tileable bool) preview.Options {
	return preview.Options{
		Size:      a.cfg.Preview.Size,
		Frequency: a.cfg.Preview.Frequency,
		Seed:      a.cfg.Preview.Seed,
		Tileable:  tileable,
	}
}

// GridRequest selects a uniform grid. Sizes beyond Dims are ignored.
type GridRequest struct {
	Dims      int
	Start     [4]int
	Size      [4]int
	Frequency float32
	Seed      int32
}

// Grid opens source and generates a uniform grid from its root.
func (a *App) Grid(source string, req GridRequest) ([]float32, noise.Range, error) {
	s := a.lib.NewScope()
	defer s.Close()

	root, _, err := a.open(source, s)
	if err != nil {
		return nil, noise.EmptyRange(), err
	}

	st, sz := req.Start, req.Size
	switch req.Dims {
	case 2:
		out := make([]float32, sz[0]*sz[1])
		return out, root.GenUniformGrid2D(out, st[0], st[1], sz[0], sz[1], req.Frequency, req.Seed), nil
	case 3:
		out := make([]float32, sz[0]*sz[1]*sz[2])
		return out, root.GenUniformGrid3D(out, st[0], st[1], st[2], sz[0], sz[1], sz[2], req.Frequency, req.Seed), nil
	case 4:
		out := make([]float32, sz[0]*sz[1]*sz[2]*sz[3])
		return out, root.GenUniformGrid4D(out, st[0], st[1], st[2], st[3], sz[0], sz[1], sz[2], sz[3], req.Frequency, req.Seed), nil
	}
	return nil, noise.EmptyRange(), fmt.Errorf("unsupported dimension count %d", req.Dims)
}

// Single opens source and evaluates its root at one point. The number of
// coordinates selects 2D, 3D or 4D.
func (a *App) Single(source string, coords []float32, seed int32) (float32, error) {
	s := a.lib.NewScope()
	defer s.Close()

	root, _, err := a.open(source, s)
	if err != nil {
		return 0, err
	}
	switch len(coords) {
	case 2:
		return root.GenSingle2D(coords[0], coords[1], seed), nil
	case 3:
		return root.GenSingle3D(coords[0], coords[1], coords[2], seed), nil
	case 4:
		return root.GenSingle4D(coords[0], coords[1], coords[2], coords[3], seed), nil
	}
	return 0, fmt.Errorf("expected 2 to 4 coordinates, got %d", len(coords))
}

// Preview renders source as a PNG to w. When height is positive, a
// heightfield of the same samples scaled to height is returned too.
func (a *App) Preview(source string, w io.Writer, tileable bool, height float32) (*preview.Mesh, error) {
	s := a.lib.NewScope()
	defer s.Close()

	root, _, err := a.open(source, s)
	if err != nil {
		return nil, err
	}
	im, err := preview.Render(root, a.previewOptions(tileable))
	if err != nil {
		return nil, err
	}
	if err := im.WritePNG(w); err != nil {
		return nil, err
	}
	a.log.Debug("preview rendered",
		zap.Int("size", im.Width),
		zap.Float32("min", im.Range.Min),
		zap.Float32("max", im.Range.Max))
	if height <= 0 {
		return nil, nil
	}
	return preview.Heightfield(im, height), nil
}
