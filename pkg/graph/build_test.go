package graph

import (
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/chazu/noisegraph/pkg/backend/perlin"
	"github.com/chazu/noisegraph/pkg/noise"
)

func newScope(t *testing.T) (*noise.Scope, *perlin.Backend) {
	t.Helper()
	b := perlin.New()
	s := noise.NewLibrary(b).NewScope()
	t.Cleanup(s.Close)
	return s, b
}

func TestBuild_Warped(t *testing.T) {
	s, b := newScope(t)
	root, err := Build(mustParse(t, warpedYAML), s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if root.KindID() != perlin.KindDomainWarp {
		t.Errorf("root kind = %d, want %d", root.KindID(), perlin.KindDomainWarp)
	}
	if s.Len() != 2 || b.Live() != 2 {
		t.Errorf("scope holds %d nodes, engine %d, want 2", s.Len(), b.Live())
	}
	if s.Lookup("base") == nil || s.Lookup("warped") != root {
		t.Errorf("nodes not registered by name: %v", s.Names())
	}

	out := make([]float32, 16)
	r := root.GenUniformGrid2D(out, 0, 0, 4, 4, 0.1, 42)
	if r.IsEmpty() {
		t.Error("generated range is empty")
	}

	s.Close()
	if b.Live() != 0 {
		t.Errorf("engine still holds %d nodes after scope close", b.Live())
	}
}

func TestBuild_MatchesHandBuiltGraph(t *testing.T) {
	src := `
root: sum
nodes:
  sum:
    kind: Add
    members: {lhs: dist, rhs: 0.5}
  dist:
    kind: Distance To Point
    members: {distance function: Manhattan, point x: 1, point y: 1}
`
	s, _ := newScope(t)
	root, err := Build(mustParse(t, src), s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	lib := s.Library()
	dist, err := lib.New("Distance To Point")
	if err != nil {
		t.Fatal(err)
	}
	defer dist.Close()
	sum, err := lib.New("Add")
	if err != nil {
		t.Fatal(err)
	}
	defer sum.Close()
	for _, e := range []error{
		dist.SetEnum("distancefunction", "manhattan"),
		dist.SetFloat("pointx", 1),
		dist.SetFloat("pointy", 1),
		sum.SetNode("lhs", dist),
		sum.SetFloat("rhs", 0.5),
	} {
		if e != nil {
			t.Fatal(e)
		}
	}

	got := root.GenSingle2D(3, 4, 0)
	want := sum.GenSingle2D(3, 4, 0)
	if got != want || math.Abs(float64(got)-5.5) > 1e-5 {
		t.Errorf("built graph = %v, hand-built = %v, want 5.5", got, want)
	}
}

func TestBuild_ValidationErrors(t *testing.T) {
	src := `
root: a
nodes:
  a: {kind: Perlin, members: {amplitude: 1, octaves: 1.5}}
`
	s, b := newScope(t)
	root, err := Build(mustParse(t, src), s)
	if root != nil || err == nil {
		t.Fatalf("Build = %v, %v; want validation failure", root, err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("got %d combined errors, want 2: %v", n, err)
	}
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Node != "a" {
		t.Errorf("expected a ValidationError for node a, got %v", err)
	}
	if b.Live() != 0 {
		t.Errorf("validation failure created %d nodes", b.Live())
	}
}

func TestBuild_EngineRejections(t *testing.T) {
	src := `
root: a
nodes:
  a: {kind: Perlin, members: {octaves: 99, frequency: 2}}
  b: {kind: Fractal FBm, members: {source: a, octaves: 0}}
`
	s, _ := newScope(t)
	_, err := Build(mustParse(t, src), s)
	if !errors.Is(err, noise.ErrEngineRejected) {
		t.Fatalf("expected engine rejection, got %v", err)
	}
	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d combined errors, want 2: %v", len(errs), err)
	}
	if !strings.HasPrefix(errs[0].Error(), "node a:") || !strings.HasPrefix(errs[1].Error(), "node b:") {
		t.Errorf("errors not reported in node order: %v", errs)
	}
	if s.Len() != 2 {
		t.Errorf("scope holds %d nodes, want 2", s.Len())
	}
}
