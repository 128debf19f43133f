package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	d := mustParse(t, warpedYAML)

	if d.Root != "warped" {
		t.Errorf("Root = %q, want warped", d.Root)
	}
	if got := d.Names(); !reflect.DeepEqual(got, []string{"base", "warped"}) {
		t.Errorf("Names() = %v", got)
	}
	base := d.Nodes["base"]
	if base.Kind != "Perlin" {
		t.Errorf("base kind = %q", base.Kind)
	}
	if v, ok := base.Members["octaves"].(int); !ok || v != 4 {
		t.Errorf("octaves = %#v, want int 4", base.Members["octaves"])
	}
	if v, ok := base.Members["frequency"].(float64); !ok || v != 0.5 {
		t.Errorf("frequency = %#v, want float64 0.5", base.Members["frequency"])
	}
	if v, ok := d.Nodes["warped"].Members["source"].(string); !ok || v != "base" {
		t.Errorf("source = %#v, want string base", d.Nodes["warped"].Members["source"])
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "empty document"},
		{"unknown field", "root: a\nseed: 3\n", "seed"},
		{"bad yaml", "root: [", "graph:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse error = %v, want one containing %q", err, tt.want)
			}
		})
	}
}

func TestParse_NoNodes(t *testing.T) {
	d := mustParse(t, "root: a\n")
	if d.Nodes == nil || d.NodeCount() != 0 {
		t.Errorf("expected empty node map, got %v", d.Nodes)
	}
}

func TestLoadAndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := os.WriteFile(path, []byte(warpedYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	data, err := d.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again := mustParse(t, string(data))
	if !reflect.DeepEqual(d, again) {
		t.Errorf("document changed across Marshal:\n%s", data)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestReferences(t *testing.T) {
	src := `
root: sum
nodes:
  sum: {kind: Add, members: {lhs: a, rhs: b}}
  a: {kind: Constant, members: {value: 1}}
  b: {kind: Constant}
  odd: {kind: Unknown, members: {lhs: a}}
`
	refs := mustParse(t, src).references(testRegistry())
	if got := refs["sum"]; !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("refs[sum] = %v, want [a b]", got)
	}
	if len(refs["a"]) != 0 || len(refs["odd"]) != 0 {
		t.Errorf("unexpected references: %v", refs)
	}
}
