package graph

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/chazu/noisegraph/pkg/meta"
)

// Document is a named set of node definitions with one root.
type Document struct {
	Root  string               `yaml:"root"`
	Nodes map[string]*NodeSpec `yaml:"nodes"`
}

// NodeSpec defines one node. Member values are YAML scalars: numbers,
// enum-value names, or the names of other nodes.
type NodeSpec struct {
	Kind    string         `yaml:"kind"`
	Members map[string]any `yaml:"members,omitempty"`
}

// Parse decodes a YAML document. Unknown fields are an error.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("graph: empty document")
		}
		return nil, fmt.Errorf("graph: %w", err)
	}
	if doc.Nodes == nil {
		doc.Nodes = make(map[string]*NodeSpec)
	}
	return &doc, nil
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes d as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}

// Names returns the node names in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Nodes))
	for name := range d.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeCount returns the number of defined nodes.
func (d *Document) NodeCount() int {
	return len(d.Nodes)
}

// sortedMembers returns the member names of spec in sorted order.
func sortedMembers(spec *NodeSpec) []string {
	names := make([]string, 0, len(spec.Members))
	for name := range spec.Members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// references returns, per node, the names of the nodes it points at.
// Only string values on members that accept nodes count; nodes of
// unknown kinds have no references.
func (d *Document) references(reg *meta.Registry) map[string][]string {
	refs := make(map[string][]string, len(d.Nodes))
	for _, name := range d.Names() {
		spec := d.Nodes[name]
		if spec == nil {
			continue
		}
		kind := reg.Lookup(spec.Kind)
		if kind == nil {
			continue
		}
		for _, mname := range sortedMembers(spec) {
			m, ok := kind.Member(mname)
			if !ok || !m.Type.AcceptsNode() {
				continue
			}
			if target, ok := spec.Members[mname].(string); ok {
				refs[name] = append(refs[name], target)
			}
		}
	}
	return refs
}
