package graph

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/chazu/noisegraph/pkg/meta"
	"github.com/chazu/noisegraph/pkg/noise"
)

// Build validates d against the scope's registry, creates every node in s
// under its document name, assigns members, and returns the root.
//
// Nodes are created in name order, then members are assigned per node in
// name order. Every failed assignment is reported, combined into one
// error. Whatever was created stays owned by s, even on error.
func Build(d *Document, s *noise.Scope) (*noise.Node, error) {
	reg := s.Library().Registry()
	if errs := Errors(Validate(d, reg)); len(errs) > 0 {
		var err error
		for _, e := range errs {
			err = multierr.Append(err, e)
		}
		return nil, err
	}

	for _, name := range d.Names() {
		n, err := s.New(d.Nodes[name].Kind)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", name, err)
		}
		s.Name(name, n)
	}

	var err error
	for _, name := range d.Names() {
		n := s.MustLookup(name)
		spec := d.Nodes[name]
		for _, mname := range sortedMembers(spec) {
			m, _ := n.Kind().Member(mname)
			if serr := n.Set(mname, coerce(m, spec.Members[mname], s)); serr != nil {
				err = multierr.Append(err, fmt.Errorf("node %s: %w", name, serr))
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return s.MustLookup(d.Root), nil
}

// coerce converts a YAML value into what noise.Node.Set expects for m:
// node names become nodes and integers on scalar members become floats.
func coerce(m *meta.Member, v any, s *noise.Scope) any {
	if name, ok := v.(string); ok && m.Type.AcceptsNode() {
		return s.MustLookup(name)
	}
	if i, ok := v.(int); ok && m.Type.AcceptsFloat() {
		return float64(i)
	}
	return v
}
