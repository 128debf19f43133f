package noise

import (
	"fmt"
	"sort"
)

// Scope owns a set of nodes and releases them together. Nodes can be
// given names for later lookup. Close releases nodes in reverse creation
// order, so later nodes, which may reference earlier ones, go first.
type Scope struct {
	lib   *Library
	nodes []*Node
	names map[string]*Node
}

// NewScope returns an empty scope creating nodes from l.
func (l *Library) NewScope() *Scope {
	return &Scope{lib: l, names: make(map[string]*Node)}
}

// Library returns the library the scope creates nodes from.
func (s *Scope) Library() *Library {
	return s.lib
}

// New creates a node of the named kind owned by s.
func (s *Scope) New(kind string) (*Node, error) {
	n, err := s.lib.New(kind)
	if err != nil {
		return nil, err
	}
	s.nodes = append(s.nodes, n)
	return n, nil
}

// Decode decodes an encoded node tree owned by s.
func (s *Scope) Decode(encoded string) (*Node, bool) {
	n, ok := s.lib.FromEncodedNodeTree(encoded)
	if ok {
		s.nodes = append(s.nodes, n)
	}
	return n, ok
}

// Adopt transfers ownership of n to s.
func (s *Scope) Adopt(n *Node) {
	s.nodes = append(s.nodes, n)
}

// Name registers n under name. It does not check for duplicates; a later
// name replaces an earlier one.
func (s *Scope) Name(name string, n *Node) {
	s.names[name] = n
}

// Lookup returns the node registered under name, or nil.
func (s *Scope) Lookup(name string) *Node {
	return s.names[name]
}

// MustLookup returns the node registered under name, or panics.
func (s *Scope) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("noise: no node named %q", name))
	}
	return n
}

// Names returns the registered names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of nodes owned by s.
func (s *Scope) Len() int {
	return len(s.nodes)
}

// Close releases every owned node. The scope is empty afterwards and can
// be reused.
func (s *Scope) Close() {
	for i := len(s.nodes) - 1; i >= 0; i-- {
		s.nodes[i].Close()
	}
	s.nodes = nil
	s.names = make(map[string]*Node)
}
