package meta

import (
	"fmt"
	"sort"
)

// MemberType enumerates the shapes of value a member accepts.
type MemberType int

const (
	MemberFloat      MemberType = iota // floating-point scalar
	MemberInt                          // integer code
	MemberEnum                         // named choice from an enum table
	MemberNodeLookup                   // reference to another node
	MemberHybrid                       // scalar or reference to another node
)

func (t MemberType) String() string {
	switch t {
	case MemberFloat:
		return "float"
	case MemberInt:
		return "int"
	case MemberEnum:
		return "enum"
	case MemberNodeLookup:
		return "node"
	case MemberHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("MemberType(%d)", int(t))
	}
}

// AcceptsFloat reports whether a scalar assignment is valid for t.
func (t MemberType) AcceptsFloat() bool {
	return t == MemberFloat || t == MemberHybrid
}

// AcceptsNode reports whether a node-reference assignment is valid for t.
func (t MemberType) AcceptsNode() bool {
	return t == MemberNodeLookup || t == MemberHybrid
}

// list returns which engine index space a member type belongs to.
func (t MemberType) list() int {
	switch t {
	case MemberNodeLookup:
		return 1
	case MemberHybrid:
		return 2
	default:
		return 0
	}
}

// Member describes one configurable slot on a node kind.
// Index is the position within the member's own engine list: variables,
// node lookups, and hybrids are numbered independently.
type Member struct {
	Name  string
	Type  MemberType
	Index int

	enums map[string]int // nil unless Type == MemberEnum
}

func newMember(name string, typ MemberType, index int) *Member {
	return &Member{Name: name, Type: typ, Index: index}
}

func newEnumMember(name string, index int, values []string) *Member {
	m := newMember(name, MemberEnum, index)
	m.enums = make(map[string]int, len(values))
	for i, v := range values {
		m.enums[Normalize(v)] = i
	}
	return m
}

// EnumIndex resolves an enum-value name to its engine index. The name is
// normalized first. It returns false for unknown values and for members
// that are not enums.
func (m *Member) EnumIndex(value string) (int, bool) {
	if m.enums == nil {
		return 0, false
	}
	idx, ok := m.enums[Normalize(value)]
	return idx, ok
}

// EnumNames returns the normalized enum-value names ordered by index.
func (m *Member) EnumNames() []string {
	if m.enums == nil {
		return nil
	}
	names := make([]string, 0, len(m.enums))
	for n := range m.enums {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return m.enums[names[i]] < m.enums[names[j]] })
	return names
}
