package meta

import "sort"

// NodeKind describes one node kind: its engine id, normalized name, and
// members keyed by normalized (and dimension-suffixed) name.
type NodeKind struct {
	ID   int
	Name string

	members map[string]*Member
}

// Member returns the member with the given name. The name is normalized
// before lookup.
func (k *NodeKind) Member(name string) (*Member, bool) {
	m, ok := k.members[Normalize(name)]
	return m, ok
}

// Members returns all members in engine order: variables, node lookups,
// then hybrids, each list by index.
func (k *NodeKind) Members() []*Member {
	out := make([]*Member, 0, len(k.members))
	for _, m := range k.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if gi, gj := out[i].Type.list(), out[j].Type.list(); gi != gj {
			return gi < gj
		}
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// MemberCount returns the number of named members.
func (k *NodeKind) MemberCount() int {
	return len(k.members)
}
