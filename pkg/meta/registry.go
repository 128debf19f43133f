package meta

import "github.com/chazu/noisegraph/pkg/backend"

// Registry is the immutable index built from an engine's schema. It is safe
// for concurrent reads once Build has returned.
type Registry struct {
	kinds  []*NodeKind
	byName map[string]int
}

// Build queries s for every node kind and member and indexes them.
// Members are inserted in engine order (variables, node lookups, hybrids);
// a later member with a colliding normalized name replaces the earlier one.
func Build(s backend.Schema) *Registry {
	count := s.KindCount()
	r := &Registry{
		kinds:  make([]*NodeKind, count),
		byName: make(map[string]int, count),
	}

	for id := 0; id < count; id++ {
		name := Normalize(s.KindName(id))
		r.byName[name] = id

		varCount := s.VariableCount(id)
		lookupCount := s.NodeLookupCount(id)
		hybridCount := s.HybridCount(id)

		k := &NodeKind{
			ID:      id,
			Name:    name,
			members: make(map[string]*Member, varCount+lookupCount+hybridCount),
		}

		for i := 0; i < varCount; i++ {
			mname := withDimension(Normalize(s.VariableName(id, i)), s.VariableDimension(id, i))
			switch s.VariableType(id, i) {
			case backend.VariableEnum:
				n := s.EnumCount(id, i)
				values := make([]string, n)
				for e := 0; e < n; e++ {
					values[e] = s.EnumName(id, i, e)
				}
				k.members[mname] = newEnumMember(mname, i, values)
			case backend.VariableInt:
				k.members[mname] = newMember(mname, MemberInt, i)
			default:
				k.members[mname] = newMember(mname, MemberFloat, i)
			}
		}

		for i := 0; i < lookupCount; i++ {
			mname := withDimension(Normalize(s.NodeLookupName(id, i)), s.NodeLookupDimension(id, i))
			k.members[mname] = newMember(mname, MemberNodeLookup, i)
		}

		for i := 0; i < hybridCount; i++ {
			mname := withDimension(Normalize(s.HybridName(id, i)), s.HybridDimension(id, i))
			k.members[mname] = newMember(mname, MemberHybrid, i)
		}

		r.kinds[id] = k
	}
	return r
}

// ResolveKindID returns the id of the kind with the given name.
func (r *Registry) ResolveKindID(name string) (int, bool) {
	id, ok := r.byName[Normalize(name)]
	return id, ok
}

// ResolveMember returns the named member of the kind with the given id.
func (r *Registry) ResolveMember(kindID int, name string) (*Member, bool) {
	k := r.Kind(kindID)
	if k == nil {
		return nil, false
	}
	return k.Member(name)
}

// Kind returns the kind with the given id, or nil if out of range.
func (r *Registry) Kind(id int) *NodeKind {
	if id < 0 || id >= len(r.kinds) {
		return nil
	}
	return r.kinds[id]
}

// Lookup returns the kind with the given name, or nil.
func (r *Registry) Lookup(name string) *NodeKind {
	id, ok := r.ResolveKindID(name)
	if !ok {
		return nil
	}
	return r.kinds[id]
}

// Kinds returns every kind ordered by id. The slice is a copy; the
// descriptors are shared and must not be modified.
func (r *Registry) Kinds() []*NodeKind {
	out := make([]*NodeKind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

// KindCount returns the number of registered kinds.
func (r *Registry) KindCount() int {
	return len(r.kinds)
}

// MemberCount returns the number of members across all kinds.
func (r *Registry) MemberCount() int {
	n := 0
	for _, k := range r.kinds {
		n += k.MemberCount()
	}
	return n
}
