// Package graph reads declarative noise graphs from YAML and builds them
// into live nodes. A document names each node, gives its kind and its
// member values, and picks a root:
//
//	root: warped
//	nodes:
//	  base:
//	    kind: Perlin
//	    members: {frequency: 0.5, octaves: 4}
//	  warped:
//	    kind: Domain Warp
//	    members: {source: base, warp: 2.0}
//
// String values on reference and hybrid members name other nodes in the
// same document. Validation is read-only and needs only a metadata
// registry; Build creates nodes in a noise.Scope.
package graph
