package graph

import (
	"fmt"
	"math"

	"github.com/chazu/noisegraph/pkg/meta"
)

// ValidationSeverity indicates whether a validation finding blocks a build
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks Build
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Node     string             // which node has the problem (empty if document-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.Node, e.Message)
}

// Errors returns only the error-severity findings in errs.
func Errors(errs []ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e.Severity == SeverityError {
			out = append(out, e)
		}
	}
	return out
}

// Validate checks d against reg without creating any nodes. An empty
// result means d builds. Reference cycles and unreachable nodes are
// warnings: the engine decides what a cyclic graph evaluates to.
func Validate(d *Document, reg *meta.Registry) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoot(d)...)
	errs = append(errs, validateNodes(d, reg)...)
	refs := d.references(reg)
	errs = append(errs, validateReachable(d, refs)...)
	errs = append(errs, validateCycles(d, refs)...)
	return errs
}

// validateRoot checks that the root is named and defined.
func validateRoot(d *Document) []ValidationError {
	if d.Root == "" {
		return []ValidationError{{
			Message:  "no root node named",
			Severity: SeverityError,
		}}
	}
	if _, ok := d.Nodes[d.Root]; !ok {
		return []ValidationError{{
			Message:  fmt.Sprintf("root %q is not defined", d.Root),
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateNodes checks each node's kind and every member value against
// the member's declared type.
func validateNodes(d *Document, reg *meta.Registry) []ValidationError {
	var errs []ValidationError

	for _, name := range d.Names() {
		spec := d.Nodes[name]
		if spec == nil || spec.Kind == "" {
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  "no kind given",
				Severity: SeverityError,
			})
			continue
		}
		kind := reg.Lookup(spec.Kind)
		if kind == nil {
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  fmt.Sprintf("unknown kind %q", spec.Kind),
				Severity: SeverityError,
			})
			continue
		}

		for _, mname := range sortedMembers(spec) {
			m, ok := kind.Member(mname)
			if !ok {
				errs = append(errs, ValidationError{
					Node:     name,
					Message:  fmt.Sprintf("kind %s has no member %q", kind.Name, mname),
					Severity: SeverityError,
				})
				continue
			}
			if msg := checkValue(d, m, spec.Members[mname]); msg != "" {
				errs = append(errs, ValidationError{
					Node:     name,
					Message:  fmt.Sprintf("member %s: %s", mname, msg),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// checkValue returns a description of what is wrong with v as a value
// for m, or "" if it is acceptable.
func checkValue(d *Document, m *meta.Member, v any) string {
	switch m.Type {
	case meta.MemberFloat:
		if !isNumber(v) {
			return fmt.Sprintf("expected number, got %s", describe(v))
		}
	case meta.MemberInt:
		i, ok := v.(int)
		if !ok {
			return fmt.Sprintf("expected integer, got %s", describe(v))
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return fmt.Sprintf("integer %d out of range", i)
		}
	case meta.MemberEnum:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("expected one of %v, got %s", m.EnumNames(), describe(v))
		}
		if _, ok := m.EnumIndex(s); !ok {
			return fmt.Sprintf("unknown value %q, expected one of %v", s, m.EnumNames())
		}
	case meta.MemberNodeLookup:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("expected node name, got %s", describe(v))
		}
		if _, ok := d.Nodes[s]; !ok {
			return fmt.Sprintf("reference to undefined node %q", s)
		}
	case meta.MemberHybrid:
		if isNumber(v) {
			return ""
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("expected number or node name, got %s", describe(v))
		}
		if _, ok := d.Nodes[s]; !ok {
			return fmt.Sprintf("reference to undefined node %q", s)
		}
	}
	return ""
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, float64:
		return true
	}
	return false
}

func describe(v any) string {
	if v == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T %v", v, v)
}

// validateReachable warns about nodes the root never references.
func validateReachable(d *Document, refs map[string][]string) []ValidationError {
	if _, ok := d.Nodes[d.Root]; !ok {
		return nil
	}

	reachable := map[string]bool{d.Root: true}
	queue := []string{d.Root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range refs[current] {
			if _, ok := d.Nodes[next]; ok && !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}

	var errs []ValidationError
	for _, name := range d.Names() {
		if !reachable[name] {
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  fmt.Sprintf("not reachable from root %q", d.Root),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateCycles looks for reference cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) = fully explored.
func validateCycles(d *Document, refs map[string][]string) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var errs []ValidationError

	var visit func(name string) bool // returns true if cycle found
	visit = func(name string) bool {
		switch color[name] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Node:     name,
				Message:  "part of a reference cycle",
				Severity: SeverityWarning,
			})
			return true
		}

		color[name] = gray
		for _, next := range refs[name] {
			if _, ok := d.Nodes[next]; !ok {
				continue
			}
			if visit(next) {
				return true
			}
		}
		color[name] = black
		return false
	}

	for _, name := range d.Names() {
		if color[name] == white && visit(name) {
			// One cycle warning is sufficient.
			break
		}
	}
	return errs
}
