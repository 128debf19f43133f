package perlin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/noisegraph/pkg/backend"
)

// An encoded node tree is an s-expression:
//
//	(node "Domain Warp"
//	  :source (node "Perlin" :frequency 0.5 :octaves 4)
//	  :warp 2.5)
//
// Keywords name members (case, spaces, hyphens and underscores are
// ignored; per-axis members take an x/y/z/w suffix). Values are numbers,
// enum-value strings, or nested node forms. The value of the last form is
// the root. Nodes created while decoding are owned by the root.

var errAbandoned = errors.New("decode abandoned")

// NewFromEncodedNodeTree decodes encoded into a node tree and returns its
// root, or the nil handle if decoding fails for any reason. A failed
// decode releases every node it created.
func (b *Backend) NewFromEncodedNodeTree(encoded string, simdLevel uint) backend.Handle {
	d := &decoder{b: b, simd: simdLevel}
	ch := make(chan decodeResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- decodeResult{err: fmt.Errorf("panic during decode: %v", r)}
			}
		}()
		root, err := d.run(encoded)
		ch <- decodeResult{root: root, err: err}
	}()

	root, err := waitWithTimeout(ch)
	if err != nil {
		d.abandon()
		return backend.NilHandle
	}
	d.finish(root)
	return root
}

// decoder builds one tree. Handles it creates are tracked so that a
// failed or timed-out decode can release them.
type decoder struct {
	b    *Backend
	simd uint

	mu        sync.Mutex
	created   []backend.Handle
	abandoned bool
}

func (d *decoder) create(kind int) (backend.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.abandoned {
		return backend.NilHandle, errAbandoned
	}
	h := d.b.NewFromKind(kind, d.simd)
	d.created = append(d.created, h)
	return h, nil
}

// abandon releases everything created so far and makes later creates fail.
func (d *decoder) abandon() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.abandoned = true
	for _, h := range d.created {
		d.b.Delete(h)
	}
	d.created = nil
}

// finish hands every non-root node to the root.
func (d *decoder) finish(root backend.Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	in := d.b.get(root)
	for _, h := range d.created {
		if h != root {
			in.owned = append(in.owned, h)
		}
	}
	d.created = nil
}

func (d *decoder) run(encoded string) (backend.Handle, error) {
	if strings.TrimSpace(encoded) == "" {
		return backend.NilHandle, errors.New("empty node tree")
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	d.registerBuiltins(env)

	if err := env.LoadString(preprocessSource(encoded)); err != nil {
		return backend.NilHandle, err
	}
	res, err := env.Run()
	if err != nil {
		return backend.NilHandle, err
	}
	n, ok := res.(*sexpNode)
	if !ok {
		return backend.NilHandle, fmt.Errorf("node tree evaluated to %T, not a node", res)
	}
	return n.h, nil
}

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites :keyword tokens into "__kw_keyword" string
// literals and ; line comments into // comments, leaving string literals
// untouched. zygomys has no keyword type of its own.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			result = append(result, '"')
			result = append(result, kwPrefix...)
			result = append(result, b[i+1:j]...)
			result = append(result, '"')
			i = j
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// ---------------------------------------------------------------------------
// Sexp values
// ---------------------------------------------------------------------------

// sexpNode carries a decoded node handle between builtins.
type sexpNode struct {
	h    backend.Handle
	kind int
}

func (n *sexpNode) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(node %q)", kinds[n.kind].name)
}
func (n *sexpNode) Type() *zygo.RegisteredType { return nil }

// kwArgs holds a mixed positional and keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) (kwArgs, error) {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		str, ok := args[i].(*zygo.SexpStr)
		if !ok || !strings.HasPrefix(str.S, kwPrefix) {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 >= len(args) {
			return result, fmt.Errorf("keyword :%s has no value", str.S[len(kwPrefix):])
		}
		result.kw[str.S[len(kwPrefix):]] = args[i+1]
		i++
	}
	return result, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T", s)
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T", s)
}

// ---------------------------------------------------------------------------
// Name matching
// ---------------------------------------------------------------------------

var axisLetters = [...]string{"x", "y", "z", "w"}

// matchKey folds a name for comparison with keywords.
func matchKey(name string, dim int) string {
	k := strings.ToLower(name)
	for _, c := range []string{" ", "-", "_"} {
		k = strings.ReplaceAll(k, c, "")
	}
	if dim >= 0 && dim < len(axisLetters) {
		k += axisLetters[dim]
	}
	return k
}

func kindByName(name string) (int, bool) {
	key := matchKey(name, backend.NoDimension)
	for id := range kinds {
		if matchKey(kinds[id].name, backend.NoDimension) == key {
			return id, true
		}
	}
	return 0, false
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// registerBuiltins installs the node constructor into env.
func (d *decoder) registerBuiltins(env *zygo.Zlisp) {
	// (node "Kind" :member value ...)
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa, err := parseArgs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: %w", err)
		}
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("node: expected one kind name, got %d positional arguments", len(pa.positional))
		}
		kindName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: kind: %w", err)
		}
		kind, ok := kindByName(kindName)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("node: unknown kind %q", kindName)
		}
		h, err := d.create(kind)
		if err != nil {
			return zygo.SexpNull, err
		}

		keys := make([]string, 0, len(pa.kw))
		for k := range pa.kw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := d.assign(h, kind, k, pa.kw[k]); err != nil {
				return zygo.SexpNull, fmt.Errorf("node %q: %s: %w", kindName, k, err)
			}
		}
		return &sexpNode{h: h, kind: kind}, nil
	})
}

// assign sets the member of h matching keyword key to v.
func (d *decoder) assign(h backend.Handle, kind int, key string, v zygo.Sexp) error {
	key = matchKey(key, backend.NoDimension)
	def := &kinds[kind]

	for i, vr := range def.vars {
		if matchKey(vr.name, vr.dim) != key {
			continue
		}
		switch vr.typ {
		case backend.VariableFloat:
			f, err := toFloat64(v)
			if err != nil {
				return err
			}
			return accepted(d.b.SetVariableFloat(h, i, float32(f)))
		case backend.VariableInt:
			n, ok := v.(*zygo.SexpInt)
			if !ok {
				return fmt.Errorf("expected integer, got %T", v)
			}
			return accepted(d.b.SetVariableIntEnum(h, i, int32(n.Val)))
		case backend.VariableEnum:
			s, err := toString(v)
			if err != nil {
				return err
			}
			for e, name := range vr.enums {
				if matchKey(name, backend.NoDimension) == matchKey(s, backend.NoDimension) {
					return accepted(d.b.SetVariableIntEnum(h, i, int32(e)))
				}
			}
			return fmt.Errorf("unknown enum value %q", s)
		}
	}

	for i, s := range def.lookups {
		if matchKey(s.name, s.dim) != key {
			continue
		}
		n, ok := v.(*sexpNode)
		if !ok {
			return fmt.Errorf("expected node, got %T", v)
		}
		return accepted(d.b.SetNodeLookup(h, i, n.h))
	}

	for i, s := range def.hybrids {
		if matchKey(s.name, s.dim) != key {
			continue
		}
		if n, ok := v.(*sexpNode); ok {
			return accepted(d.b.SetHybridNodeLookup(h, i, n.h))
		}
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("expected node or number: %w", err)
		}
		return accepted(d.b.SetHybridFloat(h, i, float32(f)))
	}

	return fmt.Errorf("no such member")
}

func accepted(ok bool) error {
	if !ok {
		return errors.New("value rejected")
	}
	return nil
}
