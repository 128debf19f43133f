package main

import (
	"strings"
	"testing"
)

// hasMessage reports whether any finding mentions substr.
func hasMessage(findings []FindingData, substr string) bool {
	for _, f := range findings {
		if strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// 1. Undefined references are reported against the node that makes them.
// ---------------------------------------------------------------------------

func TestE2EUndefinedReference(t *testing.T) {
	app := newTestApp(t)

	source := `
root: warped
nodes:
  warped:
    kind: Domain Warp
    members: {source: nonexistent}
`
	result := app.Evaluate(source)

	if !hasMessage(result.Errors, "nonexistent") {
		t.Fatalf("expected error mentioning 'nonexistent', got: %v", result.Errors)
	}
	if result.Errors[0].Node != "warped" {
		t.Errorf("error attributed to %q, want warped", result.Errors[0].Node)
	}
	if result.Kind != "" {
		t.Errorf("no root should be reported on error, got %q", result.Kind)
	}
}

// ---------------------------------------------------------------------------
// 2. Warnings do not block evaluation.
// ---------------------------------------------------------------------------

func TestE2ECycleIsAWarning(t *testing.T) {
	app := newTestApp(t)

	source := `
root: a
nodes:
  a: {kind: Domain Scale, members: {source: b}}
  b: {kind: Add, members: {lhs: a, rhs: 1}}
  spare: {kind: Constant}
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !hasMessage(result.Warnings, "reference cycle") {
		t.Errorf("expected cycle warning, got %v", result.Warnings)
	}
	if !hasMessage(result.Warnings, "not reachable") {
		t.Errorf("expected unreachable warning, got %v", result.Warnings)
	}
	if result.Nodes != 3 {
		t.Errorf("expected 3 nodes, got %d", result.Nodes)
	}
}

// ---------------------------------------------------------------------------
// 3. Engine rejections surface with the offending member.
// ---------------------------------------------------------------------------

func TestE2EEngineRejection(t *testing.T) {
	app := newTestApp(t)

	result := app.Evaluate("root: p\nnodes:\n  p: {kind: Perlin, members: {octaves: 40}}\n")
	if !hasMessage(result.Errors, "perlin.octaves = 40") {
		t.Errorf("expected rejection of octaves, got %v", result.Errors)
	}
	if !hasMessage(result.Errors, "engine rejected value") {
		t.Errorf("expected engine rejection, got %v", result.Errors)
	}
}

func TestE2EDecodeRejection(t *testing.T) {
	app := newTestApp(t)

	result := app.Evaluate(`(node "Perlin" :octaves 40)`)
	if len(result.Errors) != 1 {
		t.Fatalf("expected a single decode error, got %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 4. Malformed YAML and unknown fields.
// ---------------------------------------------------------------------------

func TestE2EMalformedDocument(t *testing.T) {
	app := newTestApp(t)

	for _, source := range []string{
		"root: [",
		"root: a\nnodez: {}\n",
		"just text",
	} {
		result := app.Evaluate(source)
		if len(result.Errors) == 0 {
			t.Errorf("expected an error for %q", source)
		}
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation: sequential calls never leak into each other.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := newTestApp(t)

	sources := []string{
		`(node "Perlin")`,
		`(node "Perlin"`,
		``,
		"root: a\nnodes: {a: {kind: Nope}}\n",
		`(node "Constant" :value 4)`,
		`;; just a comment`,
		"root: a\nnodes: {a: {kind: Constant, members: {value: 2}}}\n",
		`(undefined-func 1 2 3)`,
		`(node "Add" :lhs (node "Constant" :value 1) :rhs 1)`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	result := app.Evaluate(`(node "Constant" :value 7)`)
	if result.Min != 7 || result.Max != 7 {
		t.Errorf("range after rapid evaluation = [%g, %g], want [7, 7]", result.Min, result.Max)
	}
}
