package noise

import (
	"sync"

	"github.com/chazu/noisegraph/pkg/backend"
	"github.com/chazu/noisegraph/pkg/backend/perlin"
)

// countingBackend wraps the reference engine, recording calls that tests
// assert on and optionally rejecting every member assignment.
type countingBackend struct {
	*perlin.Backend

	mu         sync.Mutex
	kindCounts int
	sets       int
	deleted    []backend.Handle
	reject     bool
}

func newCountingBackend() *countingBackend {
	return &countingBackend{Backend: perlin.New()}
}

func (c *countingBackend) KindCount() int {
	c.mu.Lock()
	c.kindCounts++
	c.mu.Unlock()
	return c.Backend.KindCount()
}

func (c *countingBackend) Delete(h backend.Handle) {
	c.deleted = append(c.deleted, h)
	c.Backend.Delete(h)
}

func (c *countingBackend) forward(ok func() bool) bool {
	c.sets++
	if c.reject {
		return false
	}
	return ok()
}

func (c *countingBackend) SetVariableFloat(h backend.Handle, idx int, v float32) bool {
	return c.forward(func() bool { return c.Backend.SetVariableFloat(h, idx, v) })
}

func (c *countingBackend) SetVariableIntEnum(h backend.Handle, idx int, v int32) bool {
	return c.forward(func() bool { return c.Backend.SetVariableIntEnum(h, idx, v) })
}

func (c *countingBackend) SetNodeLookup(h backend.Handle, idx int, ref backend.Handle) bool {
	return c.forward(func() bool { return c.Backend.SetNodeLookup(h, idx, ref) })
}

func (c *countingBackend) SetHybridNodeLookup(h backend.Handle, idx int, ref backend.Handle) bool {
	return c.forward(func() bool { return c.Backend.SetHybridNodeLookup(h, idx, ref) })
}

func (c *countingBackend) SetHybridFloat(h backend.Handle, idx int, v float32) bool {
	return c.forward(func() bool { return c.Backend.SetHybridFloat(h, idx, v) })
}
