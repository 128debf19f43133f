package perlin

import (
	"fmt"
	"time"

	"github.com/chazu/noisegraph/pkg/backend"
)

// DecodeTimeout is the hard limit for decoding one node tree. When it
// fires the decode fails and its nodes are released, but the interpreter
// goroutine is not interrupted: a tree that never terminates keeps that
// goroutine running until the process exits. It can no longer create
// nodes.
const DecodeTimeout = 5 * time.Second

type decodeResult struct {
	root backend.Handle
	err  error
}

// waitWithTimeout waits for a decode result from ch, or fails once
// DecodeTimeout has elapsed. On timeout the decoding goroutine may still
// be running; the caller abandons its decoder so that anything it creates
// afterwards is refused.
func waitWithTimeout(ch <-chan decodeResult) (backend.Handle, error) {
	timer := time.NewTimer(DecodeTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.root, res.err
	case <-timer.C:
		return backend.NilHandle, fmt.Errorf("decode timed out after %s", DecodeTimeout)
	}
}
