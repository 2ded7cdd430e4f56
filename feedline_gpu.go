//go:build GPU || ALL

package feedline

import (
	"github.com/feedline-ai/feedline/gpu"
	"github.com/feedline-ai/feedline/options"
)

// NewGPUSession creates a session whose operators execute their per-element
// work on a WebGPU device. The device context is initialized eagerly so that
// adapter problems surface here rather than on first invocation.
func NewGPUSession(opts ...options.WithOption) (*Session, error) {
	session, err := newSession(options.BackendGPU, opts...)
	if err != nil {
		return nil, err
	}
	if err := gpu.Ensure(session.options.GPUOptions); err != nil {
		return nil, err
	}
	return session, nil
}
