// Package gpu runs per-element kernels on a WebGPU device. It is compiled in
// with the GPU or ALL build tags; without them every entry point returns
// ErrNotEnabled.
package gpu

import "errors"

// ErrNotEnabled is returned by all entry points when the package is built
// without GPU support.
var ErrNotEnabled = errors.New("GPU backend is not enabled, build with -tags GPU or -tags ALL")
