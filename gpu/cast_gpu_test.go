//go:build GPU || ALL

package gpu

// These tests need a WebGPU-capable adapter on the host, which is why they
// sit behind the same build tags as the backend itself.

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/options"
)

func TestCastSliceOnDevice(t *testing.T) {
	opts := &options.GPUOptions{}
	require.NoError(t, Ensure(opts))

	in := []float32{0, 1.7, -2.4, 3, 100000}
	out := make([]int32, len(in))
	require.NoError(t, CastSlice(dtypes.Int32, out, dtypes.Float32, in, opts))
	assert.Equal(t, []int32{0, 1, -2, 3, 100000}, out)

	outF := make([]float32, len(in))
	require.NoError(t, CastSlice(dtypes.Float32, outF, dtypes.Float32, in, opts))
	assert.Equal(t, in, outF)
}

func TestCastSliceUnsupportedOnDevice(t *testing.T) {
	opts := &options.GPUOptions{}
	out := make([]float64, 1)
	err := CastSlice(dtypes.Float64, out, dtypes.Float32, []float32{1}, opts)
	assert.True(t, errors.Is(err, dtypes.ErrUnsupportedType))
}

func TestCastSliceZeroLength(t *testing.T) {
	opts := &options.GPUOptions{}
	assert.NoError(t, CastSlice(dtypes.Float32, []float32{}, dtypes.Float32, []float32{}, opts))
}
