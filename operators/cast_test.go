package operators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/options"
)

// buildCastInput materializes the reference values as a container of the
// given element type, going through the same dispatch table under test.
func buildCastInput(t *testing.T, tag dtypes.DataType, values []float64) *Container {
	t.Helper()
	c, err := NewContainer(tag, int64(len(values)))
	require.NoError(t, err)
	require.NoError(t, dtypes.CastSlice(tag, c.Data(), dtypes.Float64, values))
	return c
}

func TestCastAllTypePairs(t *testing.T) {
	// small non-negative integers survive every supported element type exactly
	reference := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	for _, from := range dtypes.All() {
		for _, to := range dtypes.All() {
			input := buildCastInput(t, from, reference)

			op, err := Build("Cast", options.BackendCPU, Args{"dtype": to}, options.Defaults())
			require.NoError(t, err)

			ws := NewWorkspace([]*Container{input}, 1)
			require.NoError(t, op.Run(ws), "cast %s -> %s", from, to)

			output, err := ws.Output(0)
			require.NoError(t, err)
			assert.Equal(t, to, output.DataType())
			assert.Equal(t, input.Shape(), output.Shape())

			roundTrip := make([]float64, len(reference))
			require.NoError(t, dtypes.CastSlice(dtypes.Float64, roundTrip, to, output.Data()))
			assert.Equal(t, reference, roundTrip, "cast %s -> %s", from, to)
		}
	}
}

func TestCastPreservesShape(t *testing.T) {
	input, err := NewContainerFrom([]uint8{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	op, err := Build("Cast", options.BackendCPU, Args{"dtype": "float32"}, options.Defaults())
	require.NoError(t, err)

	ws := NewWorkspace([]*Container{input}, 1)
	require.NoError(t, op.Run(ws))

	output, err := ws.Output(0)
	require.NoError(t, err)
	assert.Equal(t, dtypes.NewShape(2, 3), output.Shape())

	values, err := dtypes.SliceOf[float32](output.Data())
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, values)
}

func TestCastArityMismatch(t *testing.T) {
	input, err := NewContainerFrom([]int32{1}, 1)
	require.NoError(t, err)

	op, err := Build("Cast", options.BackendCPU, Args{"dtype": dtypes.Int64}, options.Defaults())
	require.NoError(t, err)

	err = op.Run(NewWorkspace([]*Container{input, input}, 1))
	assert.ErrorContains(t, err, "declares 1 inputs")

	err = op.Run(NewWorkspace([]*Container{input}, 2))
	assert.ErrorContains(t, err, "declares 1 outputs")
}

func TestCastStats(t *testing.T) {
	input, err := NewContainerFrom([]float32{1, 2, 3}, 3)
	require.NoError(t, err)

	op, err := Build("Cast", options.BackendCPU, Args{"dtype": dtypes.Uint8}, options.Defaults())
	require.NoError(t, err)

	require.NoError(t, op.Run(NewWorkspace([]*Container{input}, 1)))
	require.NoError(t, op.Run(NewWorkspace([]*Container{input}, 1)))

	stats := op.GetStats()
	require.Len(t, stats, 2)
	assert.Contains(t, stats[0], "Cast")
	assert.True(t, strings.Contains(stats[1], "Execution count=2"), stats[1])
}
