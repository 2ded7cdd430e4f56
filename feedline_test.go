package feedline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/operators"
	"github.com/feedline-ai/feedline/options"
)

func TestCPUSessionBuildsOperators(t *testing.T) {
	session, err := NewCPUSession()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, session.Destroy())
	}()

	assert.Equal(t, options.BackendCPU, session.Backend())

	cast, err := session.NewOperator("Cast", operators.Args{"dtype": "float32"})
	require.NoError(t, err)

	input, err := operators.NewContainerFrom([]uint8{1, 2, 3, 4}, 2, 2)
	require.NoError(t, err)
	ws := operators.NewWorkspace([]*operators.Container{input}, 1)
	require.NoError(t, cast.Run(ws))

	output, err := ws.Output(0)
	require.NoError(t, err)
	assert.Equal(t, dtypes.Float32, output.DataType())
	assert.Equal(t, dtypes.NewShape(2, 2), output.Shape())
}

func TestSessionRejectsBadConfig(t *testing.T) {
	session, err := NewCPUSession()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, session.Destroy())
	}()

	_, err = session.NewOperator("Cast", operators.Args{})
	assert.ErrorContains(t, err, "required argument is missing")

	_, err = session.NewOperator("DoesNotExist", operators.Args{})
	assert.ErrorContains(t, err, "no registration")
}

func TestSessionRejectsGPUOptionsOnCPU(t *testing.T) {
	_, err := NewCPUSession(options.WithGPUPowerPreference("low-power"))
	assert.ErrorContains(t, err, "only supported for the GPU backend")
}

func TestSessionOperatorFromSpec(t *testing.T) {
	session, err := NewCPUSession()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, session.Destroy())
	}()

	spec, err := operators.SpecFromJSON([]byte(`{"name": "Normalize", "args": {"mean": 1, "scale": 2, "dtype": "int16"}}`))
	require.NoError(t, err)

	op, err := session.NewOperatorFromSpec(spec)
	require.NoError(t, err)

	input, err := operators.NewContainerFrom([]float32{2, 3}, 2)
	require.NoError(t, err)
	ws := operators.NewWorkspace([]*operators.Container{input}, 1)
	require.NoError(t, op.Run(ws))

	output, err := ws.Output(0)
	require.NoError(t, err)
	values, err := dtypes.SliceOf[int16](output.Data())
	require.NoError(t, err)
	assert.Equal(t, []int16{2, 4}, values)
}

func TestSessionStats(t *testing.T) {
	session, err := NewCPUSession()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, session.Destroy())
	}()

	cast, err := session.NewOperator("Cast", operators.Args{"dtype": dtypes.Int64})
	require.NoError(t, err)
	_, err = session.NewOperator("Normalize", operators.Args{})
	require.NoError(t, err)

	input, err := operators.NewContainerFrom([]float32{1}, 1)
	require.NoError(t, err)
	require.NoError(t, cast.Run(operators.NewWorkspace([]*operators.Container{input}, 1)))

	stats := session.GetStats()
	assert.Len(t, stats, 4)
	assert.Contains(t, stats[0], "Cast")
	assert.Contains(t, stats[2], "Normalize")
}
