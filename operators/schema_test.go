package operators

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/options"
)

func TestValidateArgsFillsDefaults(t *testing.T) {
	normalized, err := normalizeSchema().ValidateArgs("Normalize", Args{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, normalized["mean"])
	assert.Equal(t, 1.0, normalized["scale"])
	assert.Equal(t, dtypes.Float32, normalized["dtype"])
}

func TestValidateArgsUnknownArgument(t *testing.T) {
	_, err := castSchema().ValidateArgs("Cast", Args{"dtype": dtypes.Int32, "typo": 1})
	require.Error(t, err)
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "Cast", configErr.Op)
	assert.Equal(t, "typo", configErr.Arg)
	assert.Contains(t, err.Error(), "not declared in schema")
}

func TestValidateArgsMissingRequired(t *testing.T) {
	_, err := castSchema().ValidateArgs("Cast", Args{})
	require.Error(t, err)
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, "dtype", configErr.Arg)
	assert.Contains(t, err.Error(), "required argument is missing")
}

func TestValidateArgsCoercion(t *testing.T) {
	// dtype names coming from JSON arrive as strings
	normalized, err := castSchema().ValidateArgs("Cast", Args{"dtype": "int16"})
	require.NoError(t, err)
	assert.Equal(t, dtypes.Int16, normalized["dtype"])

	_, err = castSchema().ValidateArgs("Cast", Args{"dtype": "complex128"})
	assert.Error(t, err)

	_, err = castSchema().ValidateArgs("Cast", Args{"dtype": 3.5})
	assert.ErrorContains(t, err, "expected a data type")

	// JSON numbers arrive as float64; integral ones coerce to float args too
	normalized, err = normalizeSchema().ValidateArgs("Normalize", Args{"mean": 2, "scale": float32(0.5)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, normalized["mean"])
	assert.Equal(t, 0.5, normalized["scale"])
}

func TestSpecFromJSON(t *testing.T) {
	spec, err := SpecFromJSON([]byte(`{"name": "Cast", "args": {"dtype": "float16"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Cast", spec.Name)
	assert.Equal(t, "float16", spec.Args["dtype"])

	_, err = SpecFromJSON([]byte(`{"args": {}}`))
	assert.ErrorContains(t, err, "no operator name")

	_, err = SpecFromJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestBuildUnknownRegistration(t *testing.T) {
	_, err := Build("Cast", "TPU", Args{"dtype": dtypes.Int8}, options.Defaults())
	require.Error(t, err)
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
	assert.Contains(t, err.Error(), "no registration")
}

func TestRegistryNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "Cast")
	assert.Contains(t, names, "Normalize")

	schema, ok := GetSchema("Cast", options.BackendCPU)
	require.True(t, ok)
	assert.Equal(t, 1, schema.NumInputs)
	assert.Equal(t, 1, schema.NumOutputs)

	_, ok = GetSchema("Cast", "TPU")
	assert.False(t, ok)
}
