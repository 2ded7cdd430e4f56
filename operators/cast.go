package operators

import (
	"time"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/gpu"
	"github.com/feedline-ai/feedline/options"
)

func castSchema() Schema {
	return Schema{
		Description: "Cast tensor to a different type",
		NumInputs:   1,
		NumOutputs:  1,
		Args: map[string]ArgDef{
			"dtype": {
				Description: "Output data type.",
				Kind:        ArgDataType,
				Required:    true,
			},
		},
	}
}

func init() {
	Register("Cast", options.BackendCPU, castSchema(), newCastCPU)
	Register("Cast", options.BackendGPU, castSchema(), newCastGPU)
}

// Cast converts its input container to the configured output element type,
// preserving the logical shape. Type-pair resolution is backend-agnostic;
// only the per-element conversion differs between the host and device paths.
type Cast struct {
	base
	outputType dtypes.DataType
	gpuOptions *options.GPUOptions
}

func newCastCPU(args Args, _ *options.Options) (Operator, error) {
	return &Cast{
		base:       base{name: "Cast", backend: options.BackendCPU, schema: castSchema()},
		outputType: args["dtype"].(dtypes.DataType),
	}, nil
}

func newCastGPU(args Args, opts *options.Options) (Operator, error) {
	return &Cast{
		base:       base{name: "Cast", backend: options.BackendGPU, schema: castSchema()},
		outputType: args["dtype"].(dtypes.DataType),
		gpuOptions: opts.GPUOptions,
	}, nil
}

func (c *Cast) Run(ws *Workspace) error {
	defer c.record(time.Now())

	if err := checkArity(c.name, c.schema, ws); err != nil {
		return err
	}
	input, err := ws.Input(0)
	if err != nil {
		return err
	}
	output, err := ws.Output(0)
	if err != nil {
		return err
	}
	if err := output.ResetLike(c.outputType, input); err != nil {
		return err
	}

	if c.backend == options.BackendGPU {
		return gpu.CastSlice(c.outputType, output.Data(), input.DataType(), input.Data(), c.gpuOptions)
	}
	return dtypes.CastSlice(c.outputType, output.Data(), input.DataType(), input.Data())
}
