package operators

import (
	"time"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/options"
)

func normalizeSchema() Schema {
	return Schema{
		Description: "Shift and scale input values: (x - mean) * scale",
		NumInputs:   1,
		NumOutputs:  1,
		Args: map[string]ArgDef{
			"mean": {
				Description: "Value subtracted from each element.",
				Kind:        ArgFloat,
				Default:     0.0,
			},
			"scale": {
				Description: "Factor each shifted element is multiplied by.",
				Kind:        ArgFloat,
				Default:     1.0,
			},
			"dtype": {
				Description: "Output data type.",
				Kind:        ArgDataType,
				Default:     "float32",
			},
		},
	}
}

func init() {
	Register("Normalize", options.BackendCPU, normalizeSchema(), newNormalizeCPU)
}

// Normalize applies an affine transform to every element. The input is
// resolved through the dispatch table into float32 working space, so any
// supported input element type is accepted.
type Normalize struct {
	base
	mean       float32
	scale      float32
	outputType dtypes.DataType
	scratch    []float32
}

func newNormalizeCPU(args Args, _ *options.Options) (Operator, error) {
	return &Normalize{
		base:       base{name: "Normalize", backend: options.BackendCPU, schema: normalizeSchema()},
		mean:       float32(args["mean"].(float64)),
		scale:      float32(args["scale"].(float64)),
		outputType: args["dtype"].(dtypes.DataType),
	}, nil
}

func (n *Normalize) Run(ws *Workspace) error {
	defer n.record(time.Now())

	if err := checkArity(n.name, n.schema, ws); err != nil {
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
	if err := output.ResetLike(n.outputType, input); err != nil {
		return err
	}

	if cap(n.scratch) < input.Len() {
		n.scratch = make([]float32, input.Len())
	}
	work := n.scratch[:input.Len()]
	if err := dtypes.CastSlice(dtypes.Float32, work, input.DataType(), input.Data()); err != nil {
		return err
	}
	for i, v := range work {
		work[i] = (v - n.mean) * n.scale
	}
	return dtypes.CastSlice(n.outputType, output.Data(), dtypes.Float32, work)
}
