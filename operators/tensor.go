package operators

import (
	"fmt"

	"gorgonia.org/tensor"

	"github.com/feedline-ai/feedline/dtypes"
)

// Dense exposes the container as a gorgonia tensor sharing the same backing
// slice, for handoff to downstream numeric consumers. Mutating the returned
// tensor mutates the container.
//
// Half-precision containers cannot be exposed this way: the tensor package
// has no float16 representation. Cast to float32 first.
func (c *Container) Dense() (*tensor.Dense, error) {
	if c.data == nil {
		return nil, fmt.Errorf("container is empty")
	}
	if c.dtype == dtypes.Float16 {
		return nil, fmt.Errorf("%w: float16 has no tensor representation, cast to float32 first", dtypes.ErrUnsupportedType)
	}
	shape := c.shape.ValuesInt()
	if len(shape) == 0 {
		shape = []int{1}
	}
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(c.data)), nil
}
