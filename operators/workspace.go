// Package operators implements schema-validated, backend-specialized units of
// work over typed containers, and the registry the pipeline builder resolves
// them from.
package operators

import (
	"fmt"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/util/safeconv"
)

// Container is a typed, shaped, resizable buffer consumed and produced by
// operators. The element count implied by the shape always matches the
// backing slice length after any Reset.
type Container struct {
	dtype dtypes.DataType
	shape dtypes.Shape
	data  any
}

// NewContainer allocates a container with the given element type and shape.
func NewContainer(t dtypes.DataType, shape ...int64) (*Container, error) {
	c := &Container{}
	if err := c.Reset(t, shape...); err != nil {
		return nil, err
	}
	return c, nil
}

// NewContainerFrom wraps an existing slice. The shape product must equal the
// slice length.
func NewContainerFrom[T dtypes.Element](data []T, shape ...int64) (*Container, error) {
	s := dtypes.NewShape(shape...)
	if n := s.NumElements(); n != int64(len(data)) {
		return nil, fmt.Errorf("shape %s implies %d elements, slice has %d", s, n, len(data))
	}
	return &Container{
		dtype: dtypes.TagOf[T](),
		shape: s.Clone(),
		data:  data,
	}, nil
}

func (c *Container) DataType() dtypes.DataType { return c.dtype }

func (c *Container) Shape() dtypes.Shape { return c.shape.Clone() }

// Len returns the number of elements held.
func (c *Container) Len() int {
	return safeconv.Int64ToInt(c.shape.NumElements())
}

// Data exposes the backing slice. Use dtypes.SliceOf to recover the typed view.
func (c *Container) Data() any { return c.data }

// Reset retypes and reshapes the container, reallocating the backing slice
// only when the element type changes or capacity is insufficient.
func (c *Container) Reset(t dtypes.DataType, shape ...int64) error {
	s := dtypes.NewShape(shape...)
	n := safeconv.Int64ToInt(s.NumElements())
	if c.data != nil && c.dtype == t {
		if have, err := dtypes.SliceLen(t, c.data); err == nil && have == n {
			c.shape = s.Clone()
			return nil
		}
	}
	data, err := dtypes.MakeSlice(t, n)
	if err != nil {
		return err
	}
	c.dtype = t
	c.shape = s.Clone()
	c.data = data
	return nil
}

// ResetLike retypes the container to t with the same shape as other.
func (c *Container) ResetLike(t dtypes.DataType, other *Container) error {
	return c.Reset(t, other.shape...)
}

// Workspace supplies the typed input and output containers for one operator
// invocation. It is populated by the external driver and is not safe for
// concurrent use by multiple invocations.
type Workspace struct {
	inputs  []*Container
	outputs []*Container
}

// NewWorkspace wraps the given inputs and allocates numOutputs empty output
// containers for the operator to resize and populate.
func NewWorkspace(inputs []*Container, numOutputs int) *Workspace {
	outputs := make([]*Container, numOutputs)
	for i := range outputs {
		outputs[i] = &Container{}
	}
	return &Workspace{inputs: inputs, outputs: outputs}
}

func (w *Workspace) NumInputs() int  { return len(w.inputs) }
func (w *Workspace) NumOutputs() int { return len(w.outputs) }

// Input returns the i-th input container.
func (w *Workspace) Input(i int) (*Container, error) {
	if i < 0 || i >= len(w.inputs) {
		return nil, fmt.Errorf("input index %d out of range, workspace has %d inputs", i, len(w.inputs))
	}
	if w.inputs[i] == nil {
		return nil, fmt.Errorf("input %d is not populated", i)
	}
	return w.inputs[i], nil
}

// Output returns the i-th output container.
func (w *Workspace) Output(i int) (*Container, error) {
	if i < 0 || i >= len(w.outputs) {
		return nil, fmt.Errorf("output index %d out of range, workspace has %d outputs", i, len(w.outputs))
	}
	return w.outputs[i], nil
}
