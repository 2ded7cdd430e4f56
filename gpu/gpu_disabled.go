//go:build !GPU && !ALL

package gpu

import (
	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/options"
)

func Ensure(_ *options.GPUOptions) error {
	return ErrNotEnabled
}

func CastSlice(_ dtypes.DataType, _ any, _ dtypes.DataType, _ any, _ *options.GPUOptions) error {
	return ErrNotEnabled
}
