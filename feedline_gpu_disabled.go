//go:build !GPU && !ALL

package feedline

import (
	"errors"

	"github.com/feedline-ai/feedline/options"
)

func NewGPUSession(_ ...options.WithOption) (*Session, error) {
	return nil, errors.New("to enable the GPU backend, run `go build -tags GPU` or `go build -tags ALL`")
}
