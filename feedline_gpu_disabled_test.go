//go:build !GPU && !ALL

package feedline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGPUSessionRequiresBuildTag(t *testing.T) {
	_, err := NewGPUSession()
	assert.ErrorContains(t, err, "-tags GPU")
}
