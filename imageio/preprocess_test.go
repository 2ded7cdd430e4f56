package imageio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedline-ai/feedline/dtypes"
)

func solidPixels(h, w, c int, value uint8) []uint8 {
	pixels := make([]uint8, h*w*c)
	for i := range pixels {
		pixels[i] = value
	}
	return pixels
}

func TestResizeStepShorterSide(t *testing.T) {
	pixels := solidPixels(8, 4, 3, 7)

	out, shape, err := ResizeStep(2).Apply(pixels, dtypes.NewShape(8, 4, 3))
	require.NoError(t, err)
	// width is the shorter side, height keeps the 2:1 aspect ratio
	assert.Equal(t, dtypes.NewShape(4, 2, 3), shape)
	assert.Len(t, out, 4*2*3)
	for _, v := range out {
		assert.Equal(t, uint8(7), v)
	}
}

func TestCenterCropStep(t *testing.T) {
	// 4x4 single-channel image with row-major values 0..15
	pixels := make([]uint8, 16)
	for i := range pixels {
		pixels[i] = uint8(i)
	}

	out, shape, err := CenterCropStep(2, 2).Apply(pixels, dtypes.NewShape(4, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, dtypes.NewShape(2, 2, 1), shape)
	assert.Equal(t, []uint8{5, 6, 9, 10}, out)
}

func TestCenterCropTooLarge(t *testing.T) {
	_, _, err := CenterCropStep(5, 5).Apply(solidPixels(4, 4, 1, 0), dtypes.NewShape(4, 4, 1))
	assert.ErrorContains(t, err, "exceeds image")
}

func TestApplyStepsChains(t *testing.T) {
	pixels := solidPixels(8, 8, 3, 3)

	out, shape, err := ApplySteps(pixels, dtypes.NewShape(8, 8, 3),
		ResizeStep(4),
		CenterCropStep(2, 2),
	)
	require.NoError(t, err)
	assert.Equal(t, dtypes.NewShape(2, 2, 3), shape)
	assert.Len(t, out, 2*2*3)
}

func TestApplyStepsRejectsBadRank(t *testing.T) {
	_, _, err := ResizeStep(2).Apply([]uint8{1, 2, 3}, dtypes.NewShape(3))
	assert.ErrorContains(t, err, "expected HWC shape")
}

func TestApplyStepsNoSteps(t *testing.T) {
	pixels := []uint8{1, 2, 3}
	out, shape, err := ApplySteps(pixels, dtypes.NewShape(1, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, pixels, out)
	assert.Equal(t, dtypes.NewShape(1, 1, 3), shape)
}
