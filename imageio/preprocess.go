package imageio

import (
	"fmt"

	"github.com/feedline-ai/feedline/dtypes"
)

// PreprocessStep transforms a decoded pixel buffer in interleaved HWC layout.
// Steps return a fresh buffer; decoded buffers are never mutated in place.
type PreprocessStep interface {
	Apply(pixels []uint8, shape dtypes.Shape) ([]uint8, dtypes.Shape, error)
}

// ApplySteps chains preprocessing steps over a decoded buffer.
func ApplySteps(pixels []uint8, shape dtypes.Shape, steps ...PreprocessStep) ([]uint8, dtypes.Shape, error) {
	var err error
	for _, step := range steps {
		pixels, shape, err = step.Apply(pixels, shape)
		if err != nil {
			return nil, nil, err
		}
	}
	return pixels, shape, nil
}

type ResizePreprocessor struct {
	targetSize int
}

// ResizeStep scales the shorter side to targetSize, preserving aspect ratio,
// with nearest-neighbor sampling.
func ResizeStep(targetSize int) *ResizePreprocessor {
	return &ResizePreprocessor{targetSize: targetSize}
}

func (s *ResizePreprocessor) Apply(pixels []uint8, shape dtypes.Shape) ([]uint8, dtypes.Shape, error) {
	h, w, c, err := hwc(shape)
	if err != nil {
		return nil, nil, err
	}
	var newW, newH int
	if w < h {
		newW = s.targetSize
		newH = int(float32(h) * float32(s.targetSize) / float32(w))
	} else {
		newH = s.targetSize
		newW = int(float32(w) * float32(s.targetSize) / float32(h))
	}

	out := make([]uint8, newH*newW*c)
	for y := 0; y < newH; y++ {
		srcY := y * h / newH
		for x := 0; x < newW; x++ {
			srcX := x * w / newW
			copy(out[(y*newW+x)*c:(y*newW+x+1)*c], pixels[(srcY*w+srcX)*c:(srcY*w+srcX+1)*c])
		}
	}
	return out, dtypes.NewShape(int64(newH), int64(newW), int64(c)), nil
}

type CenterCropPreprocessor struct {
	targetWidth  int
	targetHeight int
}

// CenterCropStep extracts a centered targetWidth x targetHeight window.
func CenterCropStep(targetWidth, targetHeight int) *CenterCropPreprocessor {
	return &CenterCropPreprocessor{targetWidth: targetWidth, targetHeight: targetHeight}
}

func (s *CenterCropPreprocessor) Apply(pixels []uint8, shape dtypes.Shape) ([]uint8, dtypes.Shape, error) {
	h, w, c, err := hwc(shape)
	if err != nil {
		return nil, nil, err
	}
	if s.targetWidth > w || s.targetHeight > h {
		return nil, nil, fmt.Errorf("crop %dx%d exceeds image %dx%d", s.targetWidth, s.targetHeight, w, h)
	}
	x0 := (w - s.targetWidth) / 2
	y0 := (h - s.targetHeight) / 2

	out := make([]uint8, s.targetHeight*s.targetWidth*c)
	for y := 0; y < s.targetHeight; y++ {
		srcRow := ((y0+y)*w + x0) * c
		copy(out[y*s.targetWidth*c:(y+1)*s.targetWidth*c], pixels[srcRow:srcRow+s.targetWidth*c])
	}
	return out, dtypes.NewShape(int64(s.targetHeight), int64(s.targetWidth), int64(c)), nil
}

func hwc(shape dtypes.Shape) (h, w, c int, err error) {
	if len(shape) != 3 {
		return 0, 0, 0, fmt.Errorf("expected HWC shape, got %s", shape)
	}
	dims := shape.ValuesInt()
	return dims[0], dims[1], dims[2], nil
}
