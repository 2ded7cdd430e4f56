package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/feedline-ai/feedline/dtypes"
)

// ImageType declares the pixel layout a decode should produce.
type ImageType int

const (
	// AnyImage keeps the channel count the encoded image carries:
	// one channel for grayscale sources, three otherwise.
	AnyImage ImageType = iota
	RGB
	BGR
	Gray
)

func (t ImageType) String() string {
	switch t {
	case AnyImage:
		return "any"
	case RGB:
		return "rgb"
	case BGR:
		return "bgr"
	case Gray:
		return "gray"
	default:
		return fmt.Sprintf("ImageType(%d)", int(t))
	}
}

// Contract-violation errors for the decode state machine.
var (
	ErrAlreadyDecoded = errors.New("image already decoded")
	ErrNotDecoded     = errors.New("image not decoded, call Decode first")
)

// Image wraps an encoded image buffer in a lazily-decodable handle. The
// handle does not copy the encoded bytes; the caller's buffer must outlive
// it. Decode happens at most once. The decoded pixel buffer is shared with
// every caller of GetImage and must not be mutated.
//
// A handle is not safe for concurrent use while Decode may still run.
type Image struct {
	encoded   []byte
	imageType ImageType
	decoded   bool
	pixels    []uint8
	shape     dtypes.Shape
}

// NewImage wraps encoded bytes. The buffer is not validated beyond being
// non-empty; format errors surface from PeekShape or Decode.
func NewImage(encoded []byte, imageType ImageType) (*Image, error) {
	if len(encoded) == 0 {
		return nil, errors.New("encoded image buffer is empty")
	}
	return &Image{encoded: encoded, imageType: imageType}, nil
}

// Decoded reports whether Decode has run.
func (im *Image) Decoded() bool {
	return im.decoded
}

// Decode materializes the pixel buffer and shape. It fails if the handle is
// already decoded or the encoded bytes cannot be parsed.
func (im *Image) Decode() error {
	if im.decoded {
		return fmt.Errorf("decode: %w", ErrAlreadyDecoded)
	}
	img, _, err := image.Decode(bytes.NewReader(im.encoded))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	im.pixels, im.shape = rasterize(img, im.imageType)
	im.decoded = true
	return nil
}

// PeekShape returns the shape the image would decode to, inspecting only the
// format header. It never triggers a decode and is repeatable.
func (im *Image) PeekShape() (dtypes.Shape, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(im.encoded))
	if err != nil {
		return nil, fmt.Errorf("peek shape: %w", err)
	}
	channels := im.channelCount(cfg.ColorModel)
	return dtypes.NewShape(int64(cfg.Height), int64(cfg.Width), int64(channels)), nil
}

// GetImage returns the shared pixel buffer in interleaved HWC layout.
func (im *Image) GetImage() ([]uint8, error) {
	if !im.decoded {
		return nil, fmt.Errorf("get image: %w", ErrNotDecoded)
	}
	return im.pixels, nil
}

// GetShape returns the post-decode shape (height, width, channels).
func (im *Image) GetShape() (dtypes.Shape, error) {
	if !im.decoded {
		return nil, fmt.Errorf("get shape: %w", ErrNotDecoded)
	}
	return im.shape.Clone(), nil
}

func (im *Image) channelCount(model color.Model) int {
	switch im.imageType {
	case Gray:
		return 1
	case RGB, BGR:
		return 3
	default:
		if model == color.GrayModel || model == color.Gray16Model {
			return 1
		}
		return 3
	}
}

// rasterize flattens a decoded image into an interleaved uint8 buffer with
// the channel layout the image type asks for.
func rasterize(img image.Image, imageType ImageType) ([]uint8, dtypes.Shape) {
	bounds := img.Bounds()
	h, w := bounds.Dy(), bounds.Dx()

	channels := 3
	switch imageType {
	case Gray:
		channels = 1
	case AnyImage:
		if img.ColorModel() == color.GrayModel || img.ColorModel() == color.Gray16Model {
			channels = 1
		}
	}

	pixels := make([]uint8, h*w*channels)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if channels == 1 {
				gray := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
				pixels[i] = gray.Y
				i++
				continue
			}
			r, g, b, _ := img.At(x, y).RGBA()
			if imageType == BGR {
				r, b = b, r
			}
			pixels[i] = uint8(r >> 8)
			pixels[i+1] = uint8(g >> 8)
			pixels[i+2] = uint8(b >> 8)
			i += 3
		}
	}
	return pixels, dtypes.NewShape(int64(h), int64(w), int64(channels))
}
