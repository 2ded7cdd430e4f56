package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/feedline-ai/feedline"
	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/imageio"
	"github.com/feedline-ai/feedline/operators"
	"github.com/feedline-ai/feedline/util/fileutil"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var inputPath string
var outputPath string
var colorSpace string
var outputType string
var normMean float64
var normScale float64
var resizeTo int
var cropWidth int
var cropHeight int

var inspectCommand = &cli.Command{
	Name:  "inspect",
	Usage: "Report the decoded shape of image files without decoding them",
	Description: `Inspect walks a file or folder, classifies each file by extension and, for
the decodable ones, reads only the format header to report the shape a full
decode would produce. One json line is emitted per image.`,
	ArgsUsage: `
				--input: path to an image file or a folder to walk. If omitted, file paths are read from stdin, one per line.
				--output: path to a file where to write the output. If omitted, the output will be sent to stdout.
				`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Usage:       "Path to an image file or folder",
			Aliases:     []string{"i"},
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Path to output",
			Aliases:     []string{"o"},
			Destination: &outputPath,
		},
	},
	Action: func(ctx *cli.Context) error {
		writer, closeWriter, err := openOutput()
		if err != nil {
			return err
		}
		defer closeWriter()

		if inputPath != "" {
			exists, existsErr := fileutil.FileExists(inputPath)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return fmt.Errorf("file %s does not exist", inputPath)
			}
			walker := func(_ context.Context, baseURL, parent string, info os.FileInfo, _ io.Reader) (bool, error) {
				if info.IsDir() {
					return true, nil
				}
				name := fileutil.PathJoinSafe(baseURL, parent, info.Name())
				if !imageio.IsDecodable(name) {
					return true, nil
				}
				if err := inspectFile(name, writer); err != nil {
					return false, err
				}
				return true, nil
			}
			return fileutil.WalkDir()(ctx.Context, inputPath, walker)
		}

		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return fmt.Errorf("no --input provided and nothing to read on stdin")
		}
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			name := strings.TrimSpace(scanner.Text())
			if name == "" || !imageio.IsDecodable(name) {
				continue
			}
			if err := inspectFile(name, writer); err != nil {
				return err
			}
		}
		return scanner.Err()
	},
}

var convertCommand = &cli.Command{
	Name:  "convert",
	Usage: "Decode an image, optionally resize and crop it, and emit a normalized typed buffer",
	Description: `Convert decodes one image into an interleaved HWC buffer, applies the
requested preprocessing steps, then runs the Normalize operator on the CPU
backend to produce a buffer of the requested element type.`,
	ArgsUsage: `
				--input: path to the image file to decode.
				--output: path to a file where to write the output. If omitted, the output will be sent to stdout.
				--color: channel layout to decode to: rgb, bgr, gray or any.
				--dtype: element type of the emitted buffer.
				--mean, --scale: normalization applied as (value - mean) * scale.
				--resize: scale the shorter side to this size before cropping. 0 skips the step.
				--cropWidth, --cropHeight: center-crop window. 0 skips the step.
				`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Usage:       "Path to the image file",
			Aliases:     []string{"i"},
			Destination: &inputPath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "output",
			Usage:       "Path to output",
			Aliases:     []string{"o"},
			Destination: &outputPath,
		},
		&cli.StringFlag{
			Name:        "color",
			Usage:       "Channel layout: rgb, bgr, gray or any",
			Aliases:     []string{"c"},
			Destination: &colorSpace,
			Value:       "rgb",
		},
		&cli.StringFlag{
			Name:        "dtype",
			Usage:       "Element type of the output buffer",
			Aliases:     []string{"t"},
			Destination: &outputType,
			Value:       "float32",
		},
		&cli.Float64Flag{
			Name:        "mean",
			Usage:       "Value subtracted from each element",
			Destination: &normMean,
			Value:       0,
		},
		&cli.Float64Flag{
			Name:        "scale",
			Usage:       "Factor each element is multiplied by after the mean shift",
			Destination: &normScale,
			Value:       1,
		},
		&cli.IntFlag{
			Name:        "resize",
			Usage:       "Resize the shorter side to this size",
			Destination: &resizeTo,
		},
		&cli.IntFlag{
			Name:        "cropWidth",
			Usage:       "Center-crop width",
			Destination: &cropWidth,
		},
		&cli.IntFlag{
			Name:        "cropHeight",
			Usage:       "Center-crop height",
			Destination: &cropHeight,
		},
	},
	Action: func(ctx *cli.Context) (err error) {
		imageType, err := parseImageType(colorSpace)
		if err != nil {
			return err
		}
		if !imageio.IsDecodable(inputPath) {
			return fmt.Errorf("file %s is not decodable", inputPath)
		}
		encoded, err := fileutil.ReadFileBytes(inputPath)
		if err != nil {
			return err
		}
		img, err := imageio.NewImage(encoded, imageType)
		if err != nil {
			return err
		}
		if err := img.Decode(); err != nil {
			return err
		}
		pixels, err := img.GetImage()
		if err != nil {
			return err
		}
		shape, err := img.GetShape()
		if err != nil {
			return err
		}

		var steps []imageio.PreprocessStep
		if resizeTo > 0 {
			steps = append(steps, imageio.ResizeStep(resizeTo))
		}
		if cropWidth > 0 && cropHeight > 0 {
			steps = append(steps, imageio.CenterCropStep(cropWidth, cropHeight))
		}
		pixels, shape, err = imageio.ApplySteps(pixels, shape, steps...)
		if err != nil {
			return err
		}

		session, err := feedline.NewCPUSession()
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, session.Destroy())
		}()

		normalize, err := session.NewOperator("Normalize", operators.Args{
			"mean":  normMean,
			"scale": normScale,
			"dtype": outputType,
		})
		if err != nil {
			return err
		}

		input, err := operators.NewContainerFrom(pixels, shape...)
		if err != nil {
			return err
		}
		ws := operators.NewWorkspace([]*operators.Container{input}, 1)
		if err := normalize.Run(ws); err != nil {
			return err
		}
		output, err := ws.Output(0)
		if err != nil {
			return err
		}

		writer, closeWriter, err := openOutput()
		if err != nil {
			return err
		}
		defer closeWriter()

		line, err := json.Marshal(convertResult{
			File:  inputPath,
			Dtype: output.DataType().String(),
			Shape: output.Shape(),
			Data:  output.Data(),
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(writer, "%s\n", line)
		return err
	},
}

func main() {
	if err := app().Run(os.Args); err != nil {
		panic(err)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:     "feedline",
		Usage:    "Typed operator execution and image decoding from the command line",
		Commands: []*cli.Command{inspectCommand, convertCommand},
	}
}

type inspectResult struct {
	File     string `json:"file"`
	Height   int64  `json:"height"`
	Width    int64  `json:"width"`
	Channels int64  `json:"channels"`
}

type convertResult struct {
	File  string       `json:"file"`
	Dtype string       `json:"dtype"`
	Shape dtypes.Shape `json:"shape"`
	Data  any          `json:"data"`
}

func inspectFile(name string, writer io.Writer) error {
	encoded, err := fileutil.ReadFileBytes(name)
	if err != nil {
		return err
	}
	img, err := imageio.NewImage(encoded, imageio.AnyImage)
	if err != nil {
		return err
	}
	shape, err := img.PeekShape()
	if err != nil {
		return err
	}
	line, err := json.Marshal(inspectResult{
		File:     name,
		Height:   shape[0],
		Width:    shape[1],
		Channels: shape[2],
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(writer, "%s\n", line)
	return err
}

func openOutput() (io.Writer, func() error, error) {
	if outputPath == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	writer, err := fileutil.NewWriter(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return writer, writer.Close, nil
}

func parseImageType(name string) (imageio.ImageType, error) {
	switch strings.ToLower(name) {
	case "rgb":
		return imageio.RGB, nil
	case "bgr":
		return imageio.BGR, nil
	case "gray":
		return imageio.Gray, nil
	case "any", "":
		return imageio.AnyImage, nil
	default:
		return imageio.AnyImage, fmt.Errorf("unknown color layout %q, expected rgb, bgr, gray or any", name)
	}
}
