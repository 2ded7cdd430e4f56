//go:build GPU || ALL

package gpu

import (
	"fmt"
	"time"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/feedline-ai/feedline/dtypes"
	"github.com/feedline-ai/feedline/options"
)

const workgroupSize = 256

// CastSlice converts every element of in into out on the GPU. Only element
// types WGSL can express natively are accepted: float32, int32 and uint32.
// Other tags belong on the CPU backend.
//
// The conversion runs on the device queue; this call blocks until the
// readback completes, so the output container is safe to read on return.
func CastSlice(outType dtypes.DataType, out any, inType dtypes.DataType, in any, opts *options.GPUOptions) error {
	outWGSL, err := wgslType(outType)
	if err != nil {
		return err
	}
	inWGSL, err := wgslType(inType)
	if err != nil {
		return err
	}

	n, err := dtypes.SliceLen(inType, in)
	if err != nil {
		return err
	}
	outLen, err := dtypes.SliceLen(outType, out)
	if err != nil {
		return err
	}
	if n != outLen {
		return fmt.Errorf("output length %d does not match input length %d", outLen, n)
	}
	if n == 0 {
		return nil
	}

	c, err := getContext(opts)
	if err != nil {
		return err
	}

	inputBuf, err := c.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Cast_In",
		Contents: sliceBytes(inType, in),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create input buffer: %v", err)
	}
	defer inputBuf.Destroy()

	sizeBytes := uint64(n * 4)
	outputBuf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Cast_Out",
		Size:  sizeBytes,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("failed to create output buffer: %v", err)
	}
	defer outputBuf.Destroy()

	stagingBuf, err := c.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Cast_Staging",
		Size:  sizeBytes,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create staging buffer: %v", err)
	}
	defer stagingBuf.Destroy()

	shader := castShader(outWGSL, inWGSL, n)
	module, err := c.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Cast_Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shader},
	})
	if err != nil {
		return fmt.Errorf("shader compile: %v", err)
	}

	bindGroupLayout, err := c.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Cast_BGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute, Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bgl: %v", err)
	}

	pipelineLayout, err := c.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Cast_Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %v", err)
	}

	pipeline, err := c.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "Cast_Pipe",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("pipeline create: %v", err)
	}
	module.Release()

	bindGroup, err := c.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Cast_Bind",
		Layout: bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: inputBuf, Size: inputBuf.GetSize()},
			{Binding: 1, Buffer: outputBuf, Size: outputBuf.GetSize()},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %v", err)
	}

	enc, err := c.Device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %v", err)
	}
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(uint32((n+workgroupSize-1)/workgroupSize), 1, 1)
	pass.End()
	enc.CopyBufferToBuffer(outputBuf, 0, stagingBuf, 0, sizeBytes)

	cmd, err := enc.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command: %v", err)
	}
	c.Queue.Submit(cmd)

	return readBack(c, stagingBuf, sizeBytes, outType, out)
}

func castShader(outWGSL, inWGSL string, n int) string {
	return fmt.Sprintf(`
		@group(0) @binding(0) var<storage, read> input : array<%s>;
		@group(0) @binding(1) var<storage, read_write> output : array<%s>;

		const N: u32 = %du;

		@compute @workgroup_size(%d)
		fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
			let i = gid.x;
			if (i < N) {
				output[i] = %s(input[i]);
			}
		}
	`, inWGSL, outWGSL, n, workgroupSize, outWGSL)
}

func wgslType(t dtypes.DataType) (string, error) {
	switch t {
	case dtypes.Float32:
		return "f32", nil
	case dtypes.Int32:
		return "i32", nil
	case dtypes.Uint32:
		return "u32", nil
	default:
		return "", fmt.Errorf("%w: %s is not supported on the GPU backend", dtypes.ErrUnsupportedType, t)
	}
}

func sliceBytes(t dtypes.DataType, data any) []byte {
	switch t {
	case dtypes.Float32:
		return wgpu.ToBytes(data.([]float32))
	case dtypes.Int32:
		return wgpu.ToBytes(data.([]int32))
	default:
		return wgpu.ToBytes(data.([]uint32))
	}
}

// readBack copies the staging buffer into the output slice once the device
// has finished the submitted work.
func readBack(c *Context, stagingBuf *wgpu.Buffer, sizeBytes uint64, outType dtypes.DataType, out any) error {
	done := make(chan struct{})
	var mapErr error

	err := stagingBuf.MapAsync(wgpu.MapModeRead, 0, sizeBytes, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("map failed: %v", status)
		}
		close(done)
	})
	if err != nil {
		return fmt.Errorf("MapAsync failed: %v", err)
	}

	timeout := time.After(5 * time.Second)
Loop:
	for {
		c.Device.Poll(false, nil)
		select {
		case <-done:
			break Loop
		case <-timeout:
			return fmt.Errorf("GPU readback timed out")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if mapErr != nil {
		return mapErr
	}

	data := stagingBuf.GetMappedRange(0, uint(sizeBytes))
	if data == nil {
		return fmt.Errorf("failed to get mapped range")
	}
	defer stagingBuf.Unmap()

	switch outType {
	case dtypes.Float32:
		copy(out.([]float32), wgpu.FromBytes[float32](data))
	case dtypes.Int32:
		copy(out.([]int32), wgpu.FromBytes[int32](data))
	default:
		copy(out.([]uint32), wgpu.FromBytes[uint32](data))
	}
	return nil
}
