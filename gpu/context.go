//go:build GPU || ALL

package gpu

import (
	"fmt"
	"strings"
	"sync"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/feedline-ai/feedline/options"
)

// Context holds the single WebGPU context for the process.
type Context struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
}

var (
	ctx     Context
	ctxOnce sync.Once
	ctxErr  error
)

// Ensure initializes the shared GPU context. The first caller's options
// decide adapter selection; subsequent calls reuse the existing context.
func Ensure(opts *options.GPUOptions) error {
	_, err := getContext(opts)
	return err
}

func getContext(opts *options.GPUOptions) (*Context, error) {
	ctxOnce.Do(func() {
		ctx.Instance = wgpu.CreateInstance(nil)
		if ctx.Instance == nil {
			ctxErr = fmt.Errorf("failed to create WebGPU instance")
			return
		}

		if opts != nil && opts.AdapterName != "" {
			want := strings.ToLower(opts.AdapterName)
			for _, a := range ctx.Instance.EnumerateAdapters(nil) {
				info := a.GetInfo()
				if strings.Contains(strings.ToLower(info.Name), want) ||
					strings.Contains(strings.ToLower(info.VendorName), want) {
					ctx.Adapter = a
					break
				}
			}
			if ctx.Adapter == nil {
				ctxErr = fmt.Errorf("no adapter matching %q", opts.AdapterName)
				return
			}
		}

		if ctx.Adapter == nil {
			power := wgpu.PowerPreferenceHighPerformance
			if opts != nil && opts.PowerPreference == "low-power" {
				power = wgpu.PowerPreferenceLowPower
			}
			adapter, err := ctx.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
				PowerPreference: power,
			})
			if err != nil || adapter == nil {
				// Fall back to whatever the platform offers.
				adapter, err = ctx.Instance.RequestAdapter(nil)
				if err != nil {
					ctxErr = fmt.Errorf("no usable adapter: %v", err)
					return
				}
			}
			ctx.Adapter = adapter
		}

		var err error
		ctx.Device, err = ctx.Adapter.RequestDevice(nil)
		if err != nil {
			ctxErr = err
			return
		}
		ctx.Queue = ctx.Device.GetQueue()
	})

	if ctxErr != nil {
		return nil, ctxErr
	}
	if ctx.Device == nil || ctx.Queue == nil {
		return nil, fmt.Errorf("WebGPU device or queue not initialized")
	}
	return &ctx, nil
}
