// Package options holds the session configuration shared by all backends.
package options

import "fmt"

// Backend identifiers.
const (
	BackendCPU = "CPU"
	BackendGPU = "GPU"
)

type Options struct {
	Backend    string
	GPUOptions *GPUOptions
	Destroy    func() error
}

// GPUOptions configures WebGPU adapter selection for the GPU backend.
type GPUOptions struct {
	// PowerPreference selects the adapter class: "high-performance" or "low-power".
	PowerPreference string
	// AdapterName forces an adapter whose reported name contains this
	// substring (case-insensitive), e.g. "nvidia".
	AdapterName string
}

func Defaults() *Options {
	return &Options{
		GPUOptions: &GPUOptions{},
		Destroy: func() error {
			return nil
		},
	}
}

// WithOption is the interface for all option functions.
type WithOption func(o *Options) error

// WithGPUPowerPreference (GPU only) selects the adapter power class.
func WithGPUPowerPreference(preference string) WithOption {
	return func(o *Options) error {
		if o.Backend != BackendGPU {
			return fmt.Errorf("WithGPUPowerPreference is only supported for the GPU backend")
		}
		switch preference {
		case "high-performance", "low-power":
			o.GPUOptions.PowerPreference = preference
			return nil
		default:
			return fmt.Errorf("unknown power preference %q", preference)
		}
	}
}

// WithGPUAdapterName (GPU only) forces selection of an adapter whose name
// contains the given substring.
func WithGPUAdapterName(name string) WithOption {
	return func(o *Options) error {
		if o.Backend != BackendGPU {
			return fmt.Errorf("WithGPUAdapterName is only supported for the GPU backend")
		}
		o.GPUOptions.AdapterName = name
		return nil
	}
}
