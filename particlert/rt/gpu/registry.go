package gpu

import (
	"fmt"

	"github.com/gekko3d/particles/particlert/rt/shaders"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderRegistry compiles embedded shaders by logical name and keeps the
// modules for reuse.
type ShaderRegistry struct {
	Device  *wgpu.Device
	modules map[string]*wgpu.ShaderModule
}

func NewShaderRegistry(device *wgpu.Device) *ShaderRegistry {
	return &ShaderRegistry{
		Device:  device,
		modules: make(map[string]*wgpu.ShaderModule),
	}
}

func (r *ShaderRegistry) Module(name string) (*wgpu.ShaderModule, error) {
	if m, ok := r.modules[name]; ok {
		return m, nil
	}
	src, err := shaders.Source(name)
	if err != nil {
		return nil, err
	}
	m, err := r.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: src},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module %q: %w", name, err)
	}
	r.modules[name] = m
	return m, nil
}

func (r *ShaderRegistry) Release() {
	for name, m := range r.modules {
		m.Release()
		delete(r.modules, name)
	}
}
