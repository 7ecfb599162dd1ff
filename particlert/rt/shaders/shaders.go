package shaders

import (
	_ "embed"
	"fmt"
)

//go:embed particle_update.wgsl
var ParticleUpdateWGSL string

//go:embed particle_render.wgsl
var ParticleRenderWGSL string

// Logical shader names.
const (
	ParticleUpdate = "particle_update"
	ParticleRender = "particle_render"
)

// Entry points.
const (
	UpdateEntry   = "update"
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// UpdateWorkgroupSize matches @workgroup_size in particle_update.wgsl.
const UpdateWorkgroupSize = 256

var sources = map[string]*string{
	ParticleUpdate: &ParticleUpdateWGSL,
	ParticleRender: &ParticleRenderWGSL,
}

// Source returns the WGSL for a logical shader name.
func Source(name string) (string, error) {
	src, ok := sources[name]
	if !ok {
		return "", fmt.Errorf("unknown shader %q", name)
	}
	return *src, nil
}

func Names() []string {
	return []string{ParticleUpdate, ParticleRender}
}
