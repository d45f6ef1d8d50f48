package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v2"
)

// Registry resolves preset names. It is filled once at startup and only read
// afterwards, so it may be shared between goroutines.
type Registry struct {
	generation *Store[GenerationConfig]
	maps       *Store[MapConfig]
}

// NewRegistry returns a registry holding the builtin presets.
func NewRegistry() *Registry {
	r := &Registry{
		generation: NewStore[GenerationConfig](),
		maps:       NewStore[MapConfig](),
	}
	for _, c := range builtinGeneration {
		r.generation.Set(c.Name, c)
	}
	for _, c := range builtinMaps {
		r.maps.Set(c.Name, c)
	}
	return r
}

// Load returns the builtin presets overlaid with the YAML files in
// dir/gen/*.yaml and dir/map/*.yaml. The file stem is the preset name.
// An empty dir loads builtins only.
func Load(dir string) (*Registry, error) {
	r := NewRegistry()
	if dir == "" {
		return r, nil
	}

	genFiles, err := filepath.Glob(filepath.Join(dir, "gen", "*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, path := range genFiles {
		var c GenerationConfig
		if err := readYAML(path, &c); err != nil {
			return nil, err
		}
		c.Name = stem(path)
		if err := r.AddGeneration(c); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	mapFiles, err := filepath.Glob(filepath.Join(dir, "map", "*.yaml"))
	if err != nil {
		return nil, err
	}
	for _, path := range mapFiles {
		var c MapConfig
		if err := readYAML(path, &c); err != nil {
			return nil, err
		}
		c.Name = stem(path)
		if err := r.AddMap(c); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return r, nil
}

// AddGeneration validates and registers c.
func (r *Registry) AddGeneration(c GenerationConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.generation.Set(c.Name, c)
	return nil
}

// AddMap validates and registers c.
func (r *Registry) AddMap(c MapConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}
	r.maps.Set(c.Name, c)
	return nil
}

// GenerationConfig looks up a generation preset.
func (r *Registry) GenerationConfig(name string) (GenerationConfig, bool) {
	return r.generation.Get(name)
}

// MapConfig looks up a map preset.
func (r *Registry) MapConfig(name string) (MapConfig, bool) {
	return r.maps.Get(name)
}

// GenerationNames lists generation presets, sorted.
func (r *Registry) GenerationNames() []string {
	return r.generation.Names()
}

// MapNames lists map presets, sorted.
func (r *Registry) MapNames() []string {
	return r.maps.Names()
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read preset: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidPreset, path, err)
	}
	return nil
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
