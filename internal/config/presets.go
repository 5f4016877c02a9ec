package config

import "sort"

// Presets are partial tunings applied over DefaultConfig.
var Presets = map[string]func(c *Config){
	"fast": func(c *Config) {
		c.Cache = CacheConfig{Precision: 1, MaxSize: 2000, EvictFraction: 0.5}
	},
	"fidelity": func(c *Config) {
		c.Cache = CacheConfig{Precision: 2, MaxSize: 10000, EvictFraction: 0.2}
	},
	"exact": func(c *Config) {
		c.Cache = CacheConfig{Precision: 3, MaxSize: 50000, EvictFraction: 0.25}
		c.Render.Workers = 4
	},
	"ambient": func(c *Config) {
		c.FPS = 15
		c.Exposure.Cadence = 60
		c.Input.VelocityGain = 0.05
		c.Noise.Source = "opensimplex"
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
