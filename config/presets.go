package config

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownPreset is returned for a preset name not in Presets
var ErrUnknownPreset = errors.New("unknown preset")

// Presets tweak the default configuration into a named show
var Presets = map[string]func(*Config){
	"default": func(*Config) {},
	"calm": func(c *Config) {
		c.Explosion.SpeedMax = 1200
		c.Explosion.LifetimeMin = 2.0
		c.Explosion.LifetimeMax = 3.0
		c.AutoFire.IntensityMin = 60
		c.AutoFire.IntensityMax = 250
		c.AutoFire.IntervalMin = 2.0
		c.AutoFire.IntervalMax = 4.0
		c.AutoFire.CenterIntensity = 200
	},
	"finale": func(c *Config) {
		c.Explosion.SpeedMin = 800
		c.Explosion.SpeedMax = 2600
		c.AutoFire.IntensityMin = 400
		c.AutoFire.IntensityMax = 900
		c.AutoFire.IntervalMin = 0.15
		c.AutoFire.IntervalMax = 0.5
		c.AutoFire.LoopDelay = 0.5
	},
	"quiet": func(c *Config) {
		c.AutoFire.Enabled = false
	},
}

// GetPreset returns a fresh configuration for the named preset, or nil
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns the preset names in sorted order
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset is GetPreset with an error naming the known presets
func LoadPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}
