package config

import (
	"fmt"
	"sort"
)

// Presets holds named setups per command group.
var Presets = map[string]map[string]*Config{
	"los": {
		"center": {
			Sightline: SightlineConfig{L: 0, B: 0},
		},
		"anticenter": {
			Sightline: SightlineConfig{L: 180, B: 0},
		},
		"north-pole": {
			Sightline: SightlineConfig{L: 0, B: 90},
		},
		"south-pole": {
			Sightline: SightlineConfig{L: 0, B: -90},
		},
		"cygnus": {
			Sightline: SightlineConfig{L: 80, B: 0},
		},
		"fan": {
			Sightline: SightlineConfig{L: 140, B: 5},
		},
		"north-spur": {
			Sightline: SightlineConfig{L: 30, B: 45},
		},
	},
	"sample": {
		"quick": {
			Samples: 200, Seed: 123, Step: 0.2,
		},
		"standard": {
			Samples: 1000, Seed: 123, Step: 0.1,
		},
		"precise": {
			Samples: 10000, Seed: 123, Step: 0.05,
		},
	},
	"trace": {
		"solar": {
			Observer: PositionConfig{X: -8.178, Y: 0, Z: 0.02},
			Trace:    TraceConfig{Step: 0.05, MaxSteps: 4000},
		},
		"halo": {
			Observer: PositionConfig{X: -4, Y: 0, Z: 2},
			Trace:    TraceConfig{Step: 0.1, MaxSteps: 3000},
		},
		"inner": {
			Observer: PositionConfig{X: 0, Y: 5, Z: 0.1},
			Trace:    TraceConfig{Step: 0.02, MaxSteps: 5000},
		},
	},
}

func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

// ListPresets returns the preset names of group in sorted order.
func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Groups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// ApplyPreset overlays a named preset onto c. Sight lines are always taken
// from "los" presets; other fields only when the preset sets them.
func (c *Config) ApplyPreset(group, name string) error {
	p := GetPreset(group, name)
	if p == nil {
		return fmt.Errorf("config: unknown preset %q in group %q (available: %v)", name, group, ListPresets(group))
	}
	if group == "los" {
		c.Sightline = p.Sightline
	}
	if p.Observer != (PositionConfig{}) {
		c.Observer = p.Observer
	}
	if p.Step != 0 {
		c.Step = p.Step
	}
	if p.Samples != 0 {
		c.Samples = p.Samples
	}
	if p.Seed != 0 {
		c.Seed = p.Seed
	}
	if p.Trace.Step != 0 {
		c.Trace.Step = p.Trace.Step
	}
	if p.Trace.MaxSteps != 0 {
		c.Trace.MaxSteps = p.Trace.MaxSteps
	}
	return nil
}
