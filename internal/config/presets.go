package config

import "sort"

var Presets = map[string]*Config{
	"pi":     preset([]string{"3.14159", "1.0"}, nil),
	"golden": preset([]string{"1.61803398", "1.0"}, nil),
	"sqrt2":  preset([]string{"1.41421356", "1.0"}, nil),
	"e":      preset([]string{"2.718281828", "1.0"}, nil),
	"oil":    preset([]string{"85.47", "72.65", "21.37"}, nil),
	"4d":     preset([]string{"20.0", "7.0", "17.0", "21.40"}, nil),
	"pi-masked": preset(
		[]string{"3.14159", "1.0", "2.5"},
		[]bool{true, true, false},
	),
}

func preset(values []string, mask []bool) *Config {
	cfg := DefaultConfig()
	cfg.Values = values
	cfg.Mask = mask
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
