package convert

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is an optional YAML conversion profile. Pointer fields
// distinguish "unset" from zero values; set fields override the
// defaults but lose to explicit command-line flags.
//
//	spline_step: 40
//	px_per_mm: 3.5
//	default_color: "#204a87"
//	static_text: true
type Profile struct {
	SplineStep   *int     `yaml:"spline_step"`
	PxPerMM      *float64 `yaml:"px_per_mm"`
	DefaultColor *string  `yaml:"default_color"`
	StaticText   *bool    `yaml:"static_text"`
}

// LoadProfile reads a YAML conversion profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &p, nil
}

// Apply copies the profile's set fields onto the options.
func (p *Profile) Apply(opts *Options) {
	if p.SplineStep != nil {
		opts.SplineStep = *p.SplineStep
	}
	if p.PxPerMM != nil {
		opts.PxPerMM = *p.PxPerMM
	}
	if p.DefaultColor != nil {
		opts.DefaultColor = *p.DefaultColor
	}
	if p.StaticText != nil {
		opts.StaticText = *p.StaticText
	}
}
