// Package convert runs the DXF to element conversion pipeline: parse
// the drawing, build the object tree, scale it, count both sides and
// emit the element XML plus an optional conversion report.
package convert

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/OpenTraceLab/dxf2elmt/pkg/qelmt"
	"github.com/lucasb-eyer/go-colorful"
)

// Options configures one conversion run.
type Options struct {
	// SplineStep is the number of polygon segments per spline.
	SplineStep int

	// PxPerMM is the pixels-per-millimeter scale applied to the tree.
	PxPerMM float64

	// StaticText emits TEXT entities as static text objects.
	StaticText bool

	// DefaultColor is the fallback text color as a #rrggbb hex string;
	// empty means black.
	DefaultColor string

	// Logger receives pipeline diagnostics; nil means quiet.
	Logger *slog.Logger
}

// DefaultOptions returns the conversion defaults (20 spline segments,
// 2 px per mm).
func DefaultOptions() Options {
	return Options{
		SplineStep: 20,
		PxPerMM:    2.0,
	}
}

// Result is the outcome of one conversion.
type Result struct {
	Definition *qelmt.Definition
	Stats      ConversionStats
	Emitted    EmittedStats
}

// File loads a DXF file and converts it. Loading is the only fatal
// entity-side failure; every transformation past it is total.
func File(path string, opts Options) (*Result, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	drawing, err := dxf.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s (must be a valid .dxf file): %w", name, err)
	}

	return Drawing(name, drawing, opts)
}

// Drawing converts an already parsed drawing. The elapsed time in the
// stats spans the whole pipeline: tree build, scaling and both counts.
func Drawing(name string, drawing *dxf.Drawing, opts Options) (*Result, error) {
	start := time.Now()

	buildOpts := qelmt.BuildOptions{
		SplineStep: opts.SplineStep,
		PxPerMM:    opts.PxPerMM,
		StaticText: opts.StaticText,
		Logger:     opts.Logger,
	}
	if opts.DefaultColor != "" {
		c, err := colorful.Hex(opts.DefaultColor)
		if err != nil {
			return nil, fmt.Errorf("invalid default color %q: %w", opts.DefaultColor, err)
		}
		buildOpts.DefaultColor = &c
	}

	def := qelmt.NewDefinition(name, drawing, buildOpts)

	stats := CountEntities(drawing.Entities)
	emitted := CountObjects(def.Description.Objects)
	stats.ElapsedMS = time.Since(start).Milliseconds()

	if opts.Logger != nil {
		opts.Logger.Info("conversion finished",
			"name", name,
			"entities", stats.Total(),
			"objects", emitted.Total(),
			"elapsed_ms", stats.ElapsedMS)
	}

	return &Result{
		Definition: def,
		Stats:      stats,
		Emitted:    emitted,
	}, nil
}
