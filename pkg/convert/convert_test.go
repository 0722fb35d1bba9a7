package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/OpenTraceLab/dxf2elmt/pkg/qelmt"
)

// testDrawing is the shape used throughout: two circles, three lines,
// one text and one insert of an empty block.
func testDrawing() *dxf.Drawing {
	return &dxf.Drawing{
		Entities: []dxf.Entity{
			dxf.Circle{Center: dxf.Point{X: 1, Y: 1}, Radius: 2},
			dxf.Circle{Center: dxf.Point{X: 5, Y: 5}, Radius: 1},
			dxf.Line{P1: dxf.Point{X: 0, Y: 0}, P2: dxf.Point{X: 10, Y: 0}},
			dxf.Line{P1: dxf.Point{X: 0, Y: 0}, P2: dxf.Point{X: 0, Y: 10}},
			dxf.Line{P1: dxf.Point{X: 10, Y: 0}, P2: dxf.Point{X: 10, Y: 10}},
			dxf.Text{Location: dxf.Point{X: 2, Y: 3}, TextHeight: 4, Value: "Hello"},
			dxf.Insert{BlockName: "EMPTY", Position: dxf.Point{X: 1, Y: 1}, ScaleX: 1, ScaleY: 1},
		},
		Blocks: []dxf.Block{
			{Name: "EMPTY"},
		},
	}
}

func TestCountEntities(t *testing.T) {
	stats := CountEntities(testDrawing().Entities)

	assert.Equal(t, uint32(2), stats.Circles)
	assert.Equal(t, uint32(3), stats.Lines)
	assert.Equal(t, uint32(1), stats.Texts)
	assert.Equal(t, uint32(1), stats.Blocks)
	assert.Equal(t, uint32(0), stats.Unsupported)
	assert.Equal(t, uint32(7), stats.Total())
}

func TestCountEntitiesTextVariants(t *testing.T) {
	stats := CountEntities([]dxf.Entity{
		dxf.Text{Value: "a"},
		dxf.MText{Text: "b"},
		dxf.AttributeDefinition{Value: "c"},
	})
	assert.Equal(t, uint32(3), stats.Texts)
	assert.Equal(t, uint32(3), stats.Total())
}

func TestCountEntitiesUnsupported(t *testing.T) {
	stats := CountEntities([]dxf.Entity{
		dxf.Unsupported{Name: "HATCH"},
		dxf.Unsupported{Name: "DIMENSION"},
	})
	assert.Equal(t, uint32(2), stats.Unsupported)
	assert.Equal(t, uint32(2), stats.Total())
}

func TestCountEntitiesConservation(t *testing.T) {
	entities := []dxf.Entity{
		dxf.Circle{}, dxf.Line{}, dxf.Arc{}, dxf.Spline{},
		dxf.Text{}, dxf.MText{}, dxf.Ellipse{}, dxf.Polyline{},
		dxf.LwPolyline{}, dxf.Solid{}, dxf.Insert{},
		dxf.Unsupported{Name: "HATCH"},
	}
	stats := CountEntities(entities)
	assert.Equal(t, uint32(len(entities)), stats.Total(),
		"every entity must land in exactly one counter")
}

func TestCountObjectsRecursesGroups(t *testing.T) {
	objects := []qelmt.Object{
		&qelmt.Ellipse{},
		&qelmt.Group{Objects: []qelmt.Object{
			&qelmt.Line{},
			&qelmt.Group{Objects: []qelmt.Object{
				&qelmt.DynamicText{},
			}},
		}},
	}

	emitted := CountObjects(objects)
	assert.Equal(t, uint32(1), emitted.Ellipses)
	assert.Equal(t, uint32(1), emitted.Lines)
	assert.Equal(t, uint32(1), emitted.DynamicTexts)
	assert.Equal(t, uint32(2), emitted.Groups)
	assert.Equal(t, uint32(5), emitted.Total())
}

func TestDrawingPipeline(t *testing.T) {
	res, err := Drawing("sample", testDrawing(), DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, res.Definition)

	assert.Equal(t, uint32(7), res.Stats.Total())

	assert.Equal(t, uint32(2), res.Emitted.Ellipses)
	assert.Equal(t, uint32(3), res.Emitted.Lines)
	assert.Equal(t, uint32(1), res.Emitted.DynamicTexts)
	assert.Equal(t, uint32(1), res.Emitted.Groups)
	assert.Equal(t, uint32(7), res.Emitted.Total())

	assert.Equal(t, "sample", res.Definition.Name)
}

func TestDrawingStaticText(t *testing.T) {
	opts := DefaultOptions()
	opts.StaticText = true

	res, err := Drawing("sample", testDrawing(), opts)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), res.Emitted.DynamicTexts)
	assert.Equal(t, uint32(1), res.Emitted.Texts)
}

func TestDrawingDefaultColor(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultColor = "#336699"

	res, err := Drawing("sample", testDrawing(), opts)
	require.NoError(t, err)

	var found *qelmt.DynamicText
	for _, obj := range res.Definition.Description.Objects {
		if dt, ok := obj.(*qelmt.DynamicText); ok {
			found = dt
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "#336699", found.Color.Hex())
}

func TestDrawingRejectsBadColor(t *testing.T) {
	opts := DefaultOptions()
	opts.DefaultColor = "notacolor"

	_, err := Drawing("sample", testDrawing(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid default color")
}

func TestFileRejectsMissing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.dxf"), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a valid .dxf file")
}

func TestFileParsesAndNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.dxf")
	content := strings.Join([]string{
		"0", "SECTION",
		"2", "ENTITIES",
		"0", "CIRCLE",
		"10", "1", "20", "1", "40", "2",
		"0", "ENDSEC",
		"0", "EOF",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	res, err := File(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "panel", res.Definition.Name)
	assert.Equal(t, uint32(1), res.Stats.Circles)
}

func TestWriteReport(t *testing.T) {
	res, err := Drawing("sample", testDrawing(), DefaultOptions())
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteReport(&b, "sample.dxf", res))
	report := b.String()

	assert.Contains(t, report, "=== DXF to ELMT conversion log ===")
	assert.Contains(t, report, "File: sample.dxf")
	assert.Contains(t, report, "=== SOURCE ENTITY STATISTICS (DXF) ===")
	assert.Contains(t, report, "Circles: 2")
	assert.Contains(t, report, "Lines: 3")
	assert.Contains(t, report, "Total: 7")
	assert.Contains(t, report, "=== EMITTED OBJECT STATISTICS (ELMT) ===")
	assert.Contains(t, report, "Groups (blocks): 1")
	assert.Contains(t, report, "--- Text 1 (DynamicText) ---")
	assert.Contains(t, report, `Content: "Hello"`)
	assert.Contains(t, report, "Total converted texts: 1")
	assert.NotContains(t, report, "WARNING: UNCONVERTED ENTITIES")
}

func TestWriteReportWarnsOnUnsupported(t *testing.T) {
	drawing := testDrawing()
	drawing.Entities = append(drawing.Entities, dxf.Unsupported{Name: "HATCH"})

	res, err := Drawing("sample", drawing, DefaultOptions())
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, WriteReport(&b, "sample.dxf", res))

	assert.Contains(t, b.String(), "=== WARNING: UNCONVERTED ENTITIES ===")
	assert.Contains(t, b.String(), "1 entities could not be converted.")
}

func TestProfileApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "spline_step: 40\npx_per_mm: 3.5\ndefault_color: \"#204a87\"\nstatic_text: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	opts := DefaultOptions()
	profile.Apply(&opts)

	assert.Equal(t, 40, opts.SplineStep)
	assert.Equal(t, 3.5, opts.PxPerMM)
	assert.Equal(t, "#204a87", opts.DefaultColor)
	assert.True(t, opts.StaticText)
}

func TestProfileApplyPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spline_step: 8\n"), 0o644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	opts := DefaultOptions()
	profile.Apply(&opts)

	assert.Equal(t, 8, opts.SplineStep)
	assert.Equal(t, 2.0, opts.PxPerMM, "unset fields keep their defaults")
	assert.False(t, opts.StaticText)
}

func TestLoadProfileErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := LoadProfile(missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing, "read errors carry the profile path")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spline_step: [not an int\n"), 0o644))
	_, err = LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path, "parse errors carry the profile path")
}
