package convert

import (
	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/OpenTraceLab/dxf2elmt/pkg/qelmt"
)

// ConversionStats tallies the source entity stream by kind. The sum of
// all counters equals the number of entities visited.
type ConversionStats struct {
	Circles     uint32 `json:"circles"`
	Lines       uint32 `json:"lines"`
	Arcs        uint32 `json:"arcs"`
	Splines     uint32 `json:"splines"`
	Texts       uint32 `json:"texts"`
	Ellipses    uint32 `json:"ellipses"`
	Polylines   uint32 `json:"polylines"`
	LwPolylines uint32 `json:"lwpolylines"`
	Solids      uint32 `json:"solids"`
	Blocks      uint32 `json:"blocks"`
	Unsupported uint32 `json:"unsupported"`
	ElapsedMS   int64  `json:"elapsed_ms"`
}

// Total returns the number of source entities visited.
func (s ConversionStats) Total() uint32 {
	return s.Circles + s.Lines + s.Arcs + s.Splines + s.Texts +
		s.Ellipses + s.Polylines + s.LwPolylines + s.Solids +
		s.Blocks + s.Unsupported
}

// CountEntities tallies the flat source entity stream. Text variants
// (TEXT, MTEXT, ATTDEF) all count as texts; INSERT counts as a block.
func CountEntities(entities []dxf.Entity) ConversionStats {
	var s ConversionStats
	for _, entity := range entities {
		switch entity.(type) {
		case dxf.Circle:
			s.Circles++
		case dxf.Line:
			s.Lines++
		case dxf.Arc:
			s.Arcs++
		case dxf.Spline:
			s.Splines++
		case dxf.Text, dxf.MText, dxf.AttributeDefinition:
			s.Texts++
		case dxf.Ellipse:
			s.Ellipses++
		case dxf.Polyline:
			s.Polylines++
		case dxf.LwPolyline:
			s.LwPolylines++
		case dxf.Solid:
			s.Solids++
		case dxf.Insert:
			s.Blocks++
		default:
			s.Unsupported++
		}
	}
	return s
}

// EmittedStats tallies the emitted object tree by kind. Categories
// differ from the source tally (circles emit as ellipses, splines and
// polylines as polygons), but the sum still equals the number of
// objects visited, groups included.
type EmittedStats struct {
	Ellipses     uint32 `json:"ellipses"`
	Lines        uint32 `json:"lines"`
	Arcs         uint32 `json:"arcs"`
	Polygons     uint32 `json:"polygons"`
	DynamicTexts uint32 `json:"dynamic_texts"`
	Texts        uint32 `json:"texts"`
	Groups       uint32 `json:"groups"`
}

// Total returns the number of emitted objects visited, groups counted
// and their children flattened into the same totals.
func (s EmittedStats) Total() uint32 {
	return s.Ellipses + s.Lines + s.Arcs + s.Polygons +
		s.DynamicTexts + s.Texts + s.Groups
}

// CountObjects tallies the object tree, recursing through groups.
func CountObjects(objects []qelmt.Object) EmittedStats {
	var s EmittedStats
	countObjects(objects, &s)
	return s
}

func countObjects(objects []qelmt.Object, s *EmittedStats) {
	for _, obj := range objects {
		switch o := obj.(type) {
		case *qelmt.Ellipse:
			s.Ellipses++
		case *qelmt.Line:
			s.Lines++
		case *qelmt.Arc:
			s.Arcs++
		case *qelmt.Polygon:
			s.Polygons++
		case *qelmt.DynamicText:
			s.DynamicTexts++
		case *qelmt.Text:
			s.Texts++
		case *qelmt.Group:
			s.Groups++
			countObjects(o.Objects, s)
		}
	}
}
