package qelmt

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// ElementVersion is the element file format version written to the
// definition root.
const ElementVersion = "0.80"

// BuildOptions controls how a drawing is turned into an element
// description.
type BuildOptions struct {
	// SplineStep is the number of segments used to approximate a
	// spline as a polygon.
	SplineStep int

	// PxPerMM is the uniform scale factor applied to the finished tree
	// (target pixels per drawing millimeter).
	PxPerMM float64

	// StaticText emits TEXT entities as static text objects instead of
	// dynamic ones. MTEXT and ATTDEF are always dynamic.
	StaticText bool

	// DefaultColor is the fallback text color when the source carries
	// no usable color index. Nil means black.
	DefaultColor *colorful.Color

	// Logger receives per-entity diagnostics. Nil disables them.
	Logger *slog.Logger
}

// DefaultBuildOptions returns the conversion defaults: 20 spline
// segments and 2 px per mm.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		SplineStep: 20,
		PxPerMM:    2.0,
	}
}

// Description holds the object tree of one element definition. It is
// owned by its Definition for the lifetime of a single conversion.
type Description struct {
	Objects []Object
}

// Definition is the root of one converted element.
type Definition struct {
	Name        string
	UUID        uuid.UUID
	Width       int
	Height      int
	HotspotX    int
	HotspotY    int
	Description Description
}

// NewDefinition converts a parsed drawing into an element definition:
// the entity stream is transformed into the object tree, then the
// whole tree is scaled exactly once before any emission or counting.
func NewDefinition(name string, drawing *dxf.Drawing, opts BuildOptions) *Definition {
	if opts.SplineStep < 1 {
		opts.SplineStep = 1
	}
	if opts.PxPerMM <= 0 {
		opts.PxPerMM = 2.0
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	def := &Definition{
		Name: name,
		UUID: uuid.New(),
	}
	def.Description.Objects = buildObjects(drawing, drawing.Entities, opts, nil)

	for _, obj := range def.Description.Objects {
		obj.Scale(opts.PxPerMM, opts.PxPerMM)
	}

	def.fitBounds()
	return def
}

// buildObjects transforms one entity sequence. visited carries the
// block names on the current insertion path so cyclic block references
// cannot recurse forever; the emitted tree stays finite and acyclic.
func buildObjects(drawing *dxf.Drawing, entities []dxf.Entity, opts BuildOptions, visited []string) []Object {
	var objects []Object

	defaultColor := colorful.Color{}
	if opts.DefaultColor != nil {
		defaultColor = *opts.DefaultColor
	}

	for _, entity := range entities {
		switch e := entity.(type) {
		case dxf.Circle:
			objects = append(objects, NewEllipseFromCircle(&e))
		case dxf.Line:
			objects = append(objects, NewLine(&e))
		case dxf.Arc:
			objects = append(objects, NewArc(&e))
		case dxf.Ellipse:
			objects = append(objects, NewEllipse(&e))
		case dxf.Text:
			if opts.StaticText {
				objects = append(objects, NewText(&e, defaultColor))
			} else {
				objects = append(objects, DTextFromText(&e).Color(defaultColor).Build())
			}
		case dxf.MText:
			objects = append(objects, DTextFromMText(&e).Color(defaultColor).Build())
		case dxf.AttributeDefinition:
			objects = append(objects, DTextFromAttrib(&e).Color(defaultColor).Build())
		case dxf.Polyline:
			objects = append(objects, NewPolygonFromPolyline(&e))
		case dxf.LwPolyline:
			objects = append(objects, NewPolygonFromLwPolyline(&e))
		case dxf.Spline:
			objects = append(objects, NewPolygonFromSpline(&e, opts.SplineStep))
		case dxf.Solid:
			objects = append(objects, NewPolygonFromSolid(&e))
		case dxf.Insert:
			objects = append(objects, buildGroup(drawing, e, opts, visited))
		case dxf.Unsupported:
			opts.Logger.Debug("skipping unsupported entity", "type", e.Name)
		}
	}

	return objects
}

// buildGroup expands an INSERT into a group of the referenced block's
// objects, offset to the insertion point. Insert rotation and
// non-unit scale are not applied.
func buildGroup(drawing *dxf.Drawing, ins dxf.Insert, opts BuildOptions, visited []string) *Group {
	group := &Group{}

	block := drawing.Block(ins.BlockName)
	if block == nil {
		opts.Logger.Warn("insert references unknown block", "block", ins.BlockName)
		return group
	}
	for _, name := range visited {
		if name == ins.BlockName {
			opts.Logger.Warn("cyclic block reference skipped", "block", ins.BlockName)
			return group
		}
	}
	if ins.Rotation != 0 || ins.ScaleX != 1 || ins.ScaleY != 1 {
		opts.Logger.Debug("insert rotation/scale ignored",
			"block", ins.BlockName, "rotation", ins.Rotation,
			"sx", ins.ScaleX, "sy", ins.ScaleY)
	}

	dx := ins.Position.X - block.Base.X
	dy := ins.Position.Y - block.Base.Y
	placed := make([]dxf.Entity, len(block.Entities))
	for i, e := range block.Entities {
		placed[i] = dxf.Translate(e, dx, dy)
	}

	group.Objects = buildObjects(drawing, placed, opts, append(visited, ins.BlockName))
	return group
}

// fitBounds derives the element canvas size and hotspot from the
// object extents, rounded out to the editor's 10-unit grid.
func (d *Definition) fitBounds() {
	if len(d.Description.Objects) == 0 {
		// One grid cell with the hotspot at its origin.
		d.Width, d.Height = 10, 10
		d.HotspotX, d.HotspotY = 0, 0
		return
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, obj := range d.Description.Objects {
		minX = math.Min(minX, obj.LeftBound())
		maxX = math.Max(maxX, obj.RightBound())
		minY = math.Min(minY, obj.TopBound())
		maxY = math.Max(maxY, obj.BotBound())
	}

	roundUp10 := func(v float64) int {
		return (int(math.Ceil(v))/10 + 1) * 10
	}
	d.Width = roundUp10(maxX - minX)
	d.Height = roundUp10(maxY - minY)
	d.HotspotX = roundUp10(-minX) - 10
	d.HotspotY = roundUp10(-minY) - 10
}

// MarshalXML emits the definition root with its uuid, names,
// informations and description children.
func (d *Definition) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	root := xml.StartElement{
		Name: xml.Name{Local: "definition"},
		Attr: []xml.Attr{
			attr("width", strconv.Itoa(d.Width)),
			attr("height", strconv.Itoa(d.Height)),
			attr("hotspot_x", strconv.Itoa(d.HotspotX)),
			attr("hotspot_y", strconv.Itoa(d.HotspotY)),
			attr("version", ElementVersion),
			attr("link_type", "simple"),
			attr("type", "element"),
		},
	}
	if err := e.EncodeToken(root); err != nil {
		return err
	}

	uuidStart := xml.StartElement{
		Name: xml.Name{Local: "uuid"},
		Attr: []xml.Attr{attr("uuid", fmt.Sprintf("{%s}", d.UUID))},
	}
	if err := e.EncodeToken(uuidStart); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.EndElement{Name: uuidStart.Name}); err != nil {
		return err
	}

	namesStart := xml.StartElement{Name: xml.Name{Local: "names"}}
	if err := e.EncodeToken(namesStart); err != nil {
		return err
	}
	nameStart := xml.StartElement{
		Name: xml.Name{Local: "name"},
		Attr: []xml.Attr{attr("lang", "en")},
	}
	if err := e.EncodeElement(d.Name, nameStart); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.EndElement{Name: namesStart.Name}); err != nil {
		return err
	}

	infoStart := xml.StartElement{Name: xml.Name{Local: "informations"}}
	if err := e.EncodeElement("Converted from DXF by dxf2elmt", infoStart); err != nil {
		return err
	}

	descStart := xml.StartElement{Name: xml.Name{Local: "description"}}
	if err := e.EncodeToken(descStart); err != nil {
		return err
	}
	if err := encodeObjects(e, d.Description.Objects); err != nil {
		return err
	}
	if err := e.EncodeToken(xml.EndElement{Name: descStart.Name}); err != nil {
		return err
	}

	return e.EncodeToken(xml.EndElement{Name: root.Name})
}

// encodeObjects emits the object sequence, flattening groups in place.
func encodeObjects(e *xml.Encoder, objects []Object) error {
	for _, obj := range objects {
		if group, ok := obj.(*Group); ok {
			if err := encodeObjects(e, group.Objects); err != nil {
				return err
			}
			continue
		}
		if err := e.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}

// WriteXML serializes the definition as an indented XML document.
func (d *Definition) WriteXML(w io.Writer) error {
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write([]byte("\n"))
	return err
}
