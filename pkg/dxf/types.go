// Package dxf provides parsing for ASCII DXF drawing exchange files.
// It reads the ENTITIES and BLOCKS sections into a typed entity model;
// everything it does not understand is preserved as an Unsupported
// entity so callers can still account for it.
package dxf

// Point represents a 3D coordinate in DXF drawing units.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Entity is one drawing element from the source model. Concrete types
// are dispatched with a type switch; EntityName returns the DXF record
// name (e.g. "CIRCLE").
type Entity interface {
	EntityName() string
}

// Drawing is a parsed DXF file: the flat entity stream plus the block
// definitions referenced by INSERT entities.
type Drawing struct {
	Entities []Entity // Entities in file order
	Blocks   []Block  // Block definitions from the BLOCKS section
}

// Block returns the block definition with the given name, or nil.
func (d *Drawing) Block(name string) *Block {
	for i := range d.Blocks {
		if d.Blocks[i].Name == name {
			return &d.Blocks[i]
		}
	}
	return nil
}

// Block is a reusable group of entities placed by INSERT.
type Block struct {
	Name     string   // Block name (group code 2)
	Base     Point    // Base point subtracted at insertion
	Entities []Entity // Entities the block contains
}

// Circle entity.
type Circle struct {
	Center Point
	Radius float64
}

// Line entity.
type Line struct {
	P1 Point
	P2 Point
}

// Arc entity. Angles are in degrees, counter-clockwise from east.
type Arc struct {
	Center     Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

// Ellipse entity. MajorAxis is the endpoint of the major axis relative
// to the center; Ratio is minor/major axis length.
type Ellipse struct {
	Center     Point
	MajorAxis  Point
	Ratio      float64
	StartParam float64 // radians
	EndParam   float64 // radians
}

// Text is a single-line TEXT entity.
type Text struct {
	Location                    Point
	TextHeight                  float64
	Value                       string
	Rotation                    float64 // degrees
	TextStyleName               string
	HorizontalTextJustification int // group code 72
	VerticalTextJustification   int // group code 73
}

// MText is a multi-line rich-text entity carrying inline formatting
// escape codes. Text over 250 characters is split: the overflow chunks
// arrive in ExtendedText (group code 3) and the tail in Text (group
// code 1).
type MText struct {
	InsertionPoint          Point
	InitialTextHeight       float64
	ReferenceRectangleWidth float64 // group code 41, 0 when unset
	Text                    string
	ExtendedText            []string
	RotationAngle           float64 // degrees
	AttachmentPoint         int     // group code 71, 1..9
	TextStyleName           string
}

// AttributeDefinition is an ATTDEF entity (template text inside blocks).
type AttributeDefinition struct {
	Location                    Point
	TextHeight                  float64
	Value                       string // default value
	Tag                         string
	Prompt                      string
	Rotation                    float64
	TextStyleName               string
	HorizontalTextJustification int // group code 72
	VerticalTextJustification   int // group code 74
}

// Polyline is a classic POLYLINE entity with VERTEX records.
type Polyline struct {
	Vertices []Point
	Closed   bool
}

// LwPolyline is a lightweight polyline with inline vertices.
type LwPolyline struct {
	Points []Point
	Closed bool
}

// Spline entity. Control points are used when present, fit points
// otherwise.
type Spline struct {
	ControlPoints []Point
	FitPoints     []Point
	Degree        int
	Closed        bool
}

// Solid is a filled triangle/quadrilateral. DXF stores the corners in
// 1-2-4-3 drawing order.
type Solid struct {
	Corners [4]Point
}

// Insert places a block definition at a position.
type Insert struct {
	BlockName string
	Position  Point
	ScaleX    float64
	ScaleY    float64
	Rotation  float64 // degrees
}

// Unsupported preserves entities the parser does not model.
type Unsupported struct {
	Name string
}

func (Circle) EntityName() string              { return "CIRCLE" }
func (Line) EntityName() string                { return "LINE" }
func (Arc) EntityName() string                 { return "ARC" }
func (Ellipse) EntityName() string             { return "ELLIPSE" }
func (Text) EntityName() string                { return "TEXT" }
func (MText) EntityName() string               { return "MTEXT" }
func (AttributeDefinition) EntityName() string { return "ATTDEF" }
func (Polyline) EntityName() string            { return "POLYLINE" }
func (LwPolyline) EntityName() string          { return "LWPOLYLINE" }
func (Spline) EntityName() string              { return "SPLINE" }
func (Solid) EntityName() string               { return "SOLID" }
func (Insert) EntityName() string              { return "INSERT" }
func (u Unsupported) EntityName() string       { return u.Name }
