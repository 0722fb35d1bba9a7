package qelmt

import (
	"encoding/xml"
	"fmt"
	"math"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
)

// Line is a straight segment of the element description.
type Line struct {
	X1, Y1 float64
	X2, Y2 float64
}

// NewLine builds a line from a LINE entity, inverting the y axis.
func NewLine(src *dxf.Line) *Line {
	return &Line{
		X1: src.P1.X,
		Y1: -src.P1.Y,
		X2: src.P2.X,
		Y2: -src.P2.Y,
	}
}

// MarshalXML emits the line node with the editor's default end caps.
func (l *Line) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "line"},
		Attr: []xml.Attr{
			attr("x1", twoDec(l.X1)),
			attr("y1", twoDec(l.Y1)),
			attr("x2", twoDec(l.X2)),
			attr("y2", twoDec(l.Y2)),
			attr("length1", "1.5"),
			attr("length2", "1.5"),
			attr("end1", "none"),
			attr("end2", "none"),
			boolAttr("antialias", false),
			attr("style", defaultStyle),
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Scale implements the Object scaling contract.
func (l *Line) Scale(fx, fy float64) {
	l.X1 *= fx
	l.Y1 *= fy
	l.X2 *= fx
	l.Y2 *= fy
}

// LeftBound returns the smaller x coordinate.
func (l *Line) LeftBound() float64 { return math.Min(l.X1, l.X2) }

// RightBound returns the larger x coordinate.
func (l *Line) RightBound() float64 { return math.Max(l.X1, l.X2) }

// TopBound returns the smaller y coordinate.
func (l *Line) TopBound() float64 { return math.Min(l.Y1, l.Y2) }

// BotBound returns the larger y coordinate.
func (l *Line) BotBound() float64 { return math.Max(l.Y1, l.Y2) }

// Ellipse is an axis-aligned ellipse given by its bounding rectangle.
// Circles are emitted as ellipses with equal width and height.
type Ellipse struct {
	X, Y          float64 // top-left corner of the bounding rectangle
	Width, Height float64
}

// NewEllipseFromCircle builds an ellipse from a CIRCLE entity.
func NewEllipseFromCircle(src *dxf.Circle) *Ellipse {
	return &Ellipse{
		X:      src.Center.X - src.Radius,
		Y:      -src.Center.Y - src.Radius,
		Width:  src.Radius * 2,
		Height: src.Radius * 2,
	}
}

// NewEllipse builds an ellipse from an ELLIPSE entity. The major axis
// rotation is not carried over; the axis lengths are kept.
func NewEllipse(src *dxf.Ellipse) *Ellipse {
	major := math.Hypot(src.MajorAxis.X, src.MajorAxis.Y)
	minor := major * src.Ratio
	return &Ellipse{
		X:      src.Center.X - major,
		Y:      -src.Center.Y - minor,
		Width:  major * 2,
		Height: minor * 2,
	}
}

// MarshalXML emits the ellipse node.
func (el *Ellipse) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "ellipse"},
		Attr: []xml.Attr{
			attr("x", twoDec(el.X)),
			attr("y", twoDec(el.Y)),
			attr("width", twoDec(el.Width)),
			attr("height", twoDec(el.Height)),
			boolAttr("antialias", true),
			attr("style", defaultStyle),
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Scale implements the Object scaling contract.
func (el *Ellipse) Scale(fx, fy float64) {
	el.X *= fx
	el.Y *= fy
	el.Width *= fx
	el.Height *= fy
}

// LeftBound returns the left edge of the bounding rectangle.
func (el *Ellipse) LeftBound() float64 { return el.X }

// RightBound returns the right edge of the bounding rectangle.
func (el *Ellipse) RightBound() float64 { return el.X + el.Width }

// TopBound returns the top edge of the bounding rectangle.
func (el *Ellipse) TopBound() float64 { return el.Y }

// BotBound returns the bottom edge of the bounding rectangle.
func (el *Ellipse) BotBound() float64 { return el.Y + el.Height }

// Arc is an elliptical arc: a bounding rectangle plus start angle and
// span, in degrees counter-clockwise.
type Arc struct {
	X, Y          float64
	Width, Height float64
	Start         float64
	Angle         float64
}

// NewArc builds an arc from an ARC entity. The span is normalized to
// a positive sweep.
func NewArc(src *dxf.Arc) *Arc {
	span := src.EndAngle - src.StartAngle
	if span < 0 {
		span += 360
	}
	return &Arc{
		X:      src.Center.X - src.Radius,
		Y:      -src.Center.Y - src.Radius,
		Width:  src.Radius * 2,
		Height: src.Radius * 2,
		Start:  src.StartAngle,
		Angle:  span,
	}
}

// MarshalXML emits the arc node.
func (a *Arc) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "arc"},
		Attr: []xml.Attr{
			attr("x", twoDec(a.X)),
			attr("y", twoDec(a.Y)),
			attr("width", twoDec(a.Width)),
			attr("height", twoDec(a.Height)),
			attr("start", twoDec(a.Start)),
			attr("angle", twoDec(a.Angle)),
			boolAttr("antialias", true),
			attr("style", defaultStyle),
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Scale implements the Object scaling contract; angles are unaffected.
func (a *Arc) Scale(fx, fy float64) {
	a.X *= fx
	a.Y *= fy
	a.Width *= fx
	a.Height *= fy
}

// LeftBound returns the left edge of the bounding rectangle.
func (a *Arc) LeftBound() float64 { return a.X }

// RightBound returns the right edge of the bounding rectangle.
func (a *Arc) RightBound() float64 { return a.X + a.Width }

// TopBound returns the top edge of the bounding rectangle.
func (a *Arc) TopBound() float64 { return a.Y }

// BotBound returns the bottom edge of the bounding rectangle.
func (a *Arc) BotBound() float64 { return a.Y + a.Height }

// XY is one polygon vertex in target coordinates.
type XY struct {
	X float64
	Y float64
}

// Polygon is an open or closed vertex chain. Polylines, lightweight
// polylines, sampled splines and solids all emit as polygons.
type Polygon struct {
	Points []XY
	Closed bool
}

// NewPolygonFromPolyline builds a polygon from a POLYLINE entity.
func NewPolygonFromPolyline(src *dxf.Polyline) *Polygon {
	p := &Polygon{Closed: src.Closed}
	for _, v := range src.Vertices {
		p.Points = append(p.Points, XY{X: v.X, Y: -v.Y})
	}
	return p
}

// NewPolygonFromLwPolyline builds a polygon from a LWPOLYLINE entity.
func NewPolygonFromLwPolyline(src *dxf.LwPolyline) *Polygon {
	p := &Polygon{Closed: src.Closed}
	for _, v := range src.Points {
		p.Points = append(p.Points, XY{X: v.X, Y: -v.Y})
	}
	return p
}

// NewPolygonFromSolid builds a closed polygon from a SOLID entity.
// DXF stores solid corners in 1-2-4-3 drawing order.
func NewPolygonFromSolid(src *dxf.Solid) *Polygon {
	order := [4]int{0, 1, 3, 2}
	p := &Polygon{Closed: true}
	for _, idx := range order {
		p.Points = append(p.Points, XY{X: src.Corners[idx].X, Y: -src.Corners[idx].Y})
	}
	return p
}

// NewPolygonFromSpline approximates a SPLINE entity by sampling its
// control polygon as a Bezier curve with de Casteljau evaluation,
// step segments per curve. Fit points are used when no control points
// are present.
func NewPolygonFromSpline(src *dxf.Spline, step int) *Polygon {
	points := src.ControlPoints
	if len(points) == 0 {
		points = src.FitPoints
	}
	p := &Polygon{Closed: src.Closed}
	if len(points) == 0 {
		return p
	}
	if step < 1 {
		step = 1
	}
	for i := 0; i <= step; i++ {
		t := float64(i) / float64(step)
		x, y := deCasteljau(points, t)
		p.Points = append(p.Points, XY{X: x, Y: -y})
	}
	return p
}

// deCasteljau evaluates the Bezier curve over the control points at
// parameter t in [0,1].
func deCasteljau(points []dxf.Point, t float64) (float64, float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, pt := range points {
		xs[i] = pt.X
		ys[i] = pt.Y
	}
	for n := len(xs) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			xs[i] = xs[i]*(1-t) + xs[i+1]*t
			ys[i] = ys[i]*(1-t) + ys[i+1]*t
		}
	}
	return xs[0], ys[0]
}

// MarshalXML emits the polygon node with numbered coordinate
// attributes (x1 y1 x2 y2 ...).
func (p *Polygon) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: "polygon"}}
	for i, pt := range p.Points {
		start.Attr = append(start.Attr,
			attr(fmt.Sprintf("x%d", i+1), twoDec(pt.X)),
			attr(fmt.Sprintf("y%d", i+1), twoDec(pt.Y)),
		)
	}
	start.Attr = append(start.Attr,
		boolAttr("closed", p.Closed),
		boolAttr("antialias", false),
		attr("style", defaultStyle),
	)
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Scale implements the Object scaling contract.
func (p *Polygon) Scale(fx, fy float64) {
	for i := range p.Points {
		p.Points[i].X *= fx
		p.Points[i].Y *= fy
	}
}

// LeftBound returns the minimum x over all vertices.
func (p *Polygon) LeftBound() float64 {
	v := 0.0
	for i, pt := range p.Points {
		if i == 0 || pt.X < v {
			v = pt.X
		}
	}
	return v
}

// RightBound returns the maximum x over all vertices.
func (p *Polygon) RightBound() float64 {
	v := 0.0
	for i, pt := range p.Points {
		if i == 0 || pt.X > v {
			v = pt.X
		}
	}
	return v
}

// TopBound returns the minimum y over all vertices.
func (p *Polygon) TopBound() float64 {
	v := 0.0
	for i, pt := range p.Points {
		if i == 0 || pt.Y < v {
			v = pt.Y
		}
	}
	return v
}

// BotBound returns the maximum y over all vertices.
func (p *Polygon) BotBound() float64 {
	v := 0.0
	for i, pt := range p.Points {
		if i == 0 || pt.Y > v {
			v = pt.Y
		}
	}
	return v
}
