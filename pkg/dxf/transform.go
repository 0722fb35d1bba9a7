package dxf

// Translate returns a copy of the entity shifted by (dx, dy) in DXF
// drawing coordinates. Used to place block entities at their insertion
// point before conversion. Unsupported entities are returned as-is.
func Translate(e Entity, dx, dy float64) Entity {
	shift := func(p Point) Point {
		return Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
	}
	switch v := e.(type) {
	case Circle:
		v.Center = shift(v.Center)
		return v
	case Line:
		v.P1 = shift(v.P1)
		v.P2 = shift(v.P2)
		return v
	case Arc:
		v.Center = shift(v.Center)
		return v
	case Ellipse:
		v.Center = shift(v.Center)
		return v
	case Text:
		v.Location = shift(v.Location)
		return v
	case MText:
		v.InsertionPoint = shift(v.InsertionPoint)
		return v
	case AttributeDefinition:
		v.Location = shift(v.Location)
		return v
	case Polyline:
		pts := make([]Point, len(v.Vertices))
		for i, p := range v.Vertices {
			pts[i] = shift(p)
		}
		v.Vertices = pts
		return v
	case LwPolyline:
		pts := make([]Point, len(v.Points))
		for i, p := range v.Points {
			pts[i] = shift(p)
		}
		v.Points = pts
		return v
	case Spline:
		ctrl := make([]Point, len(v.ControlPoints))
		for i, p := range v.ControlPoints {
			ctrl[i] = shift(p)
		}
		fit := make([]Point, len(v.FitPoints))
		for i, p := range v.FitPoints {
			fit[i] = shift(p)
		}
		v.ControlPoints = ctrl
		v.FitPoints = fit
		return v
	case Solid:
		for i := range v.Corners {
			v.Corners[i] = shift(v.Corners[i])
		}
		return v
	case Insert:
		v.Position = shift(v.Position)
		return v
	default:
		return e
	}
}
