package dxf

import (
	"fmt"
	"io"
	"os"
)

// ParseFile reads and parses an ASCII DXF file.
func ParseFile(filename string) (*Drawing, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a DXF drawing from an io.Reader. The ENTITIES and BLOCKS
// sections populate the drawing; other sections (HEADER, TABLES, ...)
// are skipped.
func Parse(r io.Reader) (*Drawing, error) {
	tr := NewTagReader(r)
	drawing := &Drawing{}
	sawSection := false

	for {
		tag, err := tr.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read tag: %w", err)
		}
		if tag.IsEOF() {
			break
		}
		if tag.Code != 0 {
			continue
		}
		switch tag.Value {
		case "SECTION":
			sawSection = true
			nameTag, err := tr.Next()
			if err != nil {
				return nil, fmt.Errorf("failed to read section name: %w", err)
			}
			if nameTag.Code != 2 {
				return nil, fmt.Errorf("SECTION not followed by a name tag (code 2), got code %d", nameTag.Code)
			}
			switch nameTag.Value {
			case "ENTITIES":
				entities, err := parseEntities(tr, "ENDSEC")
				if err != nil {
					return nil, fmt.Errorf("failed to parse ENTITIES section: %w", err)
				}
				drawing.Entities = entities
			case "BLOCKS":
				blocks, err := parseBlocks(tr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse BLOCKS section: %w", err)
				}
				drawing.Blocks = blocks
			default:
				if err := skipSection(tr); err != nil {
					return nil, fmt.Errorf("failed to skip %s section: %w", nameTag.Value, err)
				}
			}
		case "EOF":
			if !sawSection {
				return nil, fmt.Errorf("no sections found before EOF marker")
			}
			return drawing, nil
		}
	}

	if !sawSection {
		return nil, fmt.Errorf("empty file or not a DXF document")
	}
	return drawing, nil
}

// skipSection consumes tags until the matching ENDSEC.
func skipSection(tr *TagReader) error {
	for {
		tag, err := tr.Next()
		if err != nil {
			return err
		}
		if tag.IsEOF() {
			return fmt.Errorf("unexpected end of input inside section")
		}
		if tag.Code == 0 && tag.Value == "ENDSEC" {
			return nil
		}
	}
}

// parseEntities reads entities until a (0, terminator) tag.
func parseEntities(tr *TagReader, terminator string) ([]Entity, error) {
	var entities []Entity
	for {
		tag, err := tr.Next()
		if err != nil {
			return nil, err
		}
		if tag.IsEOF() {
			return nil, fmt.Errorf("unexpected end of input, missing %s", terminator)
		}
		if tag.Code != 0 {
			continue
		}
		if tag.Value == terminator {
			return entities, nil
		}
		entity, err := parseEntity(tr, tag.Value)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
}

// parseBlocks reads BLOCK ... ENDBLK definitions until ENDSEC.
func parseBlocks(tr *TagReader) ([]Block, error) {
	var blocks []Block
	for {
		tag, err := tr.Next()
		if err != nil {
			return nil, err
		}
		if tag.IsEOF() {
			return nil, fmt.Errorf("unexpected end of input in BLOCKS section")
		}
		if tag.Code != 0 {
			continue
		}
		switch tag.Value {
		case "ENDSEC":
			return blocks, nil
		case "BLOCK":
			block := Block{}
			for {
				t, err := tr.Peek()
				if err != nil {
					return nil, err
				}
				if t.IsEOF() || t.Code == 0 {
					break
				}
				tr.Next()
				switch t.Code {
				case 2:
					block.Name = t.Value
				case 10:
					block.Base.X = t.Float()
				case 20:
					block.Base.Y = t.Float()
				case 30:
					block.Base.Z = t.Float()
				}
			}
			entities, err := parseEntities(tr, "ENDBLK")
			if err != nil {
				return nil, fmt.Errorf("failed to parse block %q: %w", block.Name, err)
			}
			block.Entities = entities
			blocks = append(blocks, block)
		}
	}
}

// parseEntity dispatches on the entity record name. Unknown entities
// are captured as Unsupported with their remaining tags consumed.
func parseEntity(tr *TagReader, name string) (Entity, error) {
	switch name {
	case "CIRCLE":
		return parseCircle(tr)
	case "LINE":
		return parseLine(tr)
	case "ARC":
		return parseArc(tr)
	case "ELLIPSE":
		return parseEllipse(tr)
	case "TEXT":
		return parseText(tr)
	case "MTEXT":
		return parseMText(tr)
	case "ATTDEF":
		return parseAttDef(tr)
	case "POLYLINE":
		return parsePolyline(tr)
	case "LWPOLYLINE":
		return parseLwPolyline(tr)
	case "SPLINE":
		return parseSpline(tr)
	case "SOLID":
		return parseSolid(tr)
	case "INSERT":
		return parseInsert(tr)
	default:
		if err := consumeEntityTags(tr, func(Tag) {}); err != nil {
			return nil, err
		}
		return Unsupported{Name: name}, nil
	}
}

// consumeEntityTags feeds each tag of the current entity to fn, stopping
// before the next (code 0) record marker.
func consumeEntityTags(tr *TagReader, fn func(Tag)) error {
	for {
		tag, err := tr.Peek()
		if err != nil {
			return err
		}
		if tag.IsEOF() || tag.Code == 0 {
			return nil
		}
		tr.Next()
		fn(tag)
	}
}

func parseCircle(tr *TagReader) (Entity, error) {
	var c Circle
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			c.Center.X = t.Float()
		case 20:
			c.Center.Y = t.Float()
		case 30:
			c.Center.Z = t.Float()
		case 40:
			c.Radius = t.Float()
		}
	})
	return c, err
}

func parseLine(tr *TagReader) (Entity, error) {
	var l Line
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			l.P1.X = t.Float()
		case 20:
			l.P1.Y = t.Float()
		case 30:
			l.P1.Z = t.Float()
		case 11:
			l.P2.X = t.Float()
		case 21:
			l.P2.Y = t.Float()
		case 31:
			l.P2.Z = t.Float()
		}
	})
	return l, err
}

func parseArc(tr *TagReader) (Entity, error) {
	var a Arc
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			a.Center.X = t.Float()
		case 20:
			a.Center.Y = t.Float()
		case 30:
			a.Center.Z = t.Float()
		case 40:
			a.Radius = t.Float()
		case 50:
			a.StartAngle = t.Float()
		case 51:
			a.EndAngle = t.Float()
		}
	})
	return a, err
}

func parseEllipse(tr *TagReader) (Entity, error) {
	var e Ellipse
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			e.Center.X = t.Float()
		case 20:
			e.Center.Y = t.Float()
		case 30:
			e.Center.Z = t.Float()
		case 11:
			e.MajorAxis.X = t.Float()
		case 21:
			e.MajorAxis.Y = t.Float()
		case 40:
			e.Ratio = t.Float()
		case 41:
			e.StartParam = t.Float()
		case 42:
			e.EndParam = t.Float()
		}
	})
	return e, err
}

func parseText(tr *TagReader) (Entity, error) {
	var txt Text
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			txt.Location.X = t.Float()
		case 20:
			txt.Location.Y = t.Float()
		case 30:
			txt.Location.Z = t.Float()
		case 40:
			txt.TextHeight = t.Float()
		case 1:
			txt.Value = t.Value
		case 50:
			txt.Rotation = t.Float()
		case 7:
			txt.TextStyleName = t.Value
		case 72:
			txt.HorizontalTextJustification = t.Int()
		case 73:
			txt.VerticalTextJustification = t.Int()
		}
	})
	return txt, err
}

func parseMText(tr *TagReader) (Entity, error) {
	var m MText
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			m.InsertionPoint.X = t.Float()
		case 20:
			m.InsertionPoint.Y = t.Float()
		case 30:
			m.InsertionPoint.Z = t.Float()
		case 40:
			m.InitialTextHeight = t.Float()
		case 41:
			m.ReferenceRectangleWidth = t.Float()
		case 1:
			m.Text = t.Value
		case 3:
			m.ExtendedText = append(m.ExtendedText, t.Value)
		case 50:
			m.RotationAngle = t.Float()
		case 71:
			m.AttachmentPoint = t.Int()
		case 7:
			m.TextStyleName = t.Value
		}
	})
	return m, err
}

func parseAttDef(tr *TagReader) (Entity, error) {
	var a AttributeDefinition
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			a.Location.X = t.Float()
		case 20:
			a.Location.Y = t.Float()
		case 30:
			a.Location.Z = t.Float()
		case 40:
			a.TextHeight = t.Float()
		case 1:
			a.Value = t.Value
		case 2:
			a.Tag = t.Value
		case 3:
			a.Prompt = t.Value
		case 50:
			a.Rotation = t.Float()
		case 7:
			a.TextStyleName = t.Value
		case 72:
			a.HorizontalTextJustification = t.Int()
		case 74:
			a.VerticalTextJustification = t.Int()
		}
	})
	return a, err
}

// parsePolyline reads the POLYLINE header, then its VERTEX records up
// to the closing SEQEND.
func parsePolyline(tr *TagReader) (Entity, error) {
	var p Polyline
	err := consumeEntityTags(tr, func(t Tag) {
		if t.Code == 70 {
			p.Closed = t.Int()&1 != 0
		}
	})
	if err != nil {
		return nil, err
	}

	for {
		tag, err := tr.Peek()
		if err != nil {
			return nil, err
		}
		if tag.IsEOF() || tag.Code != 0 {
			return p, nil
		}
		switch tag.Value {
		case "VERTEX":
			tr.Next()
			var v Point
			err := consumeEntityTags(tr, func(t Tag) {
				switch t.Code {
				case 10:
					v.X = t.Float()
				case 20:
					v.Y = t.Float()
				case 30:
					v.Z = t.Float()
				}
			})
			if err != nil {
				return nil, err
			}
			p.Vertices = append(p.Vertices, v)
		case "SEQEND":
			tr.Next()
			if err := consumeEntityTags(tr, func(Tag) {}); err != nil {
				return nil, err
			}
			return p, nil
		default:
			// Malformed file: no SEQEND. Leave the tag for the caller.
			return p, nil
		}
	}
}

func parseLwPolyline(tr *TagReader) (Entity, error) {
	var p LwPolyline
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 70:
			p.Closed = t.Int()&1 != 0
		case 10:
			p.Points = append(p.Points, Point{X: t.Float()})
		case 20:
			if len(p.Points) > 0 {
				p.Points[len(p.Points)-1].Y = t.Float()
			}
		}
	})
	return p, err
}

func parseSpline(tr *TagReader) (Entity, error) {
	var s Spline
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 70:
			s.Closed = t.Int()&1 != 0
		case 71:
			s.Degree = t.Int()
		case 10:
			s.ControlPoints = append(s.ControlPoints, Point{X: t.Float()})
		case 20:
			if len(s.ControlPoints) > 0 {
				s.ControlPoints[len(s.ControlPoints)-1].Y = t.Float()
			}
		case 11:
			s.FitPoints = append(s.FitPoints, Point{X: t.Float()})
		case 21:
			if len(s.FitPoints) > 0 {
				s.FitPoints[len(s.FitPoints)-1].Y = t.Float()
			}
		}
	})
	return s, err
}

func parseSolid(tr *TagReader) (Entity, error) {
	var s Solid
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 10:
			s.Corners[0].X = t.Float()
		case 20:
			s.Corners[0].Y = t.Float()
		case 11:
			s.Corners[1].X = t.Float()
		case 21:
			s.Corners[1].Y = t.Float()
		case 12:
			s.Corners[2].X = t.Float()
		case 22:
			s.Corners[2].Y = t.Float()
		case 13:
			s.Corners[3].X = t.Float()
		case 23:
			s.Corners[3].Y = t.Float()
		}
	})
	return s, err
}

func parseInsert(tr *TagReader) (Entity, error) {
	ins := Insert{ScaleX: 1, ScaleY: 1}
	err := consumeEntityTags(tr, func(t Tag) {
		switch t.Code {
		case 2:
			ins.BlockName = t.Value
		case 10:
			ins.Position.X = t.Float()
		case 20:
			ins.Position.Y = t.Float()
		case 30:
			ins.Position.Z = t.Float()
		case 41:
			ins.ScaleX = t.Float()
		case 42:
			ins.ScaleY = t.Float()
		case 50:
			ins.Rotation = t.Float()
		}
	})
	return ins, err
}
