package qelmt

import (
	"encoding/xml"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/lucasb-eyer/go-colorful"
)

// Text is a static (non-editable) text object, used for TEXT entities
// when the conversion runs in static-text mode.
type Text struct {
	Value    string
	X        float64
	Y        float64
	Rotation float64 // degrees
	Font     FontInfo
	Color    colorful.Color

	// OriginalTextHeight keeps the pre-scale source height for the
	// conversion report; see DynamicText.
	OriginalTextHeight float64
}

// NewText builds a static text object from a TEXT entity, applying the
// same normalization, y inversion and rotation rule as the dynamic
// builder.
func NewText(src *dxf.Text, color colorful.Color) *Text {
	format := ExtractMTextFormat(src.Value)

	font := DefaultFont()
	font.PointSize = src.TextHeight
	if format.Family != "" {
		font.Family = format.Family
	}
	if format.Italic {
		font.Style = StyleItalic
	}
	if format.Bold {
		font.Weight = WeightBold
	}

	if format.HasColor && format.ColorIndex > 0 && format.ColorIndex < 256 {
		color = colorFromIndex(format.ColorIndex)
	}

	return &Text{
		Value:              NormalizeMText(src.Value),
		X:                  src.Location.X,
		Y:                  -src.Location.Y,
		Rotation:           normalizeRotation(src.Rotation),
		Font:               font,
		Color:              color,
		OriginalTextHeight: src.TextHeight,
	}
}

// MarshalXML emits the text node. Static text carries its content as
// an attribute rather than a child node.
func (t *Text) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{
		Name: xml.Name{Local: "text"},
		Attr: []xml.Attr{
			attr("x", twoDec(t.X)),
			attr("y", twoDec(t.Y)),
			attr("rotation", twoDec(t.Rotation)),
			attr("text", t.Value),
			attr("font", t.Font.String()),
			attr("color", t.Color.Hex()),
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Scale implements the Object scaling contract; point size tracks the
// horizontal factor only.
func (t *Text) Scale(fx, fy float64) {
	t.X *= fx
	t.Y *= fy
	t.Font.PointSize *= fx
}

// LeftBound returns the anchor x position.
func (t *Text) LeftBound() float64 { return t.X }

// RightBound is a placeholder until text extents are measured.
func (t *Text) RightBound() float64 { return 1.0 }

// TopBound returns the anchor y position.
func (t *Text) TopBound() float64 { return t.Y }

// BotBound is a placeholder until text extents are measured.
func (t *Text) BotBound() float64 { return 1.0 }
