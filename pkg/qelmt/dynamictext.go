package qelmt

import (
	"encoding/xml"
	"fmt"
	"math"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// DynamicText is an editable text field of the element description,
// built from a TEXT, MTEXT or ATTDEF entity.
type DynamicText struct {
	Text     string
	InfoName string // optional, emitted only when set
	X        float64
	Y        float64
	Z        float64
	Rotation float64 // degrees
	UUID     uuid.UUID

	HAlignment HAlignment
	VAlignment VAlignment
	Font       FontInfo
	TextFrom   string
	Frame      bool
	TextWidth  int // advisory, -1 = unset
	Color      colorful.Color

	KeepVisualRotation bool

	// ReferenceRectangleWidth is the source-provided wrap width
	// (MTEXT group code 41); 0 for the other text kinds.
	ReferenceRectangleWidth float64

	// OriginalTextHeight keeps the pre-scale source height for the
	// conversion report. Never mutated after construction, even though
	// Font.PointSize is rescaled, so the applied scale factor stays
	// derivable.
	OriginalTextHeight float64
}

// estimatedWidth guesses the rendered text width. The source wrap
// width is trusted when meaningfully set (> 2.0); otherwise the width
// is derived from the user-perceived character count, not bytes.
func (t *DynamicText) estimatedWidth() float64 {
	if t.ReferenceRectangleWidth > 2.0 {
		return t.ReferenceRectangleWidth
	}
	return float64(uniseg.GraphemeClusterCount(t.Text)) * t.Font.PointSize * 0.75
}

// MarshalXML emits the dynamic_text node. The placement formula
// reproduces the QET_ElementScaler rendering math so converted
// elements lay out pixel-identical to prior tooling:
//
//	posx = x + (size/8.0) + 4.05 - 0.5
//	posy = y + (7.0/5.0*size + 26.0/5.0) - 0.5
//
// reversed here, with the anchor shifted by the estimated text width
// for center/right alignment.
func (t *DynamicText) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	ptSize := t.Font.PointSize

	xPos := t.X + 0.5 - ptSize/8.0 - 4.05
	switch t.HAlignment {
	case HAlignCenter:
		xPos -= t.estimatedWidth() / 2.0
	case HAlignRight:
		xPos -= t.estimatedWidth()
	}
	yPos := t.Y + 0.5 - (7.0/5.0*ptSize + 26.0/5.0) + ptSize

	start := xml.StartElement{
		Name: xml.Name{Local: "dynamic_text"},
		Attr: []xml.Attr{
			attr("x", twoDec(xPos)),
			attr("y", twoDec(yPos)),
			attr("z", twoDec(t.Z)),
			attr("rotation", twoDec(t.Rotation)),
			attr("uuid", fmt.Sprintf("{%s}", t.UUID)),
			attr("font", t.Font.String()),
			attr("Halignment", t.HAlignment.String()),
			attr("Valignment", t.VAlignment.String()),
			attr("text_from", t.TextFrom),
			boolAttr("frame", t.Frame),
			attr("text_width", fmt.Sprintf("%d", t.TextWidth)),
			attr("color", t.Color.Hex()),
		},
	}
	if t.InfoName != "" {
		start.Attr = append(start.Attr, attr("info_name", t.InfoName))
	}
	if t.KeepVisualRotation {
		start.Attr = append(start.Attr, boolAttr("keep_visual_rotation", t.KeepVisualRotation))
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.EncodeElement(t.Text, xml.StartElement{Name: xml.Name{Local: "text"}}); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Scale implements the Object scaling contract. Point size tracks the
// horizontal factor only.
func (t *DynamicText) Scale(fx, fy float64) {
	t.X *= fx
	t.Y *= fy
	t.Font.PointSize *= fx
}

// LeftBound returns the anchor x position.
func (t *DynamicText) LeftBound() float64 { return t.X }

// RightBound is a placeholder until text extents are measured.
func (t *DynamicText) RightBound() float64 { return 1.0 }

// TopBound returns the anchor y position.
func (t *DynamicText) TopBound() float64 { return t.Y }

// BotBound is a placeholder until text extents are measured.
func (t *DynamicText) BotBound() float64 { return 1.0 }

// normalizeRotation reduces a source rotation for emission: exact
// multiples of 360 degrees (after rounding to the nearest degree)
// become 0, everything else is shifted by -180.
func normalizeRotation(rotation float64) float64 {
	if int64(math.Round(math.Abs(rotation)))%360 != 0 {
		return rotation - 180.0
	}
	return 0.0
}

// DTextBuilder unifies the three text-bearing DXF entity kinds into
// one DynamicText.
type DTextBuilder struct {
	text   *dxf.Text
	mtext  *dxf.MText
	attrib *dxf.AttributeDefinition
	color  *colorful.Color
}

// DTextFromText starts a builder from a single-line TEXT entity.
func DTextFromText(t *dxf.Text) *DTextBuilder {
	return &DTextBuilder{text: t}
}

// DTextFromMText starts a builder from a rich-text MTEXT entity.
func DTextFromMText(m *dxf.MText) *DTextBuilder {
	return &DTextBuilder{mtext: m}
}

// DTextFromAttrib starts a builder from an ATTDEF entity.
func DTextFromAttrib(a *dxf.AttributeDefinition) *DTextBuilder {
	return &DTextBuilder{attrib: a}
}

// Color sets the fallback color used when the text format block does
// not carry a usable color index.
func (b *DTextBuilder) Color(c colorful.Color) *DTextBuilder {
	b.color = &c
	return b
}

// rawMText reassembles the raw rich-text of an MTEXT: the overflow
// chunks (group code 3) come first, the primary field (group code 1)
// last.
func rawMText(m *dxf.MText) string {
	raw := ""
	for _, chunk := range m.ExtendedText {
		raw += chunk
	}
	return raw + m.Text
}

// Build constructs the DynamicText. The Y axis is inverted into the
// top-left-origin target space. The result owns a freshly generated
// UUID and is never mutated afterwards except by the scaling pass.
func (b *DTextBuilder) Build() *DynamicText {
	var (
		x, y, z, rotation float64
		textHeight        float64
		value             string
		hAlign            HAlignment
		vAlign            VAlignment
		refRectWidth      float64
		formatInfo        FormatInfo
	)

	switch {
	case b.text != nil:
		x = b.text.Location.X
		y = -b.text.Location.Y
		z = b.text.Location.Z
		rotation = b.text.Rotation
		textHeight = b.text.TextHeight
		value = NormalizeMText(b.text.Value)
		hAlign = HAlignmentFromJustification(b.text.HorizontalTextJustification)
		vAlign = VAlignmentFromJustification(b.text.VerticalTextJustification)
		formatInfo = ExtractMTextFormat(b.text.Value)
	case b.mtext != nil:
		x = b.mtext.InsertionPoint.X
		y = -b.mtext.InsertionPoint.Y
		z = b.mtext.InsertionPoint.Z
		rotation = b.mtext.RotationAngle
		textHeight = b.mtext.InitialTextHeight
		value = NormalizeMText(rawMText(b.mtext))
		hAlign = HAlignmentFromAttachment(b.mtext.AttachmentPoint)
		vAlign = VAlignmentFromAttachment(b.mtext.AttachmentPoint)
		refRectWidth = b.mtext.ReferenceRectangleWidth
		formatInfo = ExtractMTextFormat(rawMText(b.mtext))
	case b.attrib != nil:
		x = b.attrib.Location.X
		y = -b.attrib.Location.Y
		z = b.attrib.Location.Z
		rotation = b.attrib.Rotation
		textHeight = b.attrib.TextHeight
		value = NormalizeMText(b.attrib.Value)
		hAlign = HAlignmentFromJustification(b.attrib.HorizontalTextJustification)
		vAlign = VAlignmentFromJustification(b.attrib.VerticalTextJustification)
	}

	font := DefaultFont()
	// The point size starts as the raw source height; the tree-wide
	// scaling pass rescales it together with the coordinates.
	font.PointSize = textHeight
	if formatInfo.Family != "" {
		font.Family = formatInfo.Family
	}
	if formatInfo.Italic {
		font.Style = StyleItalic
	}
	if formatInfo.Bold {
		font.Weight = WeightBold
	}

	return &DynamicText{
		Text:                    value,
		X:                       x,
		Y:                       y,
		Z:                       z,
		Rotation:                normalizeRotation(rotation),
		UUID:                    uuid.New(),
		HAlignment:              hAlign,
		VAlignment:              vAlign,
		Font:                    font,
		TextFrom:                "UserText",
		Frame:                   false,
		TextWidth:               -1,
		Color:                   b.resolveColor(formatInfo),
		ReferenceRectangleWidth: refRectWidth,
		OriginalTextHeight:      textHeight,
	}
}

// resolveColor picks the text color: a usable color index from the
// format block wins, then the builder's fallback, then black. The
// index maps to RGB by direct numeric conversion, not a real CAD
// color-table lookup.
func (b *DTextBuilder) resolveColor(info FormatInfo) colorful.Color {
	if info.HasColor && info.ColorIndex > 0 && info.ColorIndex < 256 {
		return colorFromIndex(info.ColorIndex)
	}
	if b.color != nil {
		return *b.color
	}
	return colorful.Color{}
}

// colorFromIndex interprets the index as a packed 0xRRGGBB value.
func colorFromIndex(index int) colorful.Color {
	v := uint32(index)
	return colorful.Color{
		R: float64((v>>16)&0xff) / 255.0,
		G: float64((v>>8)&0xff) / 255.0,
		B: float64(v&0xff) / 255.0,
	}
}
