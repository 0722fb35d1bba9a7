package qelmt

import (
	"encoding/xml"
	"math"
	"strings"
	"testing"

	"github.com/OpenTraceLab/dxf2elmt/pkg/dxf"
	"github.com/lucasb-eyer/go-colorful"
)

// closeTo compares floats that went through 2-decimal XML formatting
// and back, so exact equality cannot be assumed.
func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		rotation float64
		want     float64
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{-360, 0},
		{90, -90},
		{45, -135},
		{180, 0}, // 180 - 180
		{359.7, 0}, // rounds to 360
	}

	for _, tt := range tests {
		if got := normalizeRotation(tt.rotation); got != tt.want {
			t.Errorf("normalizeRotation(%v) = %v, want %v", tt.rotation, got, tt.want)
		}
	}
}

func TestBuildFromTextInvertsY(t *testing.T) {
	src := &dxf.Text{
		Location:   dxf.Point{X: 10, Y: 20, Z: 3},
		TextHeight: 2.5,
		Value:      "Hello",
	}

	dtext := DTextFromText(src).Build()

	if dtext.X != 10 {
		t.Errorf("Expected x=10, got %v", dtext.X)
	}
	if dtext.Y != -20 {
		t.Errorf("Expected y=-20 (inverted), got %v", dtext.Y)
	}
	if dtext.Z != 3 {
		t.Errorf("Expected z=3, got %v", dtext.Z)
	}
	if dtext.Text != "Hello" {
		t.Errorf("Expected text 'Hello', got %q", dtext.Text)
	}
	if dtext.OriginalTextHeight != 2.5 {
		t.Errorf("Expected original height 2.5, got %v", dtext.OriginalTextHeight)
	}
	if dtext.TextWidth != -1 {
		t.Errorf("Expected advisory width -1, got %d", dtext.TextWidth)
	}
	if dtext.TextFrom != "UserText" {
		t.Errorf("Expected text_from 'UserText', got %q", dtext.TextFrom)
	}
	if dtext.UUID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected a generated UUID")
	}
}

func TestBuildFromMTextConcatenatesOverflow(t *testing.T) {
	src := &dxf.MText{
		InsertionPoint:    dxf.Point{X: 1, Y: 2},
		InitialTextHeight: 4,
		ExtendedText:      []string{"first chunk ", "second chunk "},
		Text:              "tail",
		AttachmentPoint:   5, // middle center
	}

	dtext := DTextFromMText(src).Build()

	if dtext.Text != "first chunk second chunk tail" {
		t.Errorf("Unexpected concatenation: %q", dtext.Text)
	}
	if dtext.HAlignment != HAlignCenter {
		t.Errorf("Expected center alignment, got %v", dtext.HAlignment)
	}
	if dtext.VAlignment != VAlignCenter {
		t.Errorf("Expected middle alignment, got %v", dtext.VAlignment)
	}
}

func TestBuildAppliesFormatBlock(t *testing.T) {
	src := &dxf.MText{
		InitialTextHeight: 4,
		Text:              `{\fGaramond|b1|i1|c0|p18;Styled}`,
	}

	dtext := DTextFromMText(src).Build()

	if dtext.Text != "Styled" {
		t.Errorf("Expected normalized text 'Styled', got %q", dtext.Text)
	}
	if dtext.Font.Family != "Garamond" {
		t.Errorf("Expected family 'Garamond', got %q", dtext.Font.Family)
	}
	if dtext.Font.Weight != WeightBold {
		t.Errorf("Expected bold weight %d, got %d", WeightBold, dtext.Font.Weight)
	}
	if dtext.Font.Style != StyleItalic {
		t.Errorf("Expected italic style, got %v", dtext.Font.Style)
	}
	// Point size comes from the entity text height, not the format
	// block; the format size is a hint the legacy tool ignored.
	if dtext.Font.PointSize != 4 {
		t.Errorf("Expected point size 4 (text height), got %v", dtext.Font.PointSize)
	}
}

func TestColorResolutionOrder(t *testing.T) {
	fallback, _ := colorful.Hex("#336699")

	// Valid color index in the format block wins.
	src := &dxf.MText{Text: `\fArial|c2;x`, InitialTextHeight: 1}
	dtext := DTextFromMText(src).Color(fallback).Build()
	if dtext.Color.Hex() != "#000002" {
		t.Errorf("Expected index color #000002, got %s", dtext.Color.Hex())
	}

	// Index 0 is ByBlock: fall back to the builder color.
	src = &dxf.MText{Text: `\fArial|c0;x`, InitialTextHeight: 1}
	dtext = DTextFromMText(src).Color(fallback).Build()
	if dtext.Color.Hex() != "#336699" {
		t.Errorf("Expected fallback color #336699, got %s", dtext.Color.Hex())
	}

	// No index, no builder color: black.
	src = &dxf.MText{Text: "plain", InitialTextHeight: 1}
	dtext = DTextFromMText(src).Build()
	if dtext.Color.Hex() != "#000000" {
		t.Errorf("Expected black, got %s", dtext.Color.Hex())
	}
}

func TestScaleTracksHorizontalFactorOnly(t *testing.T) {
	src := &dxf.Text{
		Location:   dxf.Point{X: 10, Y: -20},
		TextHeight: 5,
		Value:      "x",
	}
	dtext := DTextFromText(src).Build()

	dtext.Scale(2, 3)

	if dtext.X != 20 {
		t.Errorf("Expected x=20, got %v", dtext.X)
	}
	if dtext.Y != 60 {
		t.Errorf("Expected y=60, got %v", dtext.Y)
	}
	if dtext.Font.PointSize != 10 {
		t.Errorf("Point size should track fx only: expected 10, got %v", dtext.Font.PointSize)
	}
	if dtext.OriginalTextHeight != 5 {
		t.Errorf("Original height must never change, got %v", dtext.OriginalTextHeight)
	}
}

func TestTextBoundPlaceholders(t *testing.T) {
	dtext := &DynamicText{X: 7, Y: 9}

	if dtext.LeftBound() != 7 || dtext.TopBound() != 9 {
		t.Error("Left/top bounds should return the anchor position")
	}
	if dtext.RightBound() != 1.0 || dtext.BotBound() != 1.0 {
		t.Error("Right/bottom bounds are placeholders returning 1.0")
	}
}

// xmlTextAttrs captures the attributes relevant to the placement tests.
type xmlTextAttrs struct {
	X        float64 `xml:"x,attr"`
	Y        float64 `xml:"y,attr"`
	UUID     string  `xml:"uuid,attr"`
	InfoName string  `xml:"info_name,attr"`
	Text     string  `xml:"text"`
}

func marshalText(t *testing.T, dtext *DynamicText) (string, xmlTextAttrs) {
	t.Helper()
	data, err := xml.Marshal(dtext)
	if err != nil {
		t.Fatalf("Failed to marshal dynamic text: %v", err)
	}
	var parsed xmlTextAttrs
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to re-parse emitted XML: %v", err)
	}
	return string(data), parsed
}

func TestCenterAlignmentShiftsByHalfWidth(t *testing.T) {
	build := func(align HAlignment) *DynamicText {
		src := &dxf.Text{TextHeight: 8, Value: "Hello"}
		dtext := DTextFromText(src).Build()
		dtext.HAlignment = align
		return dtext
	}

	_, left := marshalText(t, build(HAlignLeft))
	_, center := marshalText(t, build(HAlignCenter))
	_, right := marshalText(t, build(HAlignRight))

	// 5 graphemes * 8pt * 0.75
	estWidth := 30.0
	if got := left.X - center.X; !closeTo(got, estWidth/2) {
		t.Errorf("Center should sit half the estimated width left of Left: got shift %v, want %v", got, estWidth/2)
	}
	if got := left.X - right.X; !closeTo(got, estWidth) {
		t.Errorf("Right should sit the full estimated width left of Left: got shift %v, want %v", got, estWidth)
	}
}

func TestReferenceWidthOverridesEstimate(t *testing.T) {
	src := &dxf.MText{Text: "Hello", InitialTextHeight: 8, ReferenceRectangleWidth: 100}
	dtext := DTextFromMText(src).Build()
	dtext.HAlignment = HAlignRight

	srcNarrow := &dxf.MText{Text: "Hello", InitialTextHeight: 8, ReferenceRectangleWidth: 0}
	narrow := DTextFromMText(srcNarrow).Build()
	narrow.HAlignment = HAlignRight

	_, wide := marshalText(t, dtext)
	_, est := marshalText(t, narrow)

	// Width 100 vs estimate 30: the right-aligned anchor moves 70 more.
	if got := est.X - wide.X; !closeTo(got, 70) {
		t.Errorf("Expected reference width to shift anchor by 70 more, got %v", got)
	}
}

func TestMarshalXMLOptionalAttributes(t *testing.T) {
	src := &dxf.Text{TextHeight: 2, Value: "v"}
	dtext := DTextFromText(src).Build()

	raw, parsed := marshalText(t, dtext)

	if strings.Contains(raw, "info_name") {
		t.Error("info_name must be absent when unset")
	}
	if strings.Contains(raw, "keep_visual_rotation") {
		t.Error("keep_visual_rotation must be absent when false")
	}
	if !strings.HasPrefix(parsed.UUID, "{") || !strings.HasSuffix(parsed.UUID, "}") {
		t.Errorf("UUID should be brace-wrapped, got %q", parsed.UUID)
	}
	if parsed.Text != "v" {
		t.Errorf("Expected child text node 'v', got %q", parsed.Text)
	}

	dtext.InfoName = "label"
	dtext.KeepVisualRotation = true
	raw, parsed = marshalText(t, dtext)
	if parsed.InfoName != "label" {
		t.Errorf("Expected info_name attribute, got %q", parsed.InfoName)
	}
	if !strings.Contains(raw, `keep_visual_rotation="true"`) {
		t.Error("keep_visual_rotation should be emitted when true")
	}
}
