package qelmt

import (
	"fmt"
	"strconv"
)

// Font weights used by the element editor.
const (
	WeightNormal = 50
	WeightBold   = 75
)

// DefaultFontFamily is used when the source text carries no \f block.
const DefaultFontFamily = "Verdana"

// FontStyle is the slant of a font.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleItalic
)

// String returns the style name as reported in conversion logs.
func (s FontStyle) String() string {
	if s == StyleItalic {
		return "Italic"
	}
	return "Normal"
}

// FontInfo describes the font of a text object.
type FontInfo struct {
	Family    string
	PointSize float64
	Weight    int // 50 = normal, 75 = bold
	Style     FontStyle
}

// DefaultFont returns the font used when the source provides nothing.
func DefaultFont() FontInfo {
	return FontInfo{
		Family:    DefaultFontFamily,
		PointSize: 9,
		Weight:    WeightNormal,
		Style:     StyleNormal,
	}
}

// String renders the font in the QFont serialization the element file
// format uses: family, point size, pixel size (-1), style hint,
// weight, italic, underline, strikeout, fixed pitch, raw mode.
func (f FontInfo) String() string {
	italic := 0
	if f.Style == StyleItalic {
		italic = 1
	}
	return fmt.Sprintf("%s,%s,-1,5,%d,%d,0,0,0,0",
		f.Family,
		strconv.FormatFloat(f.PointSize, 'g', -1, 64),
		f.Weight,
		italic)
}
