// Package qelmt builds QElectroTech element descriptions from DXF
// entities and serializes them as attributed XML.
package qelmt

import (
	"encoding/xml"
	"strconv"
)

// Object is one element of the emitted description tree. Every kind
// supports uniform scaling and exposes its extents for layout/fit
// computations. The tree is built once, scaled once, then emitted;
// objects are never shared between trees.
type Object interface {
	// Scale mutates the object position by (fx, fy). Text kinds also
	// rescale their point size, tracking fx only so that non-uniform
	// scaling does not distort glyph size.
	Scale(fx, fy float64)
	LeftBound() float64
	RightBound() float64
	TopBound() float64
	BotBound() float64
}

// Group is an ordered sequence of objects produced from a block
// insertion. The element file format has no group node, so groups
// flatten into their parent at emission; they still count as one
// object in the emitted tally.
type Group struct {
	Objects []Object
}

// Scale scales every child.
func (g *Group) Scale(fx, fy float64) {
	for _, obj := range g.Objects {
		obj.Scale(fx, fy)
	}
}

// LeftBound returns the minimum left bound of the children.
func (g *Group) LeftBound() float64 {
	v := 0.0
	for i, obj := range g.Objects {
		if b := obj.LeftBound(); i == 0 || b < v {
			v = b
		}
	}
	return v
}

// RightBound returns the maximum right bound of the children.
func (g *Group) RightBound() float64 {
	v := 0.0
	for i, obj := range g.Objects {
		if b := obj.RightBound(); i == 0 || b > v {
			v = b
		}
	}
	return v
}

// TopBound returns the minimum top bound of the children.
func (g *Group) TopBound() float64 {
	v := 0.0
	for i, obj := range g.Objects {
		if b := obj.TopBound(); i == 0 || b < v {
			v = b
		}
	}
	return v
}

// BotBound returns the maximum bottom bound of the children.
func (g *Group) BotBound() float64 {
	v := 0.0
	for i, obj := range g.Objects {
		if b := obj.BotBound(); i == 0 || b > v {
			v = b
		}
	}
	return v
}

// HAlignment is the horizontal text anchor.
type HAlignment int

const (
	HAlignLeft HAlignment = iota
	HAlignCenter
	HAlignRight
)

// String returns the element file spelling of the alignment.
func (a HAlignment) String() string {
	switch a {
	case HAlignCenter:
		return "AlignHCenter"
	case HAlignRight:
		return "AlignRight"
	default:
		return "AlignLeft"
	}
}

// VAlignment is the vertical text anchor.
type VAlignment int

const (
	VAlignTop VAlignment = iota
	VAlignCenter
	VAlignBottom
)

// String returns the element file spelling of the alignment.
func (a VAlignment) String() string {
	switch a {
	case VAlignCenter:
		return "AlignVCenter"
	case VAlignBottom:
		return "AlignBottom"
	default:
		return "AlignTop"
	}
}

// HAlignmentFromAttachment maps an MTEXT attachment point (group code
// 71, 1..9 reading top-left to bottom-right) to a horizontal anchor.
func HAlignmentFromAttachment(attachment int) HAlignment {
	switch attachment {
	case 2, 5, 8:
		return HAlignCenter
	case 3, 6, 9:
		return HAlignRight
	default:
		return HAlignLeft
	}
}

// VAlignmentFromAttachment maps an MTEXT attachment point to a
// vertical anchor.
func VAlignmentFromAttachment(attachment int) VAlignment {
	switch {
	case attachment >= 7:
		return VAlignBottom
	case attachment >= 4:
		return VAlignCenter
	default:
		return VAlignTop
	}
}

// HAlignmentFromJustification maps a TEXT horizontal justification
// (group code 72: 0=left 1=center 2=right 3=aligned 4=middle 5=fit).
// Aligned and fit stretch between two points and anchor left here.
func HAlignmentFromJustification(justification int) HAlignment {
	switch justification {
	case 1, 4:
		return HAlignCenter
	case 2:
		return HAlignRight
	default:
		return HAlignLeft
	}
}

// VAlignmentFromJustification maps a TEXT vertical justification
// (group code 73: 0=baseline 1=bottom 2=middle 3=top).
func VAlignmentFromJustification(justification int) VAlignment {
	switch justification {
	case 3:
		return VAlignTop
	case 2:
		return VAlignCenter
	default:
		return VAlignBottom
	}
}

// twoDec renders a coordinate with fixed two-decimal precision, the
// format the element editor writes.
func twoDec(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func boolAttr(name string, v bool) xml.Attr {
	return attr(name, strconv.FormatBool(v))
}

// defaultStyle is the stroke/fill descriptor applied to converted
// geometry; DXF layer styling is not carried over.
const defaultStyle = "line-style:normal;line-weight:thin;filling:none;color:black"
