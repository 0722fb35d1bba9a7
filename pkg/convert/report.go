package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/dxf2elmt/pkg/qelmt"
)

// WriteReport writes the human-readable conversion log: both tallies,
// an unsupported-entity warning when needed, then one detail block per
// text object in tree traversal order.
func WriteReport(w io.Writer, source string, res *Result) error {
	stats := res.Stats
	emitted := res.Emitted

	var b strings.Builder

	b.WriteString("=== DXF to ELMT conversion log ===\n")
	fmt.Fprintf(&b, "File: %s\n", source)
	fmt.Fprintf(&b, "Processing time: %d ms\n\n", stats.ElapsedMS)

	b.WriteString("=== SOURCE ENTITY STATISTICS (DXF) ===\n")
	fmt.Fprintf(&b, "Circles: %d\n", stats.Circles)
	fmt.Fprintf(&b, "Lines: %d\n", stats.Lines)
	fmt.Fprintf(&b, "Arcs: %d\n", stats.Arcs)
	fmt.Fprintf(&b, "Splines: %d\n", stats.Splines)
	fmt.Fprintf(&b, "Texts: %d\n", stats.Texts)
	fmt.Fprintf(&b, "Ellipses: %d\n", stats.Ellipses)
	fmt.Fprintf(&b, "Polylines: %d\n", stats.Polylines)
	fmt.Fprintf(&b, "LwPolylines: %d\n", stats.LwPolylines)
	fmt.Fprintf(&b, "Solids: %d\n", stats.Solids)
	fmt.Fprintf(&b, "Blocks: %d\n", stats.Blocks)
	fmt.Fprintf(&b, "Unsupported entities: %d\n", stats.Unsupported)
	fmt.Fprintf(&b, "Total: %d\n\n", stats.Total())

	b.WriteString("=== EMITTED OBJECT STATISTICS (ELMT) ===\n")
	fmt.Fprintf(&b, "Circles/Ellipses: %d\n", emitted.Ellipses)
	fmt.Fprintf(&b, "Lines: %d\n", emitted.Lines)
	fmt.Fprintf(&b, "Arcs: %d\n", emitted.Arcs)
	fmt.Fprintf(&b, "Polygons (incl. splines and polylines): %d\n", emitted.Polygons)
	fmt.Fprintf(&b, "Dynamic texts: %d\n", emitted.DynamicTexts)
	fmt.Fprintf(&b, "Static texts: %d\n", emitted.Texts)
	fmt.Fprintf(&b, "Groups (blocks): %d\n", emitted.Groups)
	fmt.Fprintf(&b, "Total: %d\n\n", emitted.Total())

	if stats.Unsupported > 0 {
		b.WriteString("=== WARNING: UNCONVERTED ENTITIES ===\n")
		fmt.Fprintf(&b, "%d entities could not be converted.\n\n", stats.Unsupported)
	}

	b.WriteString("=== CONVERTED TEXT DETAILS ===\n\n")

	textIndex := 1
	writeTextDetails(&b, res.Definition.Description.Objects, &textIndex)

	b.WriteString("=== End of log ===\n")
	fmt.Fprintf(&b, "Total converted texts: %d\n", textIndex-1)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// writeTextDetails walks the object tree in order, descending into
// groups, and writes a detail block per text object.
func writeTextDetails(b *strings.Builder, objects []qelmt.Object, textIndex *int) {
	for _, obj := range objects {
		switch o := obj.(type) {
		case *qelmt.DynamicText:
			fmt.Fprintf(b, "--- Text %d (DynamicText) ---\n", *textIndex)
			fmt.Fprintf(b, "Content: %q\n", strings.ReplaceAll(o.Text, "\n", "\\n"))
			fmt.Fprintf(b, "Position: x=%.2f, y=%.2f, z=%.2f\n", o.X, o.Y, o.Z)
			fmt.Fprintf(b, "Rotation: %.2f°\n", o.Rotation)
			fmt.Fprintf(b, "Input size (DXF): %.2f units\n", o.OriginalTextHeight)
			fmt.Fprintf(b, "Output size (ELMT): %.2fpt\n", o.Font.PointSize)
			if o.OriginalTextHeight > 0 {
				fmt.Fprintf(b, "Applied text scale factor: %.2f\n", o.Font.PointSize/o.OriginalTextHeight)
			}
			fmt.Fprintf(b, "Font: family=%q\n", o.Font.Family)
			fmt.Fprintf(b, "Style: weight=%d, style=%s\n", o.Font.Weight, o.Font.Style)
			fmt.Fprintf(b, "Color: %s\n", o.Color.Hex())
			fmt.Fprintf(b, "Alignment: H=%s, V=%s\n", o.HAlignment, o.VAlignment)
			fmt.Fprintf(b, "Reference width: %.2f\n", o.ReferenceRectangleWidth)
			fmt.Fprintf(b, "Frame: %t\n", o.Frame)
			fmt.Fprintf(b, "UUID: %s\n", o.UUID)
			if o.InfoName != "" {
				fmt.Fprintf(b, "Info name: %s\n", o.InfoName)
			}
			b.WriteString("\n")
			*textIndex++
		case *qelmt.Text:
			fmt.Fprintf(b, "--- Text %d (Text) ---\n", *textIndex)
			fmt.Fprintf(b, "Content: %q\n", o.Value)
			fmt.Fprintf(b, "Position: x=%.2f, y=%.2f\n", o.X, o.Y)
			fmt.Fprintf(b, "Rotation: %.2f°\n", o.Rotation)
			fmt.Fprintf(b, "Input size (DXF): %.2f units\n", o.OriginalTextHeight)
			fmt.Fprintf(b, "Output size (ELMT): %.2fpt\n", o.Font.PointSize)
			if o.OriginalTextHeight > 0 {
				fmt.Fprintf(b, "Applied text scale factor: %.2f\n", o.Font.PointSize/o.OriginalTextHeight)
			}
			fmt.Fprintf(b, "Font: family=%q\n", o.Font.Family)
			fmt.Fprintf(b, "Style: weight=%d, style=%s\n", o.Font.Weight, o.Font.Style)
			fmt.Fprintf(b, "Color: %s\n", o.Color.Hex())
			b.WriteString("\n")
			*textIndex++
		case *qelmt.Group:
			writeTextDetails(b, o.Objects, textIndex)
		}
	}
}
