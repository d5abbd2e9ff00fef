// Package layouttest writes small single-page PDFs for layout and parser tests.
package layouttest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// FontSize is the size every Text is drawn at. Each glyph advances
// GlyphWidth points.
const (
	FontSize   = 10
	GlyphWidth = 5
)

// Text is one run drawn at X, Y (PDF user space, Y grows upwards).
type Text struct {
	X, Y float64
	S    string
}

// Run is shorthand for a Text.
func Run(x, y float64, s string) Text {
	return Text{X: x, Y: y, S: s}
}

// Row draws the pairs x1, s1, x2, s2, ... on one baseline.
func Row(y float64, parts ...any) []Text {
	var out []Text
	for i := 0; i+1 < len(parts); i += 2 {
		out = append(out, Run(parts[i].(float64), y, parts[i+1].(string)))
	}
	return out
}

// WritePDF writes a one-page PDF holding texts to path.
func WritePDF(tb testing.TB, path string, texts []Text) {
	tb.Helper()
	if err := os.WriteFile(path, BuildPDF(texts), 0o644); err != nil {
		tb.Fatalf("write pdf: %v", err)
	}
}

// BuildPDF renders texts with Helvetica in WinAnsiEncoding and a uniform
// glyph width, so glyph positions are predictable.
func BuildPDF(texts []Text) []byte {
	var content strings.Builder
	content.WriteString("BT\n")
	fmt.Fprintf(&content, "/F1 %d Tf\n", FontSize)
	for _, t := range texts {
		fmt.Fprintf(&content, "1 0 0 1 %.2f %.2f Tm\n(%s) Tj\n", t.X, t.Y, literal(t.S))
	}
	content.WriteString("ET")

	widths := make([]string, 0, 224)
	for c := 32; c <= 255; c++ {
		widths = append(widths, fmt.Sprint(GlyphWidth*1000/FontSize))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 255 /Widths [" +
			strings.Join(widths, " ") + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", content.Len(), content.String()),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// literal encodes s as WinAnsi bytes inside a PDF literal string.
func literal(s string) string {
	var b strings.Builder
	for _, r := range s {
		var c byte
		switch {
		case r == '€':
			c = 0x80
		case r == '’':
			c = 0x92
		case r < 256:
			c = byte(r)
		default:
			c = '?'
		}
		switch {
		case c == '(' || c == ')' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c >= 0x80:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
