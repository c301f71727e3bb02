package tikz

import (
	"fmt"
	"strings"

	"github.com/T332932/for-dachaung/internal/latex"
)

// Scale maps the usual 400x400 SVG canvas onto roughly 12x12 TikZ units.
const Scale = 0.03

// Compile translates a parsed diagram into a tikzpicture block. The second
// return value is false when no drawable command came out, in which case the
// caller should rasterize instead.
func Compile(doc *Document) (string, bool) {
	if doc == nil || len(doc.Elements) == 0 {
		return "", false
	}

	flipY := func(y float64) float64 { return (doc.Height - y) * Scale }
	coord := func(p Point) string {
		return fmt.Sprintf("(%.3f,%.3f)", p.X*Scale, flipY(p.Y))
	}
	dash := func(d bool) string {
		if d {
			return "[dashed]"
		}
		return ""
	}

	var cmds []string
	for _, el := range doc.Elements {
		switch e := el.(type) {
		case Line:
			cmds = append(cmds, fmt.Sprintf(`\draw%s (%.3f,%.3f) -- (%.3f,%.3f);`,
				dash(e.Dashed), e.X1*Scale, flipY(e.Y1), e.X2*Scale, flipY(e.Y2)))
		case Circle:
			cmds = append(cmds, fmt.Sprintf(`\draw%s (%.3f,%.3f) circle (%.3f);`,
				dash(e.Dashed), e.CX*Scale, flipY(e.CY), e.R*Scale))
		case Ellipse:
			cmds = append(cmds, fmt.Sprintf(`\draw%s (%.3f,%.3f) ellipse (%.3f and %.3f);`,
				dash(e.Dashed), e.CX*Scale, flipY(e.CY), e.RX*Scale, e.RY*Scale))
		case Rect:
			// Fill-only rectangles are background decoration; only a visible
			// stroke earns a drawing command.
			stroke := strings.ToLower(strings.TrimSpace(e.Stroke))
			if stroke == "" || stroke == "none" {
				continue
			}
			cmds = append(cmds, fmt.Sprintf(`\draw%s (%.3f,%.3f) rectangle (%.3f,%.3f);`,
				dash(e.Dashed), e.X*Scale, flipY(e.Y), (e.X+e.W)*Scale, flipY(e.Y+e.H)))
		case Polygon:
			if len(e.Points) < 3 {
				continue
			}
			coords := make([]string, 0, len(e.Points))
			for _, p := range e.Points {
				coords = append(coords, coord(p))
			}
			cmds = append(cmds, fmt.Sprintf(`\draw%s %s -- cycle;`,
				dash(e.Dashed), strings.Join(coords, " -- ")))
		case Path:
			for _, seg := range e.Segments {
				if len(seg) < 2 {
					continue
				}
				coords := make([]string, 0, len(seg))
				for _, p := range seg {
					coords = append(coords, coord(p))
				}
				cmds = append(cmds, fmt.Sprintf(`\draw%s %s;`,
					dash(e.Dashed), strings.Join(coords, " -- ")))
			}
		case Label:
			content := latex.NormalizeMath(strings.TrimSpace(e.Content))
			if content == "" {
				continue
			}
			// dy points down in SVG, so it flips along with the y axis.
			cmds = append(cmds, fmt.Sprintf(`\node at (%.3f,%.3f) {$%s$};`,
				(e.X+e.DX)*Scale, flipY(e.Y)-e.DY*Scale, content))
		}
	}

	if len(cmds) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("\\begin{tikzpicture}[>=Stealth, scale=0.8, line width=0.5pt]\n")
	b.WriteString(strings.Join(cmds, "\n"))
	b.WriteString("\n\\end{tikzpicture}")
	return b.String(), true
}

// CompileSVG parses and compiles in one step. Malformed SVG compiles to
// nothing rather than failing.
func CompileSVG(svg string) (string, bool) {
	doc, err := Parse(svg)
	if err != nil {
		return "", false
	}
	return Compile(doc)
}
