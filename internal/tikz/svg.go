package tikz

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const defaultCanvas = 400.0

// Parse reads the SVG subset (svg, line, circle, ellipse, rect, polygon,
// path, text, defs) into a Document. Elements inside defs are skipped.
// Unknown elements are ignored; malformed XML is an error and the caller
// falls back to rasterization or a placeholder.
func Parse(svg string) (*Document, error) {
	if strings.TrimSpace(svg) == "" {
		return nil, fmt.Errorf("empty svg")
	}

	doc := &Document{Width: defaultCanvas, Height: defaultCanvas}
	dec := xml.NewDecoder(strings.NewReader(svg))
	dec.Strict = false

	defsDepth := 0
	var textEl *Label
	var textBuf strings.Builder

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("parse svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			if defsDepth > 0 {
				if name == "defs" {
					defsDepth++
				}
				continue
			}
			switch name {
			case "defs":
				defsDepth++
			case "svg":
				applyCanvas(doc, t.Attr)
			case "line":
				doc.Elements = append(doc.Elements, Line{
					X1:     attrFloat(t.Attr, "x1"),
					Y1:     attrFloat(t.Attr, "y1"),
					X2:     attrFloat(t.Attr, "x2"),
					Y2:     attrFloat(t.Attr, "y2"),
					Dashed: isDashed(t.Attr),
				})
			case "circle":
				doc.Elements = append(doc.Elements, Circle{
					CX:     attrFloat(t.Attr, "cx"),
					CY:     attrFloat(t.Attr, "cy"),
					R:      attrFloat(t.Attr, "r"),
					Dashed: isDashed(t.Attr),
				})
			case "ellipse":
				doc.Elements = append(doc.Elements, Ellipse{
					CX:     attrFloat(t.Attr, "cx"),
					CY:     attrFloat(t.Attr, "cy"),
					RX:     attrFloat(t.Attr, "rx"),
					RY:     attrFloat(t.Attr, "ry"),
					Dashed: isDashed(t.Attr),
				})
			case "rect":
				doc.Elements = append(doc.Elements, Rect{
					X:      attrFloat(t.Attr, "x"),
					Y:      attrFloat(t.Attr, "y"),
					W:      attrFloat(t.Attr, "width"),
					H:      attrFloat(t.Attr, "height"),
					Stroke: attrString(t.Attr, "stroke"),
					Dashed: isDashed(t.Attr),
				})
			case "polygon":
				pts := parsePoints(attrString(t.Attr, "points"))
				doc.Elements = append(doc.Elements, Polygon{
					Points: pts,
					Dashed: isDashed(t.Attr),
				})
			case "path":
				doc.Elements = append(doc.Elements, Path{
					Segments: ParsePathData(attrString(t.Attr, "d")),
					Dashed:   isDashed(t.Attr),
				})
			case "text":
				textEl = &Label{
					X:  attrFloat(t.Attr, "x"),
					Y:  attrFloat(t.Attr, "y"),
					DX: attrFloat(t.Attr, "dx"),
					DY: attrFloat(t.Attr, "dy"),
				}
				textBuf.Reset()
			}
		case xml.CharData:
			if textEl != nil && defsDepth == 0 {
				textBuf.Write(t)
			}
		case xml.EndElement:
			name := strings.ToLower(t.Name.Local)
			if name == "defs" && defsDepth > 0 {
				defsDepth--
				continue
			}
			if name == "text" && textEl != nil {
				textEl.Content = strings.TrimSpace(textBuf.String())
				if textEl.Content != "" {
					doc.Elements = append(doc.Elements, *textEl)
				}
				textEl = nil
			}
		}
	}

	return doc, nil
}

func applyCanvas(doc *Document, attrs []xml.Attr) {
	if vb := attrString(attrs, "viewBox"); vb != "" {
		parts := strings.Fields(strings.ReplaceAll(vb, ",", " "))
		if len(parts) == 4 {
			w, errW := strconv.ParseFloat(parts[2], 64)
			h, errH := strconv.ParseFloat(parts[3], 64)
			if errW == nil && errH == nil && w > 0 && h > 0 {
				doc.Width = w
				doc.Height = h
				return
			}
		}
	}
	if w := parseDimension(attrString(attrs, "width")); w > 0 {
		doc.Width = w
	}
	if h := parseDimension(attrString(attrs, "height")); h > 0 {
		doc.Height = h
	}
}

func parseDimension(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func attrString(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func attrFloat(attrs []xml.Attr, name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(attrString(attrs, name)), 64)
	if err != nil {
		return 0
	}
	return v
}

// isDashed reports whether the element asks for a dashed stroke, via
// stroke-dasharray, an inline style, or a class name containing "dash".
func isDashed(attrs []xml.Attr) bool {
	if strings.TrimSpace(attrString(attrs, "stroke-dasharray")) != "" {
		return true
	}
	if strings.Contains(attrString(attrs, "style"), "dash") {
		return true
	}
	return strings.Contains(attrString(attrs, "class"), "dash")
}

func parsePoints(raw string) []Point {
	fields := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	nums := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
	}
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}
