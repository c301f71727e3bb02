package tikz

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var labelFont *truetype.Font

func init() {
	f, err := truetype.Parse(goregular.TTF)
	if err == nil {
		labelFont = f
	}
}

// Rasterize draws the parsed diagram to a PNG at native SVG coordinates
// (no y flip: image space matches SVG space). Used when TikZ compilation
// produced nothing, and for DOCX embedding which has no TikZ at all.
func Rasterize(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	w := int(math.Ceil(doc.Width))
	h := int(math.Ceil(doc.Height))
	if w <= 0 || h <= 0 || w > 4000 || h > 4000 {
		return nil, fmt.Errorf("unreasonable canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1.2)
	if labelFont != nil {
		dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: 14}))
	}

	setDash := func(dashed bool) {
		if dashed {
			dc.SetDash(5, 5)
		} else {
			dc.SetDash()
		}
	}

	drawn := 0
	for _, el := range doc.Elements {
		switch e := el.(type) {
		case Line:
			setDash(e.Dashed)
			dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
			dc.Stroke()
			drawn++
		case Circle:
			setDash(e.Dashed)
			dc.DrawCircle(e.CX, e.CY, e.R)
			dc.Stroke()
			drawn++
		case Ellipse:
			setDash(e.Dashed)
			dc.DrawEllipse(e.CX, e.CY, e.RX, e.RY)
			dc.Stroke()
			drawn++
		case Rect:
			setDash(e.Dashed)
			dc.DrawRectangle(e.X, e.Y, e.W, e.H)
			dc.Stroke()
			drawn++
		case Polygon:
			if len(e.Points) < 3 {
				continue
			}
			setDash(e.Dashed)
			dc.MoveTo(e.Points[0].X, e.Points[0].Y)
			for _, p := range e.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			dc.ClosePath()
			dc.Stroke()
			drawn++
		case Path:
			for _, seg := range e.Segments {
				if len(seg) < 2 {
					continue
				}
				setDash(e.Dashed)
				dc.MoveTo(seg[0].X, seg[0].Y)
				for _, p := range seg[1:] {
					dc.LineTo(p.X, p.Y)
				}
				dc.Stroke()
				drawn++
			}
		case Label:
			if e.Content == "" || labelFont == nil {
				continue
			}
			setDash(false)
			dc.DrawStringAnchored(e.Content, e.X+e.DX, e.Y+e.DY, 0.5, 0.5)
			drawn++
		}
	}
	if drawn == 0 {
		return nil, fmt.Errorf("no drawable elements")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RasterizeSVG parses and rasterizes in one step.
func RasterizeSVG(svg string) ([]byte, error) {
	doc, err := Parse(svg)
	if err != nil {
		return nil, err
	}
	return Rasterize(doc)
}
