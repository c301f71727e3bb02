// Package tikz compiles the restricted SVG subset produced by the vision
// model into TikZ source, with a raster fallback for documents that yield
// no drawable commands.
package tikz

// Point is an SVG-space coordinate pair.
type Point struct {
	X float64
	Y float64
}

// Element is the closed set of diagram node kinds. Anything the parser does
// not recognize never enters a Document, so compilation dispatch is
// exhaustive.
type Element interface {
	element()
}

type Line struct {
	X1, Y1, X2, Y2 float64
	Dashed         bool
}

type Circle struct {
	CX, CY, R float64
	Dashed    bool
}

type Ellipse struct {
	CX, CY, RX, RY float64
	Dashed         bool
}

type Rect struct {
	X, Y, W, H float64
	Stroke     string
	Dashed     bool
}

type Polygon struct {
	Points []Point
	Dashed bool
}

// Path holds already-interpreted path data: one polyline per sub-path.
type Path struct {
	Segments [][]Point
	Dashed   bool
}

type Label struct {
	X, Y, DX, DY float64
	Content      string
}

func (Line) element()    {}
func (Circle) element()  {}
func (Ellipse) element() {}
func (Rect) element()    {}
func (Polygon) element() {}
func (Path) element()    {}
func (Label) element()   {}

// Document is a parsed diagram: canvas size plus visible elements. Elements
// found under defs (markers and other reusable decoration) are excluded at
// parse time.
type Document struct {
	Width    float64
	Height   float64
	Elements []Element
}
