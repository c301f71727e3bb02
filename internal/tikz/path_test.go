package tikz

import (
	"testing"
	"time"
)

func TestParsePathSimpleMoveLine(t *testing.T) {
	segs := ParsePathData("M 10 20 L 30 40")
	if len(segs) != 1 {
		t.Fatalf("want 1 polyline, got %d", len(segs))
	}
	if len(segs[0]) != 2 {
		t.Fatalf("want 2 points, got %d", len(segs[0]))
	}
	if segs[0][0] != (Point{10, 20}) || segs[0][1] != (Point{30, 40}) {
		t.Fatalf("unexpected points: %#v", segs[0])
	}
}

func TestParsePathRelativeCommands(t *testing.T) {
	segs := ParsePathData("m 10 10 l 5 0 v 5 h -5 z")
	if len(segs) != 1 {
		t.Fatalf("want 1 polyline, got %d", len(segs))
	}
	pts := segs[0]
	want := []Point{{10, 10}, {15, 10}, {15, 15}, {10, 15}, {10, 10}}
	if len(pts) != len(want) {
		t.Fatalf("want %d points, got %d: %#v", len(want), len(pts), pts)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Fatalf("point %d = %v, want %v", i, pts[i], want[i])
		}
	}
}

func TestParsePathImplicitLineToAfterMove(t *testing.T) {
	segs := ParsePathData("M 0 0 10 10 20 0")
	if len(segs) != 1 || len(segs[0]) != 3 {
		t.Fatalf("implicit line-tos not applied: %#v", segs)
	}
	if segs[0][2] != (Point{20, 0}) {
		t.Fatalf("unexpected endpoint: %v", segs[0][2])
	}
}

func TestParsePathCubicEndpoints(t *testing.T) {
	segs := ParsePathData("M 0 0 C 10 0 20 10 30 10")
	if len(segs) != 1 {
		t.Fatalf("want 1 polyline, got %d", len(segs))
	}
	pts := segs[0]
	// 1 start point + curveSteps samples; the last sample is t=1, which the
	// Bernstein form evaluates to the end control point exactly.
	if len(pts) != 1+curveSteps {
		t.Fatalf("want %d points, got %d", 1+curveSteps, len(pts))
	}
	if pts[0] != (Point{0, 0}) {
		t.Fatalf("start moved: %v", pts[0])
	}
	last := pts[len(pts)-1]
	if !almostEqual(last.X, 30) || !almostEqual(last.Y, 10) {
		t.Fatalf("end = %v, want (30,10)", last)
	}
}

func TestParsePathQuadraticEndpoints(t *testing.T) {
	segs := ParsePathData("M 0 0 Q 5 10 10 0")
	pts := segs[0]
	last := pts[len(pts)-1]
	if !almostEqual(last.X, 10) || !almostEqual(last.Y, 0) {
		t.Fatalf("end = %v, want (10,0)", last)
	}
}

func TestParsePathSmoothReflection(t *testing.T) {
	// S after C reflects the previous control point; with no previous curve
	// the current point is used, which keeps the segment anchored.
	segs := ParsePathData("M 0 0 S 10 10 20 0")
	pts := segs[0]
	if pts[0] != (Point{0, 0}) {
		t.Fatalf("start moved: %v", pts[0])
	}
	last := pts[len(pts)-1]
	if !almostEqual(last.X, 20) || !almostEqual(last.Y, 0) {
		t.Fatalf("end = %v, want (20,0)", last)
	}
}

func TestParsePathArcBecomesChord(t *testing.T) {
	segs := ParsePathData("M 0 0 A 50 50 0 0 1 100 100")
	if len(segs) != 1 {
		t.Fatalf("want 1 polyline, got %d", len(segs))
	}
	pts := segs[0]
	if len(pts) != 2 {
		t.Fatalf("arc must flatten to a single chord, got %d points", len(pts))
	}
	if pts[1] != (Point{100, 100}) {
		t.Fatalf("chord endpoint = %v", pts[1])
	}
}

func TestParsePathCloseReturnsToSubpathStart(t *testing.T) {
	segs := ParsePathData("M 5 5 L 10 5 L 10 10 Z M 20 20 L 25 20")
	if len(segs) != 2 {
		t.Fatalf("want 2 polylines, got %d", len(segs))
	}
	first := segs[0]
	if first[len(first)-1] != (Point{5, 5}) {
		t.Fatalf("Z did not close to start: %v", first[len(first)-1])
	}
	if segs[1][0] != (Point{20, 20}) {
		t.Fatalf("second subpath start: %v", segs[1][0])
	}
}

func TestParsePathTrailingNumbersAfterClose(t *testing.T) {
	done := make(chan [][]Point, 1)
	go func() {
		done <- ParsePathData("M 0 0 L 10 10 Z 5 5")
	}()
	select {
	case segs := <-done:
		if len(segs) != 1 {
			t.Fatalf("want 1 polyline, got %d", len(segs))
		}
		first := segs[0]
		if first[len(first)-1] != (Point{0, 0}) {
			t.Fatalf("Z did not close to start: %v", first[len(first)-1])
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("ParsePathData did not return on trailing numbers after Z")
	}
}

func TestParsePathNumbersAfterCloseThenCommand(t *testing.T) {
	segs := ParsePathData("M 0 0 L 10 0 Z 99 M 20 20 L 25 20")
	if len(segs) != 2 {
		t.Fatalf("want 2 polylines, got %d", len(segs))
	}
	if segs[1][0] != (Point{20, 20}) {
		t.Fatalf("second subpath start: %v", segs[1][0])
	}
}

func TestParsePathGarbageYieldsNothingDrawable(t *testing.T) {
	segs := ParsePathData("not a path")
	for _, s := range segs {
		if len(s) >= 2 {
			t.Fatalf("garbage produced a drawable polyline: %#v", s)
		}
	}
}

func TestParsePathNegativeAndExponentNumbers(t *testing.T) {
	segs := ParsePathData("M -1.5 2e1 L 3.25 -4")
	pts := segs[0]
	if !almostEqual(pts[0].X, -1.5) || !almostEqual(pts[0].Y, 20) {
		t.Fatalf("start = %v", pts[0])
	}
	if !almostEqual(pts[1].X, 3.25) || !almostEqual(pts[1].Y, -4) {
		t.Fatalf("end = %v", pts[1])
	}
}
