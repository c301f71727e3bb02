package tikz

import (
	"regexp"
	"strconv"
	"strings"
)

// Bézier segments are flattened into this many straight pieces.
const curveSteps = 10

var pathTokenRe = regexp.MustCompile(`[MmLlHhVvCcSsQqTtAaZz]|-?\d*\.?\d+(?:[eE][-+]?\d+)?`)

// ParsePathData interprets SVG path data and returns one polyline per
// sub-path. Supported commands: M/L/H/V (lines), C/S and Q/T (cubic and
// quadratic Béziers, flattened), A (approximated by a straight chord to the
// arc endpoint) and Z. Unknown commands are skipped. Polylines with fewer
// than two points are dropped by the compiler, not here.
func ParsePathData(d string) [][]Point {
	tokens := pathTokenRe.FindAllString(d, -1)

	var segments [][]Point
	var current []Point
	idx := 0
	cmd := ""
	cursor := Point{}
	start := Point{}
	var lastCtrl *Point

	isCmd := func(tok string) bool {
		return len(tok) == 1 && (tok[0] >= 'A' && tok[0] <= 'Z' || tok[0] >= 'a' && tok[0] <= 'z')
	}
	readNumbers := func(n int) []float64 {
		vals := make([]float64, 0, n)
		for len(vals) < n && idx < len(tokens) && !isCmd(tokens[idx]) {
			v, err := strconv.ParseFloat(tokens[idx], 64)
			if err != nil {
				break
			}
			vals = append(vals, v)
			idx++
		}
		return vals
	}
	moveTo := func(pt Point) {
		if len(current) > 0 {
			segments = append(segments, current)
		}
		current = []Point{pt}
		cursor = pt
		start = pt
	}
	lineTo := func(pt Point) {
		current = append(current, pt)
		cursor = pt
	}

	for idx < len(tokens) {
		if isCmd(tokens[idx]) {
			cmd = tokens[idx]
			idx++
		}
		if cmd == "" {
			break
		}

		absCmd := strings.ToUpper(cmd)
		relative := cmd != absCmd

		switch absCmd {
		case "M":
			nums := readNumbers(2)
			if len(nums) < 2 {
				idx = len(tokens)
				break
			}
			pt := Point{X: nums[0], Y: nums[1]}
			if relative {
				pt.X += cursor.X
				pt.Y += cursor.Y
			}
			moveTo(pt)
			// Extra coordinate pairs after a move are implicit line-tos.
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				extra := readNumbers(2)
				if len(extra) < 2 {
					break
				}
				next := Point{X: extra[0], Y: extra[1]}
				if relative {
					next.X += cursor.X
					next.Y += cursor.Y
				}
				lineTo(next)
			}
			lastCtrl = nil
			if relative {
				cmd = "l"
			} else {
				cmd = "L"
			}
		case "L":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(2)
				if len(nums) < 2 {
					break
				}
				pt := Point{X: nums[0], Y: nums[1]}
				if relative {
					pt.X += cursor.X
					pt.Y += cursor.Y
				}
				lineTo(pt)
			}
			lastCtrl = nil
		case "H":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(1)
				if len(nums) < 1 {
					break
				}
				x := nums[0]
				if relative {
					x += cursor.X
				}
				lineTo(Point{X: x, Y: cursor.Y})
			}
			lastCtrl = nil
		case "V":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(1)
				if len(nums) < 1 {
					break
				}
				y := nums[0]
				if relative {
					y += cursor.Y
				}
				lineTo(Point{X: cursor.X, Y: y})
			}
			lastCtrl = nil
		case "C":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(6)
				if len(nums) < 6 {
					break
				}
				c1 := Point{X: nums[0], Y: nums[1]}
				c2 := Point{X: nums[2], Y: nums[3]}
				end := Point{X: nums[4], Y: nums[5]}
				if relative {
					c1.X += cursor.X
					c1.Y += cursor.Y
					c2.X += cursor.X
					c2.Y += cursor.Y
					end.X += cursor.X
					end.Y += cursor.Y
				}
				for _, pt := range cubicSamples(cursor, c1, c2, end) {
					lineTo(pt)
				}
				cursor = end
				ctrl := c2
				lastCtrl = &ctrl
			}
		case "S":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(4)
				if len(nums) < 4 {
					break
				}
				c2 := Point{X: nums[0], Y: nums[1]}
				end := Point{X: nums[2], Y: nums[3]}
				if relative {
					c2.X += cursor.X
					c2.Y += cursor.Y
					end.X += cursor.X
					end.Y += cursor.Y
				}
				c1 := reflectControl(cursor, lastCtrl)
				for _, pt := range cubicSamples(cursor, c1, c2, end) {
					lineTo(pt)
				}
				cursor = end
				ctrl := c2
				lastCtrl = &ctrl
			}
		case "Q":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(4)
				if len(nums) < 4 {
					break
				}
				c1 := Point{X: nums[0], Y: nums[1]}
				end := Point{X: nums[2], Y: nums[3]}
				if relative {
					c1.X += cursor.X
					c1.Y += cursor.Y
					end.X += cursor.X
					end.Y += cursor.Y
				}
				for _, pt := range quadSamples(cursor, c1, end) {
					lineTo(pt)
				}
				cursor = end
				ctrl := c1
				lastCtrl = &ctrl
			}
		case "T":
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(2)
				if len(nums) < 2 {
					break
				}
				end := Point{X: nums[0], Y: nums[1]}
				if relative {
					end.X += cursor.X
					end.Y += cursor.Y
				}
				c1 := reflectControl(cursor, lastCtrl)
				for _, pt := range quadSamples(cursor, c1, end) {
					lineTo(pt)
				}
				cursor = end
				ctrl := c1
				lastCtrl = &ctrl
			}
		case "A":
			// Arc geometry is deliberately not evaluated: a straight chord
			// to the endpoint is accurate enough for exam figures.
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				nums := readNumbers(7)
				if len(nums) < 7 {
					break
				}
				end := Point{X: nums[5], Y: nums[6]}
				if relative {
					end.X += cursor.X
					end.Y += cursor.Y
				}
				lineTo(end)
				lastCtrl = nil
			}
		case "Z":
			if len(current) > 0 {
				if current[len(current)-1] != start {
					current = append(current, start)
				}
				segments = append(segments, current)
				current = nil
			}
			cursor = start
			lastCtrl = nil
			// Z takes no arguments; stray numbers after it would otherwise
			// keep the scan pinned on this command forever.
			for idx < len(tokens) && !isCmd(tokens[idx]) {
				idx++
			}
		default:
			idx++
			lastCtrl = nil
		}
	}

	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// reflectControl mirrors the previous control point through the cursor for
// the smooth shorthand commands; with no previous control point the cursor
// itself is used.
func reflectControl(cursor Point, lastCtrl *Point) Point {
	if lastCtrl == nil {
		return cursor
	}
	return Point{X: 2*cursor.X - lastCtrl.X, Y: 2*cursor.Y - lastCtrl.Y}
}

func cubicSamples(p0, p1, p2, p3 Point) []Point {
	out := make([]Point, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		x := mt*mt*mt*p0.X + 3*mt*mt*t*p1.X + 3*mt*t*t*p2.X + t*t*t*p3.X
		y := mt*mt*mt*p0.Y + 3*mt*mt*t*p1.Y + 3*mt*t*t*p2.Y + t*t*t*p3.Y
		out = append(out, Point{X: x, Y: y})
	}
	return out
}

func quadSamples(p0, p1, p2 Point) []Point {
	out := make([]Point, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		mt := 1 - t
		x := mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X
		y := mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y
		out = append(out, Point{X: x, Y: y})
	}
	return out
}
