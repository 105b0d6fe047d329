package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Window is the world-space region mapped onto the canvas.
type Window struct {
	MinX, MaxX, MinY, MaxY float64
}

// Pixel maps a world point to sub-pixel coordinates, y pointing up.
func (c *Canvas) Pixel(w Window, x, y float64) (int, int) {
	pw := float64(c.Width*2 - 1)
	ph := float64(c.Height*4 - 1)
	px := (x - w.MinX) / (w.MaxX - w.MinX) * pw
	py := ph - (y-w.MinY)/(w.MaxY-w.MinY)*ph
	return int(math.Round(px)), int(math.Round(py))
}

// Polyline joins consecutive world points. Segments touching NaN are skipped.
func (c *Canvas) Polyline(w Window, xs, ys []float64) {
	n := min(len(xs), len(ys))
	if n == 1 {
		if !math.IsNaN(xs[0]) && !math.IsNaN(ys[0]) {
			c.Set(c.Pixel(w, xs[0], ys[0]))
		}
		return
	}
	for i := 1; i < n; i++ {
		if math.IsNaN(xs[i-1]) || math.IsNaN(ys[i-1]) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x0, y0 := c.Pixel(w, xs[i-1], ys[i-1])
		x1, y1 := c.Pixel(w, xs[i], ys[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// Circle outlines a world-space circle with the given number of segments.
func (c *Canvas) Circle(w Window, cx, cy, r float64, segments int) {
	xs := make([]float64, segments+1)
	ys := make([]float64, segments+1)
	for i := range xs {
		a := 2 * math.Pi * float64(i) / float64(segments)
		xs[i] = cx + r*math.Cos(a)
		ys[i] = cy + r*math.Sin(a)
	}
	c.Polyline(w, xs, ys)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
