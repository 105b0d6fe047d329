package viz

import (
	"math"
	"sort"

	"github.com/san-kum/galmag/internal/geom"
)

// Camera projects kpc-space points onto the canvas.
type Camera struct {
	Distance         float64 // eye distance in scaled units
	RotX, RotY, RotZ float64
	Zoom             float64
}

// NewCamera frames a scene of the given radius and tilts it so the disk
// plane is seen at an angle.
func NewCamera(radius float64) *Camera {
	if radius <= 0 {
		radius = 1
	}
	return &Camera{Distance: 5, RotX: -1.1, Zoom: 1 / radius}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom *= 1.2 }
func (c *Camera) ZoomOut()          { c.Zoom /= 1.2 }

// RotatePoint applies the Z, then Y, then X rotation.
func (c *Camera) RotatePoint(p geom.Vec3) geom.Vec3 {
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project maps p to sub-pixel coordinates on an sw x sh screen.
// It returns the depth and whether the point lands on screen.
func (c *Camera) Project(p geom.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	pScale := float64(min(sw, sh)) / 2.2
	sx := int(math.Round(rot.X*scale*pScale)) + sw/2
	sy := int(math.Round(-rot.Y*scale*pScale)) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End geom.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }

func (w *Wireframe) AddEdge(s, e geom.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Clear()                 { w.Edges = w.Edges[:0] }

// AddPath adds the segments of a polyline.
func (w *Wireframe) AddPath(pts []geom.Vec3) {
	for i := 1; i < len(pts); i++ {
		w.AddEdge(pts[i-1], pts[i])
	}
}

// AddRing adds a circle of radius r in the plane z.
func (w *Wireframe) AddRing(r, z float64, segments int) {
	prev := geom.New(r, 0, z)
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		next := geom.New(r*math.Cos(a), r*math.Sin(a), z)
		w.AddEdge(prev, next)
		prev = next
	}
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}
