// Package tui is the interactive field explorer.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/san-kum/galmag/internal/config"
	"github.com/san-kum/galmag/internal/export"
	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
	"github.com/san-kum/galmag/internal/los"
	"github.com/san-kum/galmag/internal/trace"
	"github.com/san-kum/galmag/internal/viz"
)

type view int

const (
	viewMap view = iota
	view3D
	viewProfile
	numViews
)

func (v view) String() string {
	switch v {
	case viewMap:
		return "map"
	case view3D:
		return "3d"
	case viewProfile:
		return "profile"
	}
	return fmt.Sprintf("view(%d)", int(v))
}

const (
	canvasW = 60
	canvasH = 24

	// half-width of the top-down map in kpc
	mapExtent = 20.0
	angleStep = 5.0
	sideWidth = 28
)

var seedRadii = []float64{4, 6, 8, 10, 12}

// Options configures the explorer.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	OutDir string // where 's' writes SVG snapshots
}

type model struct {
	cfg    *config.Config
	log    *zap.Logger
	outDir string

	models []gmf.Model
	cursor int
	view   view

	field     *gmf.Field
	lines     []*trace.Line
	profile   []los.Sample
	integrals []los.Observable
	l, b      float64

	canvas *viz.Canvas
	camera *viz.Camera
	keys   keyMap
	help   help.Model

	status string
	err    error
}

func newModel(opts Options) (*model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	start, err := gmf.ParseModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	m := &model{
		cfg:    cfg,
		log:    log,
		outDir: opts.OutDir,
		models: gmf.Models(),
		cursor: int(start),
		l:      cfg.Sightline.L,
		b:      cfg.Sightline.B,
		canvas: viz.NewCanvas(canvasW, canvasH),
		camera: viz.NewCamera(mapExtent),
		keys:   newKeyMap(),
		help:   newHelp(),
	}
	m.load()
	m.redraw()
	return m, nil
}

// load builds the selected field and recomputes field lines and the sight
// line. Errors are kept for display.
func (m *model) load() {
	m.err = nil
	sel := m.models[m.cursor]

	var f *gmf.Field
	var err error
	if sel.String() == m.cfg.Model {
		f, err = m.cfg.NewField()
	} else {
		f, err = gmf.New(sel, gmf.WithMaxRadius(m.cfg.MaxRadius))
	}
	if err != nil {
		m.err = err
		return
	}
	m.field = f

	opts := m.cfg.TraceOptions()
	m.lines = m.lines[:0]
	for _, seed := range seeds(m.cfg.ObserverPos()) {
		line, err := trace.Trace(f, seed, opts)
		if err != nil {
			m.log.Debug("trace failed", zap.Stringer("seed", seed), zap.Error(err))
			continue
		}
		m.lines = append(m.lines, line)
	}
	m.log.Debug("traced", zap.String("model", sel.String()), zap.Int("lines", len(m.lines)))
	m.sightline()
}

func (m *model) sightline() {
	if m.field == nil {
		return
	}
	dir := los.Direction(m.l, m.b)
	from := m.cfg.ObserverPos()
	profile, err := los.Profile(m.field, from, dir, m.cfg.Step)
	if err != nil {
		m.err = err
		return
	}
	m.profile = profile
	m.integrals = los.Standard()
	if err := los.Integrate(m.field, from, dir, m.cfg.Step, m.integrals...); err != nil {
		m.err = err
	}
}

// seeds places field-line starting points on both sides of the center and
// at the observer, just above the disk midplane.
func seeds(observer geom.Vec3) []geom.Vec3 {
	out := make([]geom.Vec3, 0, 2*len(seedRadii)+1)
	for _, r := range seedRadii {
		out = append(out, geom.New(r, 0, 0.05), geom.New(-r, 0, 0.05))
	}
	return append(out, observer)
}

func (m *model) redraw() {
	m.canvas.Clear()
	switch m.view {
	case viewMap:
		m.drawMap()
	case view3D:
		m.draw3D()
	case viewProfile:
		m.drawProfile()
	}
}

func (m *model) drawMap() {
	w := viz.Window{MinX: -mapExtent, MaxX: mapExtent, MinY: -mapExtent, MaxY: mapExtent}
	m.canvas.Circle(w, 0, 0, m.cfg.MaxRadius, 96)
	for _, line := range m.lines {
		xs := make([]float64, len(line.Points))
		ys := make([]float64, len(line.Points))
		for i, p := range line.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		m.canvas.Polyline(w, xs, ys)
	}
	if n := len(m.profile); n > 0 {
		first, last := m.profile[0].Pos, m.profile[n-1].Pos
		m.canvas.Polyline(w, []float64{first.X, last.X}, []float64{first.Y, last.Y})
	}
	obs := m.cfg.ObserverPos()
	m.canvas.Circle(w, obs.X, obs.Y, 0.4, 8)
}

func (m *model) draw3D() {
	wf := viz.NewWireframe()
	wf.AddRing(m.cfg.MaxRadius, 0, 64)
	for _, line := range m.lines {
		wf.AddPath(line.Points)
	}
	viz.Render3D(m.canvas, wf, m.camera)
}

func (m *model) drawProfile() {
	if len(m.profile) == 0 {
		return
	}
	last := m.profile[len(m.profile)-1].L
	lo, hi := 0.0, 0.0
	for _, s := range m.profile {
		lo = min(lo, s.Parallel)
		hi = max(hi, s.B.Norm())
	}
	if hi == lo {
		hi = lo + 1
	}
	w := viz.Window{MinX: 0, MaxX: max(last, m.cfg.Step), MinY: lo, MaxY: hi}
	ls := make([]float64, len(m.profile))
	mag := make([]float64, len(m.profile))
	par := make([]float64, len(m.profile))
	for i, s := range m.profile {
		ls[i], mag[i], par[i] = s.L, s.B.Norm(), s.Parallel
	}
	m.canvas.Polyline(w, []float64{0, w.MaxX}, []float64{0, 0})
	m.canvas.Polyline(w, ls, mag)
	m.canvas.Polyline(w, ls, par)
}

func (m *model) save() {
	name := fmt.Sprintf("%s_%s.svg", m.models[m.cursor], m.view)
	path := filepath.Join(m.outDir, name)
	if err := os.WriteFile(path, []byte(export.CanvasToSVG(m.canvas, 4)), 0644); err != nil {
		m.err = err
		return
	}
	m.log.Info("saved snapshot", zap.String("path", path))
	m.status = "saved " + path
}

func newHelp() help.Model {
	h := help.New()
	h.Styles.ShortKey = viz.KeyHint
	h.Styles.ShortDesc = viz.Subtle
	return h
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""
	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.load()
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < len(m.models)-1 {
			m.cursor++
			m.load()
		}
	case key.Matches(km, m.keys.View):
		m.view = (m.view + 1) % numViews
	case key.Matches(km, m.keys.West):
		m.l = wrapLongitude(m.l - angleStep)
		m.sightline()
	case key.Matches(km, m.keys.East):
		m.l = wrapLongitude(m.l + angleStep)
		m.sightline()
	case key.Matches(km, m.keys.South):
		m.b = max(m.b-angleStep, -90)
		m.sightline()
	case key.Matches(km, m.keys.North):
		m.b = min(m.b+angleStep, 90)
		m.sightline()
	case key.Matches(km, m.keys.rotLeft):
		m.camera.RotateZ(-0.1)
	case key.Matches(km, m.keys.rotRight):
		m.camera.RotateZ(0.1)
	case key.Matches(km, m.keys.tiltUp):
		m.camera.RotateX(-0.1)
	case key.Matches(km, m.keys.tiltDown):
		m.camera.RotateX(0.1)
	case key.Matches(km, m.keys.zoomIn):
		m.camera.ZoomIn()
	case key.Matches(km, m.keys.zoomOut):
		m.camera.ZoomOut()
	case key.Matches(km, m.keys.Save):
		m.save()
	}
	m.redraw()
	return m, nil
}

func wrapLongitude(l float64) float64 {
	for l < 0 {
		l += 360
	}
	for l >= 360 {
		l -= 360
	}
	return l
}

func (m *model) View() string {
	var side strings.Builder
	side.WriteString(viz.Title.Render("GALMAG") + "\n")
	side.WriteString(viz.Subtle.Render("galactic field explorer") + "\n\n")
	for i, gm := range m.models {
		if i == m.cursor {
			side.WriteString(viz.Selected.Render("▸ "+gm.String()) + "\n")
		} else {
			side.WriteString(viz.Subtle.Render("  "+gm.String()) + "\n")
		}
	}
	side.WriteString("\n" + viz.Subtle.Render(m.models[m.cursor].Description()) + "\n")
	side.WriteString(viz.Separator(sideWidth) + "\n")

	side.WriteString(metric("view", m.view.String()))
	side.WriteString(metric("l", fmt.Sprintf("%.1f°", m.l)))
	side.WriteString(metric("b", fmt.Sprintf("%.1f°", m.b)))
	side.WriteString(metric("lines", fmt.Sprintf("%d", len(m.lines))))
	for _, o := range m.integrals {
		side.WriteString(metric(o.Name(), fmt.Sprintf("%.4g", o.Value())))
	}
	if len(m.profile) > 0 {
		mag := make([]float64, len(m.profile))
		for i, s := range m.profile {
			mag[i] = s.B.Norm()
		}
		side.WriteString("\n" + viz.MetricLabel.Render("|B| along l") + "\n" + viz.Sparkline(mag, 24) + "\n")
	}

	var b strings.Builder
	b.WriteString(viz.Panel.Render(m.canvas.String()))
	b.WriteString("\n")
	b.WriteString(side.String())
	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	if m.err != nil {
		b.WriteString(viz.StatusError.Render(m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(viz.StatusOK.Render(m.status) + "\n")
	}
	return b.String()
}

func metric(label, value string) string {
	return viz.MetricLabel.Render(fmt.Sprintf("%-10s", label)) + viz.MetricValue.Render(value) + "\n"
}

// Run starts the explorer on the alternate screen.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
