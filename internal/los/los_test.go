package los

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
)

func TestDirection(t *testing.T) {
	tests := []struct {
		l, b float64
		want geom.Vec3
	}{
		{0, 0, geom.New(1, 0, 0)},
		{90, 0, geom.New(0, 1, 0)},
		{180, 0, geom.New(-1, 0, 0)},
		{0, 90, geom.New(0, 0, 1)},
		{0, -90, geom.New(0, 0, -1)},
	}
	for _, tt := range tests {
		got := Direction(tt.l, tt.b)
		if got.Sub(tt.want).Norm() > 1e-15 {
			t.Errorf("Direction(%g, %g) = %v, want %v", tt.l, tt.b, got, tt.want)
		}
		if math.Abs(got.Norm()-1) > 1e-15 {
			t.Errorf("Direction(%g, %g) not unit: %g", tt.l, tt.b, got.Norm())
		}
	}
}

func TestIntegrateReference(t *testing.T) {
	tests := []struct {
		model           gmf.Model
		l, b            float64
		par, perp2, mag float64
		steps           int
	}{
		{gmf.Base, 90, 10, 3.3949026712e-01, 5.1897664340e+00, 1.2465700185e+01, 289},
		{gmf.Base, 0, 0, 1.3800298038e-01, 5.1265893383e+01, 3.1351414954e+01, 382},
		{gmf.Base, 180, -30, -4.1513560784e-01, 8.1074957033e+00, 6.1711631950e+00, 227},
		{gmf.TwistX, 90, 10, 5.1184943362e+00, 3.1842498404e+00, 7.1542351002e+00, 289},
		{gmf.TwistX, 0, 0, -3.0506170499e-01, 3.1894963042e+01, 2.3097943493e+01, 382},
		{gmf.TwistX, 180, -30, -2.7776440881e+00, 4.2978096458e+00, 5.5890975104e+00, 227},
	}
	for _, tt := range tests {
		f, err := gmf.New(tt.model)
		if err != nil {
			t.Fatal(err)
		}
		dir := Direction(tt.l, tt.b)
		par, perp2, mag := NewParallel(), NewPerpSquared(), NewMagnitude()
		if err := Integrate(f, Sun, dir, DefaultStep, par, perp2, mag); err != nil {
			t.Fatalf("%v (%g, %g): %v", tt.model, tt.l, tt.b, err)
		}
		for _, c := range []struct {
			obs  Observable
			want float64
		}{{par, tt.par}, {perp2, tt.perp2}, {mag, tt.mag}} {
			if got := c.obs.Value(); math.Abs(got-c.want) > 1e-6*math.Abs(c.want) {
				t.Errorf("%v (%g, %g) %s = %.10e, want %.10e", tt.model, tt.l, tt.b, c.obs.Name(), got, c.want)
			}
		}

		prof, err := Profile(f, Sun, dir, DefaultStep)
		if err != nil {
			t.Fatal(err)
		}
		if len(prof) != tt.steps {
			t.Errorf("%v (%g, %g): %d steps, want %d", tt.model, tt.l, tt.b, len(prof), tt.steps)
		}
	}
}

func TestIntegrateResets(t *testing.T) {
	f, _ := gmf.New(gmf.Base)
	dir := Direction(90, 10)
	par := NewParallel()
	if err := Integrate(f, Sun, dir, DefaultStep, par); err != nil {
		t.Fatal(err)
	}
	first := par.Value()
	if err := Integrate(f, Sun, dir, DefaultStep, par); err != nil {
		t.Fatal(err)
	}
	if par.Value() != first {
		t.Errorf("second integration = %g, want %g", par.Value(), first)
	}
}

func TestProfileMatchesIntegral(t *testing.T) {
	f, _ := gmf.New(gmf.Spur)
	dir := Direction(45, 5)
	prof, err := Profile(f, Sun, dir, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for i, s := range prof {
		if want := float64(i) * 0.05; math.Abs(s.L-want) > 1e-12 {
			t.Fatalf("sample %d at l = %g, want %g", i, s.L, want)
		}
		if s.Pos.SquaredNorm() >= f.MaxRadiusSquared() {
			t.Fatalf("sample %d outside cutoff", i)
		}
		sum += s.Parallel * 0.05
	}
	par := NewParallel()
	_ = Integrate(f, Sun, dir, 0.05, par)
	if math.Abs(sum-par.Value()) > 1e-12 {
		t.Errorf("profile sum %g != integral %g", sum, par.Value())
	}
}

func TestObserverOutsideCutoff(t *testing.T) {
	f, _ := gmf.New(gmf.Base, gmf.WithMaxRadius(5))
	prof, err := Profile(f, Sun, Direction(0, 0), DefaultStep)
	if err != nil {
		t.Fatal(err)
	}
	if len(prof) != 0 {
		t.Errorf("got %d samples from outside the cutoff", len(prof))
	}
}

func TestInvalidStep(t *testing.T) {
	f, _ := gmf.New(gmf.Base)
	for _, step := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		if err := Integrate(f, Sun, Direction(0, 0), step, NewParallel()); !errors.Is(err, ErrInvalidStep) {
			t.Errorf("step %g: error = %v, want ErrInvalidStep", step, err)
		}
	}
}

func TestProjection(t *testing.T) {
	b := geom.New(3, 4, 0)
	par, perp2 := project(b, geom.New(1, 0, 0))
	if par != 3 || perp2 != 16 {
		t.Errorf("project = %g, %g, want 3, 16", par, perp2)
	}
}

func TestByName(t *testing.T) {
	for _, o := range Standard() {
		got := ByName(o.Name())
		if got == nil || got.Name() != o.Name() {
			t.Errorf("ByName(%q) = %v", o.Name(), got)
		}
	}
	if ByName("rm") != nil {
		t.Error("ByName(rm) should be nil")
	}
}
