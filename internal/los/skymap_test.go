package los

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
)

type uniformField struct {
	b     geom.Vec3
	rMax2 float64
}

func (u uniformField) Evaluate(geom.Vec3) (geom.Vec3, error) {
	return u.b, nil
}

func (u uniformField) MaxRadiusSquared() float64 {
	return u.rMax2
}

func TestSkyMapCoords(t *testing.T) {
	m := &SkyMap{NL: 4, NB: 2}
	l, b := m.Coords(0, 0)
	if l != 45 || b != -45 {
		t.Errorf("Coords(0, 0) = (%g, %g)", l, b)
	}
	l, b = m.Coords(3, 1)
	if l != 315 || b != 45 {
		t.Errorf("Coords(3, 1) = (%g, %g)", l, b)
	}
}

func TestMapUniformField(t *testing.T) {
	// 101 steps of 0.1 kpc fit inside radius 10.05 in every direction
	f := uniformField{b: geom.New(0, 0, 1), rMax2: 10.05 * 10.05}
	const nl, nb = 8, 6

	par, err := Map(context.Background(), f, geom.Zero, 0.1, nl, nb, 4, func() Observable { return NewParallel() })
	if err != nil {
		t.Fatal(err)
	}
	if par.Name != "parallel" || len(par.Values) != nl*nb {
		t.Fatalf("map %q with %d values", par.Name, len(par.Values))
	}
	for j := 0; j < nb; j++ {
		for i := 0; i < nl; i++ {
			_, b := par.Coords(i, j)
			want := 101 * 0.1 * math.Sin(b*math.Pi/180)
			if got := par.At(i, j); math.Abs(got-want) > 1e-9 {
				t.Errorf("At(%d, %d) = %g, want %g", i, j, got, want)
			}
		}
	}

	rows := par.Rows()
	if len(rows) != nb || rows[0][0] != par.At(0, nb-1) {
		t.Error("rows are not north first")
	}

	mag, err := Map(context.Background(), f, geom.Zero, 0.1, nl, nb, 1, func() Observable { return NewMagnitude() })
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range mag.Values {
		if math.Abs(v-10.1) > 1e-9 {
			t.Fatalf("magnitude[%d] = %g, want 10.1", k, v)
		}
	}
}

func TestMapMatchesIntegrate(t *testing.T) {
	f, err := gmf.New(gmf.Base)
	if err != nil {
		t.Fatal(err)
	}
	// enough cells to spread over several workers
	m, err := Map(context.Background(), f, Sun, 0.5, 36, 18, 3, func() Observable { return NewPerpSquared() })
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range [][2]int{{0, 0}, {7, 9}, {35, 17}} {
		l, b := m.Coords(c[0], c[1])
		obs := NewPerpSquared()
		if err := Integrate(f, Sun, Direction(l, b), 0.5, obs); err != nil {
			t.Fatal(err)
		}
		if got := m.At(c[0], c[1]); got != obs.Value() {
			t.Errorf("cell %v = %g, want %g", c, got, obs.Value())
		}
	}
}

func TestMapErrors(t *testing.T) {
	f := uniformField{b: geom.New(1, 0, 0), rMax2: 100}
	newObs := func() Observable { return NewParallel() }

	if _, err := Map(context.Background(), f, geom.Zero, 0.1, 0, 4, 1, newObs); err == nil {
		t.Error("empty grid accepted")
	}
	if _, err := Map(context.Background(), f, geom.Zero, 0, 4, 4, 1, newObs); !errors.Is(err, ErrInvalidStep) {
		t.Errorf("err = %v, want ErrInvalidStep", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Map(ctx, f, geom.Zero, 0.1, 4, 4, 1, newObs); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
