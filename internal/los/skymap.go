package los

import (
	"context"
	"fmt"

	"github.com/san-kum/galmag/internal/geom"
	"github.com/san-kum/galmag/internal/gmf"
)

// SkyMap is an observable on an equirectangular grid of sight lines,
// stored row by row from the southernmost latitude band.
type SkyMap struct {
	Name   string
	NL, NB int
	Values []float64
}

// Coords returns the cell center (l, b) in degrees, l in [0, 360).
func (m *SkyMap) Coords(i, j int) (l, b float64) {
	l = 360 * (float64(i) + 0.5) / float64(m.NL)
	b = -90 + 180*(float64(j)+0.5)/float64(m.NB)
	return l, b
}

func (m *SkyMap) At(i, j int) float64 {
	return m.Values[j*m.NL+i]
}

// Rows returns the map as latitude rows, north first, for display.
func (m *SkyMap) Rows() [][]float64 {
	rows := make([][]float64, m.NB)
	for j := range rows {
		src := m.NB - 1 - j
		rows[j] = m.Values[src*m.NL : (src+1)*m.NL]
	}
	return rows
}

// Map integrates a fresh observable from newObs along nl x nb sight lines,
// spread over workers goroutines.
func Map(ctx context.Context, f Field, from geom.Vec3, step float64, nl, nb, workers int, newObs func() Observable) (*SkyMap, error) {
	if nl <= 0 || nb <= 0 {
		return nil, fmt.Errorf("los: invalid grid %dx%d", nl, nb)
	}
	m := &SkyMap{Name: newObs().Name(), NL: nl, NB: nb, Values: make([]float64, nl*nb)}
	err := gmf.ParallelFor(ctx, nl*nb, workers, func(start, end int) error {
		obs := newObs()
		for k := start; k < end; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			l, b := m.Coords(k%nl, k/nl)
			obs.Reset()
			if err := Integrate(f, from, Direction(l, b), step, obs); err != nil {
				return err
			}
			m.Values[k] = obs.Value()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
