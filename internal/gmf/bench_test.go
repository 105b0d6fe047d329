package gmf

import (
	"context"
	"testing"

	"github.com/san-kum/galmag/internal/geom"
)

func BenchmarkEvaluate(b *testing.B) {
	pos := geom.New(1, 3, 2)
	for _, m := range Models() {
		b.Run(m.String(), func(b *testing.B) {
			f, err := New(m)
			if err != nil {
				b.Fatal(err)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := f.Evaluate(pos); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEvaluateMany(b *testing.B) {
	f, err := New(Base)
	if err != nil {
		b.Fatal(err)
	}
	positions := make([]geom.Vec3, 10000)
	for i := range positions {
		x := float64(i%100)/5 - 10
		y := float64(i/100)/5 - 10
		positions[i] = geom.New(x, y, 0.5)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := f.EvaluateMany(context.Background(), positions, 0); err != nil {
			b.Fatal(err)
		}
	}
}
