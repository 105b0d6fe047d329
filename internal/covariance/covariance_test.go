package covariance_test

import (
	"math"
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/galmag/internal/covariance"
	"github.com/san-kum/galmag/internal/gmf"
)

// published MINOS uncertainties of the base fit, in factor row order
var baseSigmas = []float64{
	1.39562e-01, 2.07490e-01, 1.50666e-01, 8.50628e+00, 2.79908e+00,
	2.17837e+00, 1.29000e-01, 3.13721e-01, 2.95585e-01, 1.71916e-01,
	4.01536e-01, 6.98928e-01, 3.31716e-02, 9.21029e-02, 5.67779e-02,
	2.85741e-02, 4.03012e-01, 3.23158e-02, 2.54924e-02, 3.35535e-02,
}

var _ = Describe("Covariance", func() {
	Describe("the base factor", func() {
		var c *covariance.Covariance

		BeforeEach(func() {
			var err error
			c, err = covariance.New(gmf.Base)
			Expect(err).NotTo(HaveOccurred())
		})

		It("has consistent dimensions", func() {
			d := c.Dimension()
			Expect(d).To(Equal(20))
			Expect(c.Indices()).To(HaveLen(d))
			Expect(c.Factor()).To(HaveLen(d * (d + 1) / 2))
			Expect(c.Matrix().SymmetricDim()).To(Equal(d))
		})

		It("lists ToroidalR twice", func() {
			idx := c.Indices()
			Expect(idx[9]).To(Equal(gmf.ToroidalR))
			Expect(idx[10]).To(Equal(gmf.ToroidalR))
		})

		It("is symmetric positive semi-definite", func() {
			v := c.Matrix()
			d := v.SymmetricDim()
			for i := 0; i < d; i++ {
				Expect(v.At(i, i)).To(BeNumerically(">=", 0))
				for j := 0; j < i; j++ {
					Expect(v.At(i, j)).To(Equal(v.At(j, i)))
				}
			}

			var eig mat.EigenSym
			Expect(eig.Factorize(v, false)).To(BeTrue())
			for _, ev := range eig.Values(nil) {
				Expect(ev).To(BeNumerically(">", -1e-12))
			}
		})

		It("reproduces the published uncertainties", func() {
			for i, s := range c.StdDevs() {
				Expect(s).To(BeNumerically("~", baseSigmas[i], 1e-5*baseSigmas[i]), "row %d", i)
			}
		})

		It("matches the packed sum formula", func() {
			l := c.Factor()
			v := c.Matrix()
			idx := func(i, k int) int { return i*(i+1)/2 + k }
			for i := 0; i < 20; i++ {
				for j := 0; j <= i; j++ {
					var sum float64
					for k := 0; k <= j; k++ {
						sum += l[idx(i, k)] * l[idx(j, k)]
					}
					Expect(v.At(i, j)).To(BeNumerically("~", sum, 1e-12*(1+math.Abs(sum))))
				}
			}
		})

		It("has a unit-diagonal correlation bounded by one", func() {
			r := c.Correlation()
			for i := 0; i < 20; i++ {
				Expect(r.At(i, i)).To(Equal(1.0))
				for j := 0; j < i; j++ {
					Expect(math.Abs(r.At(i, j))).To(BeNumerically("<=", 1+1e-12))
				}
			}
		})

		It("rejects normals of the wrong length", func() {
			_, err := c.Offset(make([]float64, 19))
			Expect(err).To(MatchError(gmf.ErrDimensionMismatch))
		})

		It("returns fresh copies", func() {
			f := c.Factor()
			f[0] = 99
			Expect(c.Factor()[0]).To(Equal(1.39562e-01))
			v := c.Matrix()
			v.SetSym(0, 0, 99)
			Expect(c.Matrix().At(0, 0)).NotTo(Equal(99.0))
		})

		It("samples offsets with the stored covariance", func() {
			const nDraw = 100000
			d := c.Dimension()
			normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewPCG(123, 456)}

			draws := mat.NewDense(nDraw, d, nil)
			n := make([]float64, d)
			for s := 0; s < nDraw; s++ {
				for i := range n {
					n[i] = normal.Rand()
				}
				off, err := c.Offset(n)
				Expect(err).NotTo(HaveOccurred())
				draws.SetRow(s, off)
			}

			var sample mat.SymDense
			stat.CovarianceMatrix(&sample, draws, nil)

			v := c.Matrix()
			relTol := 4 * math.Sqrt(2/float64(nDraw+1))
			for i := 0; i < d; i++ {
				a, b := sample.At(i, i), v.At(i, i)
				Expect(math.Abs(a-b)).To(BeNumerically("<=", relTol*math.Max(math.Abs(a), math.Abs(b))), "variance %d", i)
			}

			maxDelta := 0.01 * 1000 / math.Sqrt(nDraw)
			want := c.Correlation()
			for i := 0; i < d; i++ {
				for j := 0; j < i; j++ {
					got := sample.At(i, j) / math.Sqrt(sample.At(i, i)*sample.At(j, j))
					Expect(got).To(BeNumerically("~", want.At(i, j), maxDelta), "correlation %d,%d", i, j)
				}
			}
		})
	})

	Describe("models without a fitted factor", func() {
		It("report a configuration error", func() {
			for _, m := range gmf.Models() {
				if m == gmf.Base {
					continue
				}
				Expect(covariance.Available(m)).To(BeFalse())
				_, err := covariance.New(m)
				Expect(err).To(MatchError(covariance.ErrNoFactor))
				Expect(err).To(MatchError(gmf.ErrUnknownModel))
			}
		})

		It("reject unknown model tags", func() {
			_, err := covariance.New(gmf.Model(200))
			Expect(err).To(MatchError(gmf.ErrUnknownModel))
			Expect(err).NotTo(MatchError(covariance.ErrNoFactor))
		})
	})

	Describe("FromFactor", func() {
		It("computes V and offsets for a hand factor", func() {
			// L = [[2 0] [1 3]]
			c, err := covariance.FromFactor(gmf.Spur, []float64{2, 1, 3}, []gmf.Param{gmf.DiskB1, gmf.DiskH})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Model()).To(Equal(gmf.Spur))

			v := c.Matrix()
			Expect(v.At(0, 0)).To(BeNumerically("~", 4, 1e-15))
			Expect(v.At(0, 1)).To(BeNumerically("~", 2, 1e-15))
			Expect(v.At(1, 1)).To(BeNumerically("~", 10, 1e-15))

			off, err := c.Offset([]float64{1, -1})
			Expect(err).NotTo(HaveOccurred())
			Expect(off).To(HaveLen(2))
			Expect(off[0]).To(BeNumerically("~", 2, 1e-15))
			Expect(off[1]).To(BeNumerically("~", -2, 1e-15))
		})

		It("accumulates duplicate indices into one slot", func() {
			c, err := covariance.FromFactor(gmf.Base, []float64{2, 1, 3}, []gmf.Param{gmf.ToroidalR, gmf.ToroidalR})
			Expect(err).NotTo(HaveOccurred())

			params := make([]float64, gmf.NumParams)
			params[gmf.ToroidalR] = 10
			off, _ := c.Offset([]float64{1, 1})
			Expect(c.Apply(params, off)).To(Succeed())
			Expect(params[gmf.ToroidalR]).To(BeNumerically("~", 16, 1e-12))
		})

		DescribeTable("rejects malformed input",
			func(packed []float64, indices []gmf.Param) {
				_, err := covariance.FromFactor(gmf.Base, packed, indices)
				Expect(err).To(HaveOccurred())
			},
			Entry("short factor", []float64{1, 2}, []gmf.Param{gmf.DiskB1, gmf.DiskB2}),
			Entry("long factor", []float64{1, 2, 3, 4}, []gmf.Param{gmf.DiskB1, gmf.DiskB2}),
			Entry("no indices", []float64{}, nil),
			Entry("bad slot", []float64{1}, []gmf.Param{gmf.NumParams}),
		)

		It("flags length errors as dimension mismatches", func() {
			_, err := covariance.FromFactor(gmf.Base, []float64{1, 2}, []gmf.Param{gmf.DiskB1, gmf.DiskB2})
			Expect(err).To(MatchError(gmf.ErrDimensionMismatch))
		})
	})
})
