package gmf

import "github.com/san-kum/galmag/internal/units"

// defaultPoloidalA sends the X-field transition radius to infinity, which
// reduces the poloidal field to straight lines (Eq. 38).
const defaultPoloidalA = 1 * units.Gpc / units.Kpc

// catalog holds the best-fit parameters of each model in physical units.
// Slots not listed are zero.
var catalog = [numModels]map[Param]float64{
	Base: {
		DiskB1:     1.0878565e+00,
		DiskB2:     2.6605034e+00,
		DiskB3:     3.1166311e+00,
		DiskH:      7.9408965e-01,
		DiskPhase1: 2.6316589e+02,
		DiskPhase2: 9.7782269e+01,
		DiskPhase3: 3.5112281e+01,
		DiskPitch:  1.0106900e+01,
		DiskW:      1.0720909e-01,
		PoloidalB:  9.7775487e-01,
		PoloidalP:  1.4266186e+00,
		PoloidalR:  7.2925417e+00,
		PoloidalW:  1.1188158e-01,
		PoloidalZ:  4.4597373e+00,
		Striation:  3.4557571e-01,
		ToroidalBN: 3.2556760e+00,
		ToroidalBS: -3.0914569e+00,
		ToroidalR:  1.0193815e+01,
		ToroidalW:  1.6936993e+00,
		ToroidalZ:  4.0242749e+00,
	},
	Cre10: {
		DiskB1:     1.2035697e+00,
		DiskB2:     2.7478490e+00,
		DiskB3:     3.2104342e+00,
		DiskH:      8.0844932e-01,
		DiskPhase1: 2.6515882e+02,
		DiskPhase2: 9.8211313e+01,
		DiskPhase3: 3.5944588e+01,
		DiskPitch:  1.0162759e+01,
		DiskW:      1.0824003e-01,
		PoloidalB:  9.6938453e-01,
		PoloidalP:  1.4150957e+00,
		PoloidalR:  7.2987296e+00,
		PoloidalW:  1.0923051e-01,
		PoloidalZ:  4.5748332e+00,
		Striation:  2.4950386e-01,
		ToroidalBN: 3.7308133e+00,
		ToroidalBS: -3.5039958e+00,
		ToroidalR:  1.0407507e+01,
		ToroidalW:  1.7398375e+00,
		ToroidalZ:  2.9272800e+00,
	},
	NebCor: {
		DiskB1:     1.4081935e+00,
		DiskB2:     3.5292400e+00,
		DiskB3:     4.1290147e+00,
		DiskH:      8.1151971e-01,
		DiskPhase1: 2.6447529e+02,
		DiskPhase2: 9.7572660e+01,
		DiskPhase3: 3.6403798e+01,
		DiskPitch:  1.0151183e+01,
		DiskW:      1.1863734e-01,
		PoloidalB:  1.3485916e+00,
		PoloidalP:  1.3414395e+00,
		PoloidalR:  7.2473841e+00,
		PoloidalW:  1.4318227e-01,
		PoloidalZ:  4.8242603e+00,
		Striation:  3.8610837e-10,
		ToroidalBN: 4.6491142e+00,
		ToroidalBS: -4.5006610e+00,
		ToroidalR:  1.0205288e+01,
		ToroidalW:  1.7004868e+00,
		ToroidalZ:  3.5557767e+00,
	},
	NeCL: {
		DiskB1:     1.4259645e+00,
		DiskB2:     1.3543223e+00,
		DiskB3:     3.4390669e+00,
		DiskH:      6.7405199e-01,
		DiskPhase1: 1.9961898e+02,
		DiskPhase2: 1.3541461e+02,
		DiskPhase3: 6.4909767e+01,
		DiskPitch:  1.1867859e+01,
		DiskW:      6.1162799e-02,
		PoloidalB:  9.8387831e-01,
		PoloidalP:  1.6773615e+00,
		PoloidalR:  7.4084361e+00,
		PoloidalW:  1.4168192e-01,
		PoloidalZ:  3.6521188e+00,
		Striation:  3.3600213e-01,
		ToroidalBN: 2.6256593e+00,
		ToroidalBS: -2.5699466e+00,
		ToroidalR:  1.0134257e+01,
		ToroidalW:  1.1547728e+00,
		ToroidalZ:  4.5585463e+00,
	},
	Spur: {
		DiskB1:     -4.2993328e+00,
		DiskH:      7.5019749e-01,
		DiskPhase1: 1.5589875e+02,
		DiskPitch:  1.2074432e+01,
		DiskW:      1.2263120e-01,
		PoloidalB:  9.9302987e-01,
		PoloidalP:  1.3982374e+00,
		PoloidalR:  7.1973387e+00,
		PoloidalW:  1.2262244e-01,
		PoloidalZ:  4.4853270e+00,
		SpurCenter: 1.5718686e+02,
		SpurLength: 3.1839577e+01,
		SpurWidth:  1.0318114e+01,
		Striation:  3.3022369e-01,
		ToroidalBN: 2.9286724e+00,
		ToroidalBS: -2.5979895e+00,
		ToroidalR:  9.7536425e+00,
		ToroidalW:  1.4210055e+00,
		ToroidalZ:  6.0941229e+00,
	},
	SynCG: {
		DiskB1:     8.1386878e-01,
		DiskB2:     2.0586930e+00,
		DiskB3:     2.9437335e+00,
		DiskH:      6.2172353e-01,
		DiskPhase1: 2.2988551e+02,
		DiskPhase2: 9.7388282e+01,
		DiskPhase3: 3.2927367e+01,
		DiskPitch:  9.9034844e+00,
		DiskW:      6.6517521e-02,
		PoloidalB:  8.0883734e-01,
		PoloidalP:  1.5820957e+00,
		PoloidalR:  7.4625235e+00,
		PoloidalW:  1.5003765e-01,
		PoloidalZ:  3.5338550e+00,
		Striation:  6.3434763e-01,
		ToroidalBN: 2.3991193e+00,
		ToroidalBS: -2.0919944e+00,
		ToroidalR:  9.4227834e+00,
		ToroidalW:  9.1608418e-01,
		ToroidalZ:  5.5844594e+00,
	},
	TwistX: {
		DiskB1:       1.3741995e+00,
		DiskB2:       2.0089881e+00,
		DiskB3:       1.5212463e+00,
		DiskH:        9.3806180e-01,
		DiskPhase1:   2.3560316e+02,
		DiskPhase2:   1.0189856e+02,
		DiskPhase3:   5.6187572e+01,
		DiskPitch:    1.2100979e+01,
		DiskW:        1.4933338e-01,
		PoloidalB:    6.2793114e-01,
		PoloidalP:    2.3292519e+00,
		PoloidalR:    7.9212358e+00,
		PoloidalW:    2.9056201e-01,
		PoloidalZ:    2.6274437e+00,
		Striation:    7.7616317e-01,
		TwistingTime: 5.4733549e+01,
	},
	ExpX: {
		DiskB1:     9.9258148e-01,
		DiskB2:     2.1821124e+00,
		DiskB3:     3.1197345e+00,
		DiskH:      7.1508681e-01,
		DiskPhase1: 2.4745741e+02,
		DiskPhase2: 9.8578879e+01,
		DiskPhase3: 3.4884485e+01,
		DiskPitch:  1.0027070e+01,
		DiskW:      9.8524736e-02,
		PoloidalA:  6.1938701e+00,
		PoloidalB:  5.8357990e+00,
		PoloidalP:  1.9510779e+00,
		PoloidalR:  2.4994376e+00,
		PoloidalXi: 2.0926122e+01,
		Striation:  5.1440500e-01,
		ToroidalBN: 2.7077434e+00,
		ToroidalBS: -2.5677104e+00,
		ToroidalR:  1.0134022e+01,
		ToroidalW:  2.0956159e+00,
		ToroidalZ:  5.4564991e+00,
	},
}

// defaults returns the physical parameter vector of m.
func defaults(m Model) [NumParams]float64 {
	var v [NumParams]float64
	v[PoloidalA] = defaultPoloidalA
	for p, x := range catalog[m] {
		v[p] = x
	}
	return v
}
