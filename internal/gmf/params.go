package gmf

import (
	"fmt"
	"strings"

	"github.com/san-kum/galmag/internal/units"
)

// Param indexes the model parameter vector. The order is fixed and shared by
// every model.
type Param int

const (
	DiskB1 Param = iota
	DiskB2
	DiskB3
	DiskH
	DiskPhase1
	DiskPhase2
	DiskPhase3
	DiskPitch
	DiskW
	PoloidalA
	PoloidalB
	PoloidalP
	PoloidalR
	PoloidalW
	PoloidalZ
	PoloidalXi
	SpurCenter
	SpurLength
	SpurWidth
	Striation
	ToroidalBN
	ToroidalBS
	ToroidalR
	ToroidalW
	ToroidalZ
	TwistingTime

	// NumParams is the length of every parameter vector.
	NumParams
)

type paramInfo struct {
	name     string
	unit     float64
	unitName string
}

var params = [NumParams]paramInfo{
	DiskB1:       {"DiskB1", units.Microgauss, "muG"},
	DiskB2:       {"DiskB2", units.Microgauss, "muG"},
	DiskB3:       {"DiskB3", units.Microgauss, "muG"},
	DiskH:        {"DiskH", units.Kpc, "kpc"},
	DiskPhase1:   {"DiskPhase1", units.Degree, "deg"},
	DiskPhase2:   {"DiskPhase2", units.Degree, "deg"},
	DiskPhase3:   {"DiskPhase3", units.Degree, "deg"},
	DiskPitch:    {"DiskPitch", units.Degree, "deg"},
	DiskW:        {"DiskW", units.Kpc, "kpc"},
	PoloidalA:    {"PoloidalA", units.Kpc, "kpc"},
	PoloidalB:    {"PoloidalB", units.Microgauss, "muG"},
	PoloidalP:    {"PoloidalP", 1, ""},
	PoloidalR:    {"PoloidalR", units.Kpc, "kpc"},
	PoloidalW:    {"PoloidalW", units.Kpc, "kpc"},
	PoloidalZ:    {"PoloidalZ", units.Kpc, "kpc"},
	PoloidalXi:   {"PoloidalXi", units.Degree, "deg"},
	SpurCenter:   {"SpurCenter", units.Degree, "deg"},
	SpurLength:   {"SpurLength", units.Degree, "deg"},
	SpurWidth:    {"SpurWidth", units.Degree, "deg"},
	Striation:    {"Striation", 1, ""},
	ToroidalBN:   {"ToroidalBN", units.Microgauss, "muG"},
	ToroidalBS:   {"ToroidalBS", units.Microgauss, "muG"},
	ToroidalR:    {"ToroidalR", units.Kpc, "kpc"},
	ToroidalW:    {"ToroidalW", units.Kpc, "kpc"},
	ToroidalZ:    {"ToroidalZ", units.Kpc, "kpc"},
	TwistingTime: {"TwistingTime", units.Megayear, "Myr"},
}

func (p Param) Valid() bool {
	return p >= 0 && p < NumParams
}

func (p Param) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Param(%d)", int(p))
	}
	return params[p].name
}

// Unit is the factor converting the physical value of p into canonical
// units.
func (p Param) Unit() float64 {
	if !p.Valid() {
		return 1
	}
	return params[p].unit
}

// UnitName is the physical unit of p, empty for dimensionless parameters.
func (p Param) UnitName() string {
	if !p.Valid() {
		return ""
	}
	return params[p].unitName
}

// ParamByName resolves a parameter name. Matching is case-insensitive.
func ParamByName(name string) (Param, error) {
	for i, info := range params {
		if strings.EqualFold(info.name, name) {
			return Param(i), nil
		}
	}
	return 0, fmt.Errorf("gmf: unknown parameter %q", name)
}

// ParamNames lists parameter names in vector order.
func ParamNames() []string {
	names := make([]string, NumParams)
	for i, info := range params {
		names[i] = info.name
	}
	return names
}

// Parameters is a parameter vector in canonical units.
type Parameters [NumParams]float64

func (p *Parameters) fromPhysical(v *[NumParams]float64) {
	for i := range p {
		p[i] = v[i] * params[i].unit
	}
}
