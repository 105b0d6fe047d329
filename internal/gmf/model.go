package gmf

import (
	"fmt"
	"strings"
)

// Model is one of the fitted field variants (Tab. 2 of the paper).
type Model uint8

const (
	Base Model = iota
	NeCL
	ExpX
	Spur
	Cre10
	SynCG
	TwistX
	NebCor

	numModels
)

var modelNames = [numModels]string{
	Base:   "base",
	NeCL:   "neCL",
	ExpX:   "expX",
	Spur:   "spur",
	Cre10:  "cre10",
	SynCG:  "synCG",
	TwistX: "twistX",
	NebCor: "nebCor",
}

var modelInfo = [numModels]string{
	Base:   "fiducial model",
	NeCL:   "NE2001 thermal electrons with clumps",
	ExpX:   "exponential X-field radial profile",
	Spur:   "local spur instead of grand-design spiral",
	Cre10:  "cosmic-ray electron halo of 10 kpc",
	SynCG:  "synchrotron maps with CG template",
	TwistX: "X-field twisted by differential rotation",
	NebCor: "NE2001 with corrected electron scale",
}

type diskShape uint8

const (
	spiralDisk diskShape = iota
	spurDisk
)

type haloShape uint8

const (
	toroidalPoloidalHalo haloShape = iota
	twistedHalo
)

type poloidalProfile uint8

const (
	logisticProfile poloidalProfile = iota
	exponentialProfile
)

type shape struct {
	disk     diskShape
	halo     haloShape
	poloidal poloidalProfile
}

// shapes fixes which sub-models each variant composes.
var shapes = [numModels]shape{
	Base:   {spiralDisk, toroidalPoloidalHalo, logisticProfile},
	NeCL:   {spiralDisk, toroidalPoloidalHalo, logisticProfile},
	ExpX:   {spiralDisk, toroidalPoloidalHalo, exponentialProfile},
	Spur:   {spurDisk, toroidalPoloidalHalo, logisticProfile},
	Cre10:  {spiralDisk, toroidalPoloidalHalo, logisticProfile},
	SynCG:  {spiralDisk, toroidalPoloidalHalo, logisticProfile},
	TwistX: {spiralDisk, twistedHalo, logisticProfile},
	NebCor: {spiralDisk, toroidalPoloidalHalo, logisticProfile},
}

func (m Model) Valid() bool {
	return m < numModels
}

func (m Model) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Model(%d)", uint8(m))
	}
	return modelNames[m]
}

// Description is a one-line summary of what distinguishes the variant.
func (m Model) Description() string {
	if !m.Valid() {
		return ""
	}
	return modelInfo[m]
}

// ParseModel resolves a model name. Matching is case-insensitive.
func ParseModel(name string) (Model, error) {
	for m, n := range modelNames {
		if strings.EqualFold(n, name) {
			return Model(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownModel, name, strings.Join(ModelNames(), ", "))
}

// Models lists all variants in catalog order.
func Models() []Model {
	ms := make([]Model, numModels)
	for i := range ms {
		ms[i] = Model(i)
	}
	return ms
}

func ModelNames() []string {
	names := make([]string, numModels)
	copy(names, modelNames[:])
	return names
}
