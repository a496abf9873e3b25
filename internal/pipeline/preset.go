// Public domain.

package pipeline

import (
	"fmt"
	"sort"

	"github.com/soniakeys/longfit/shower"
)

// Model selects a profile model family.
type Model int

const (
	GaisserHillas Model = iota
	Andringa
)

// NumParams returns the number of fitted parameters of the model.
func (m Model) NumParams() int {
	if m == Andringa {
		return 3
	}
	return 4
}

func (m Model) String() string {
	if m == Andringa {
		return "andringa"
	}
	return "gaisser-hillas"
}

// Variant is one fit of a preset.
type Variant struct {
	Model   Model
	Options shower.Options
}

func (v Variant) String() string { return v.Model.String() + "/" + v.Options.String() }

// Guessing selects how initial fit parameters are obtained.
type Guessing int

const (
	// JitterGuesses draws Nmax, X0, lambda, R and L from normal
	// distributions centred on the profile and file values with a
	// relative width of JitterScale.
	JitterGuesses Guessing = iota
	// AnalyticGuesses takes fixed X0 and lambda and derives R and L
	// from them.
	AnalyticGuesses
)

// JitterScale is the relative standard deviation of jittered guesses.
const JitterScale = .1

// TailSpan is the depth in g/cm² removed from the end of the profile when
// tail trimming is requested.
const TailSpan = 20.

// Preset collects the conventions of one observatory site.
type Preset struct {
	Name string
	// ObservationDepth is the vertical depth of the observation level in
	// g/cm².
	ObservationDepth float64
	// DropFinal removes the last sample, which may lie below ground.
	DropFinal bool
	// FitEM fits positron plus electron counts instead of all charged
	// particles.
	FitEM bool
	// RemoveZeroEM removes samples without positrons or electrons before
	// fitting.
	RemoveZeroEM bool
	Guessing     Guessing
	// X0Guess and LambdaGuess are used with AnalyticGuesses.  X0Guess
	// is a physical depth; shifted fits offset it by shower.DepthShift.
	X0Guess, LambdaGuess float64
	Variants             []Variant
	// AndringaXmaxFirst orders Andringa columns Xmax, R, L rather than
	// R, L, Xmax.
	AndringaXmaxFirst bool
}

var (
	// IceCube fits the charged particle profile at the South Pole,
	// six variants from jittered guesses.
	IceCube = Preset{
		Name:             "icecube",
		ObservationDepth: 696,
		DropFinal:        true,
		Guessing:         JitterGuesses,
		Variants: []Variant{
			{GaisserHillas, shower.Options{}},
			{GaisserHillas, shower.Options{Shift: true}},
			{GaisserHillas, shower.Options{Abs: true}},
			{Andringa, shower.Options{}},
			{Andringa, shower.Options{Shift: true}},
			{Andringa, shower.Options{Abs: true}},
		},
		AndringaXmaxFirst: true,
	}

	// Auger fits the electromagnetic profile at the Auger site.
	Auger = Preset{
		Name:             "auger",
		ObservationDepth: 870,
		FitEM:            true,
		RemoveZeroEM:     true,
		Guessing:         AnalyticGuesses,
		X0Guess:          0,
		LambdaGuess:      80,
		Variants: []Variant{
			{GaisserHillas, shower.Options{Shift: true}},
			{Andringa, shower.Options{}},
		},
	}
)

// minSamples returns the number of fit samples needed by the variant with
// the most parameters.
func (pr Preset) minSamples() int {
	n := 0
	for _, v := range pr.Variants {
		n = max(n, v.Model.NumParams())
	}
	return n
}

var presets = map[string]Preset{
	IceCube.Name: IceCube,
	Auger.Name:   Auger,
}

// PresetByName returns the named preset.
func PresetByName(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (have %v)", name, PresetNames())
	}
	return p, nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	n := make([]string, 0, len(presets))
	for k := range presets {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}
