// Public domain.

package shower

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/longfit/lmfit"
)

// ErrBadCount is the failure reason for counts that are negative, not
// finite, or all zero.
var ErrBadCount = errors.New("shower: counts must be finite and non-negative with at least one positive")

// Options select a model variant.
//
// Shift fits in depths offset by DepthShift.  Abs uses the absolute value
// variant of the model.  Shift takes precedence if both are set.
type Options struct {
	Shift bool
	Abs   bool
}

func (o Options) String() string {
	switch {
	case o.Shift:
		return "shift"
	case o.Abs:
		return "abs"
	}
	return "plain"
}

// poissonWeights returns residual weights sqrt(n), the inverse of the
// relative Poisson uncertainty 1/sqrt(n).  They emphasize the samples near
// the maximum and carry no claim about physical fluctuations.
func poissonWeights(counts []float64) ([]float64, error) {
	w := make([]float64, len(counts))
	pos := false
	for i, n := range counts {
		if !(n >= 0) || math.IsInf(n, 1) {
			return nil, fmt.Errorf("%w: count %g at sample %d", ErrBadCount, n, i)
		}
		w[i] = math.Sqrt(n)
		pos = pos || n > 0
	}
	if !pos {
		return nil, ErrBadCount
	}
	return w, nil
}

func shifted(depth []float64) []float64 {
	s := make([]float64, len(depth))
	for i, x := range depth {
		s[i] = x + DepthShift
	}
	return s
}

// FitGaisserHillas fits counts at the given depths to the Gaisser-Hillas
// model starting from guess and returns Xmax, R and L with propagated
// uncertainties.
//
// Zero counts carry zero weight.  Any failure, including failure of the
// fit to converge, is returned as a failed Result.
func FitGaisserHillas(depth, counts []float64, guess GHParams, o Options) Result {
	if len(depth) != len(counts) {
		return Failed(fmt.Errorf("shower: %d depths for %d counts", len(depth), len(counts)))
	}
	w, err := poissonWeights(counts)
	if err != nil {
		return Failed(err)
	}
	x := depth
	f := ghFunc
	p0 := []float64{guess.Nmax, guess.Xmax, guess.X0, guess.Lambda}
	switch {
	case o.Shift:
		x = shifted(depth)
		p0[1] += DepthShift
		p0[2] += DepthShift
	case o.Abs:
		f = ghAbsFunc
	}
	fit, err := lmfit.New(f, x, counts, w, p0, nil)
	if err != nil {
		return Failed(fmt.Errorf("gaisser-hillas %s fit: %w", o, err))
	}
	p, e := fit.Params(), fit.StdErr()
	if o.Shift {
		p[1] -= DepthShift
		p[2] -= DepthShift
	}
	return DeriveRL(
		GHParams{Nmax: p[0], Xmax: p[1], X0: p[2], Lambda: p[3]},
		GHParams{Nmax: e[0], Xmax: e[1], X0: e[2], Lambda: e[3]})
}

// FitAndringa fits peak-normalized counts at the given depths to the
// Andringa model starting from guess.
//
// Failures are returned as in FitGaisserHillas.
func FitAndringa(depth, nprime []float64, guess AndringaParams, o Options) Result {
	if len(depth) != len(nprime) {
		return Failed(fmt.Errorf("shower: %d depths for %d counts", len(depth), len(nprime)))
	}
	w, err := poissonWeights(nprime)
	if err != nil {
		return Failed(err)
	}
	x := depth
	f := andringaFunc
	p0 := []float64{guess.Xmax, guess.R, guess.L}
	switch {
	case o.Shift:
		x = shifted(depth)
		p0[0] += DepthShift
	case o.Abs:
		f = andringaAbsFunc
	}
	fit, err := lmfit.New(f, x, nprime, w, p0, nil)
	if err != nil {
		return Failed(fmt.Errorf("andringa %s fit: %w", o, err))
	}
	p, e := fit.Params(), fit.StdErr()
	if o.Shift {
		p[0] -= DepthShift
	}
	return Result{
		Xmax: p[0], XmaxSigma: e[0],
		R: p[1], RSigma: e[1],
		L: p[2], LSigma: e[2],
	}
}
