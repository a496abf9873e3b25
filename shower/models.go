// Public domain.

// Package shower fits longitudinal air shower profiles.
//
// Two model families are provided.  The Gaisser-Hillas form has the four
// parameters Nmax, Xmax, X0 and lambda.  The Andringa form is the same curve
// rewritten in terms of Xmax, a shape parameter R and a width L, and applies
// to counts normalized by their peak value.  The two are related by
//
//	R = sqrt(lambda / |X0 - Xmax|)
//	L = sqrt(|X0 - Xmax| * lambda)
//
// Depths are atmospheric depths in g/cm².
package shower

import "math"

// DepthShift is the offset in g/cm² added to depths, and to the Xmax and X0
// parameters, for a shifted fit.  It is removed from the fitted values
// before they are reported.
//
// The X0 guess is shifted along with the depths, so a shifted fit starts
// from the same physical X0 as an unshifted one.  Older reconstructions
// left the X0 guess unshifted.
const DepthShift = 100.

// GaisserHillas returns the particle count at depth x.
//
// The power has a negative base for x < x0 and is then NaN.
func GaisserHillas(x, nmax, xmax, x0, lambda float64) float64 {
	return nmax * math.Pow((x-x0)/(xmax-x0), (xmax-x0)/lambda) *
		math.Exp((xmax-x)/lambda)
}

// GaisserHillasAbs is GaisserHillas with |x-x0| in the base of the power.
// It is defined for x < x0.
func GaisserHillasAbs(x, nmax, xmax, x0, lambda float64) float64 {
	return nmax * math.Pow(math.Abs(x-x0)/(xmax-x0), (xmax-x0)/lambda) *
		math.Exp((xmax-x)/lambda)
}

// Andringa returns the peak-normalized particle count at depth x.
func Andringa(x, xmax, r, l float64) float64 {
	return math.Pow(1+r*(x-xmax)/l, 1/(r*r)) * math.Exp(-(x-xmax)/(l*r))
}

// AndringaAbs is Andringa with the base of the power wrapped in an
// absolute value.
func AndringaAbs(x, xmax, r, l float64) float64 {
	return math.Pow(math.Abs(1+r*(x-xmax)/l), 1/(r*r)) * math.Exp(-(x-xmax)/(l*r))
}

// lmfit.Func adapters.  Parameter order is that of GHParams and
// AndringaParams.

func ghFunc(x float64, p []float64) float64 {
	return GaisserHillas(x, p[0], p[1], p[2], p[3])
}

func ghAbsFunc(x float64, p []float64) float64 {
	return GaisserHillasAbs(x, p[0], p[1], p[2], p[3])
}

func andringaFunc(x float64, p []float64) float64 {
	return Andringa(x, p[0], p[1], p[2])
}

func andringaAbsFunc(x float64, p []float64) float64 {
	return AndringaAbs(x, p[0], p[1], p[2])
}
