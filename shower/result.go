// Public domain.

package shower

import "math"

// Result is the outcome of one profile fit.
//
// A fit that could not be done is still a Result.  Err then holds the
// reason and the numeric fields are meaningless; Values reports them as
// +Inf.
type Result struct {
	Xmax, XmaxSigma float64
	R, RSigma       float64
	L, LSigma       float64

	Err error
}

// Failed returns a Result for a fit that could not be done.
func Failed(err error) Result { return Result{Err: err} }

// OK reports whether the fit succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Values returns Xmax, XmaxSigma, R, RSigma, L, LSigma, all +Inf if the
// fit failed.
func (r Result) Values() [6]float64 {
	if r.Err != nil {
		inf := math.Inf(1)
		return [6]float64{inf, inf, inf, inf, inf, inf}
	}
	return [6]float64{r.Xmax, r.XmaxSigma, r.R, r.RSigma, r.L, r.LSigma}
}

// GHParams holds Gaisser-Hillas parameters, or their uncertainties.
type GHParams struct {
	Nmax, Xmax, X0, Lambda float64
}

// AndringaParams holds Andringa parameters, or their uncertainties.
type AndringaParams struct {
	Xmax, R, L float64
}

// DeriveRL converts Gaisser-Hillas parameters p with standard errors e to
// R, L and Xmax.
//
// Errors propagate to first order, treating the error of lambda as
// independent of those of X0 and Xmax.
func DeriveRL(p, e GHParams) Result {
	x0p := math.Abs(p.X0 - p.Xmax)
	lam := p.Lambda
	s2 := e.X0*e.X0 + e.Xmax*e.Xmax
	r2 := e.Lambda*e.Lambda/(4*lam*x0p) + lam*s2/(4*x0p*x0p*x0p)
	l2 := x0p*e.Lambda*e.Lambda/(4*lam) + lam*s2/(4*x0p)
	return Result{
		Xmax:      p.Xmax,
		XmaxSigma: e.Xmax,
		R:         math.Sqrt(lam / x0p),
		RSigma:    math.Sqrt(r2),
		L:         math.Sqrt(x0p * lam),
		LSigma:    math.Sqrt(l2),
	}
}
