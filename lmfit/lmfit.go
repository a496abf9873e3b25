// Public domain.

// Package lmfit fits observations to a nonlinear model by weighted least
// squares, using the Levenberg-Marquardt method.
package lmfit

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Func is a model function.  It returns the model value at x for
// parameters p.  It must not modify p.
type Func func(x float64, p []float64) float64

var (
	// ErrInput is returned by New for mismatched or empty inputs or
	// for weights that are negative or not finite.
	ErrInput = errors.New("lmfit: invalid input")
	// ErrNonFinite is returned when the model is not finite at the
	// initial parameters, or the Jacobian cannot be evaluated.
	ErrNonFinite = errors.New("lmfit: model not finite")
	// ErrUnderdetermined is returned by New for fewer observations than
	// parameters.
	ErrUnderdetermined = errors.New("lmfit: fewer observations than parameters")
	// ErrNoConvergence is returned when the evaluation limit is reached.
	ErrNoConvergence = errors.New("lmfit: evaluation limit reached without convergence")
)

// Settings control the iteration.  Zero fields take default values.
type Settings struct {
	MaxEval int     // trial evaluations; default 200*(len(p0)+1)
	FTol    float64 // relative reduction of chi squared; default 1.49012e-8
	XTol    float64 // relative parameter step; default 1.49012e-8
}

const defaultTol = 1.49012e-8

func (s *Settings) withDefaults(nPar int) Settings {
	var r Settings
	if s != nil {
		r = *s
	}
	if r.MaxEval <= 0 {
		r.MaxEval = 200 * (nPar + 1)
	}
	if r.FTol <= 0 {
		r.FTol = defaultTol
	}
	if r.XTol <= 0 {
		r.XTol = defaultTol
	}
	return r
}

// LmFit represents the result of a nonlinear least squares fit.
// It can be queried for the fitted parameters, their covariance and
// residuals, and used to evaluate the fitted model.
type LmFit struct {
	f       Func
	x, y, w []float64
	// fit solution
	p     []float64
	cov   *mat.SymDense
	chi2  float64
	nEval int
}

// New does the fit.
//
// Args:
//   f   -- model function
//   x   -- independent variable of observations
//   y   -- observed values
//   w   -- weight multiplying each residual, 1/sigma; nil for unit weights
//   p0  -- initial parameters
//   s   -- iteration settings, may be nil
//
// There must be at least as many observations as parameters.  The
// covariance is scaled by the reduced chi squared, so only the relative
// sizes of the weights matter.  If there are exactly as many observations
// as parameters, or the normal matrix at the solution is singular,
// covariance elements are +Inf.
func New(f Func, x, y, w, p0 []float64, s *Settings) (*LmFit, error) {
	nObs, nPar := len(x), len(p0)
	if nObs == 0 || nPar == 0 || len(y) != nObs || (w != nil && len(w) != nObs) {
		return nil, ErrInput
	}
	if nObs < nPar {
		return nil, ErrUnderdetermined
	}
	if w == nil {
		w = make([]float64, nObs)
		for i := range w {
			w[i] = 1
		}
	}
	for _, w1 := range w {
		if !(w1 >= 0) || math.IsInf(w1, 1) {
			return nil, ErrInput
		}
	}
	set := s.withDefaults(nPar)
	lmf := &LmFit{f: f, x: x, y: y, w: w, p: append([]float64{}, p0...)}

	r := make([]float64, nObs)
	if !lmf.residuals(r, lmf.p) {
		return nil, ErrNonFinite
	}
	cost := floats.Dot(r, r)

	jac := mat.NewDense(nObs, nPar, nil)
	a := mat.NewSymDense(nPar, nil)
	aug := mat.NewSymDense(nPar, nil)
	g := mat.NewVecDense(nPar, nil)
	step := mat.NewVecDense(nPar, nil)
	trial := make([]float64, nPar)
	rTrial := make([]float64, nObs)
	var chol mat.Cholesky
	mu := 1e-3

	small := func(step []float64, p []float64) bool {
		for j, d := range step {
			if math.Abs(d) > set.XTol*(math.Abs(p[j])+set.XTol) {
				return false
			}
		}
		return true
	}

outer:
	for cost > 0 {
		if !lmf.jacobian(jac, lmf.p) {
			return nil, ErrNonFinite
		}
		a.SymOuterK(1, jac.T())
		g.MulVec(jac.T(), mat.NewVecDense(nObs, r))
		for {
			if lmf.nEval >= set.MaxEval {
				return nil, ErrNoConvergence
			}
			lmf.nEval++
			// Marquardt damping scales the diagonal of the normal matrix.
			aug.CopySym(a)
			for j := 0; j < nPar; j++ {
				d := a.At(j, j)
				if d == 0 {
					d = 1
				}
				aug.SetSym(j, j, d*(1+mu))
			}
			solved := chol.Factorize(aug) && chol.SolveVecTo(step, g) == nil
			if solved {
				// Jacobian is of the residuals, so the descent step is -step.
				floats.SubTo(trial, lmf.p, step.RawVector().Data)
				if lmf.residuals(rTrial, trial) {
					if c := floats.Dot(rTrial, rTrial); c < cost {
						// reduction predicted by the linearized model
						pred := 2*mat.Dot(step, g) - mat.Inner(step, a, step)
						converged := cost-c <= set.FTol*cost && pred <= set.FTol*cost ||
							small(step.RawVector().Data, lmf.p)
						copy(lmf.p, trial)
						copy(r, rTrial)
						cost = c
						mu = math.Max(mu/10, 1e-15)
						if converged {
							break outer
						}
						continue outer
					}
				}
				if small(step.RawVector().Data, lmf.p) {
					// no further reduction is possible at this precision.
					break outer
				}
			}
			mu *= 10
		}
	}
	lmf.chi2 = cost
	lmf.cov = lmf.covariance()
	return lmf, nil
}

// residuals computes weighted residuals w*(y-f) at p.  It returns false
// if any residual is not finite.
func (lmf *LmFit) residuals(r, p []float64) bool {
	ok := true
	for i, x1 := range lmf.x {
		if lmf.w[i] == 0 {
			r[i] = 0
			continue
		}
		r1 := lmf.w[i] * (lmf.y[i] - lmf.f(x1, p))
		if math.IsNaN(r1) || math.IsInf(r1, 0) {
			ok = false
		}
		r[i] = r1
	}
	return ok
}

// jacobian computes the Jacobian of the weighted residuals at p into dst.
//
// Differences are taken in parameters scaled to order one so that a single
// step size suits parameters of very different magnitude.
func (lmf *LmFit) jacobian(dst *mat.Dense, p []float64) bool {
	scale := make([]float64, len(p))
	u := make([]float64, len(p))
	for j, p1 := range p {
		scale[j] = math.Max(math.Abs(p1), 1)
		u[j] = p1 / scale[j]
	}
	q := make([]float64, len(p))
	fd.Jacobian(dst, func(r, v []float64) {
		floats.MulTo(q, v, scale)
		lmf.residuals(r, q)
	}, u, &fd.JacobianSettings{Formula: fd.Central})
	nObs, _ := dst.Dims()
	for j, s := range scale {
		for i := 0; i < nObs; i++ {
			d := dst.At(i, j) / s
			if math.IsNaN(d) || math.IsInf(d, 0) {
				return false
			}
			dst.Set(i, j, d)
		}
	}
	return true
}

func (lmf *LmFit) covariance() *mat.SymDense {
	nObs, nPar := len(lmf.x), len(lmf.p)
	cov := mat.NewSymDense(nPar, nil)
	jac := mat.NewDense(nObs, nPar, nil)
	if nObs > nPar && lmf.jacobian(jac, lmf.p) {
		a := mat.NewSymDense(nPar, nil)
		a.SymOuterK(1, jac.T())
		var chol mat.Cholesky
		if chol.Factorize(a) && chol.InverseTo(cov) == nil {
			cov.ScaleSym(lmf.chi2/float64(nObs-nPar), cov)
			return cov
		}
	}
	for i := 0; i < nPar; i++ {
		for j := i; j < nPar; j++ {
			cov.SetSym(i, j, math.Inf(1))
		}
	}
	return cov
}

// Params returns a copy of the fitted parameters.
func (lmf *LmFit) Params() []float64 {
	return append([]float64{}, lmf.p...)
}

// Cov returns the covariance matrix of the fitted parameters.
func (lmf *LmFit) Cov() mat.Symmetric { return lmf.cov }

// StdErr returns standard errors of the fitted parameters, the square
// roots of the covariance diagonal.
func (lmf *LmFit) StdErr() []float64 {
	e := make([]float64, len(lmf.p))
	for i := range e {
		e[i] = math.Sqrt(lmf.cov.At(i, i))
	}
	return e
}

// Chi2 returns the weighted sum of squared residuals at the solution.
func (lmf *LmFit) Chi2() float64 { return lmf.chi2 }

// Evals returns the number of trial evaluations used.
func (lmf *LmFit) Evals() int { return lmf.nEval }

// Eval returns the fitted model value at x.
func (lmf *LmFit) Eval(x float64) float64 { return lmf.f(x, lmf.p) }

// Res computes and returns unweighted residuals, observed minus computed.
func (lmf *LmFit) Res() []float64 {
	res := make([]float64, len(lmf.x))
	for i, x1 := range lmf.x {
		res[i] = lmf.y[i] - lmf.f(x1, lmf.p)
	}
	return res
}

// RmsRes returns rms of the unweighted residuals and the residuals.
func (lmf *LmFit) RmsRes() (float64, []float64) {
	res := lmf.Res()
	return floats.Norm(res, 2) / math.Sqrt(float64(len(res))), res
}

// Rms returns just the rms, as documented at RmsRes.
func (lmf *LmFit) Rms() float64 {
	rms, _ := lmf.RmsRes()
	return rms
}
