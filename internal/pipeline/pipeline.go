// Public domain.

// Package pipeline reconstructs one .long file: it reads the profile,
// takes the ground level crosscheck, trims the profile and runs the fits of
// a site preset.
package pipeline

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/soniakeys/longfit/profile"
	"github.com/soniakeys/longfit/shower"
)

// Config is the complete input of one reconstruction.
type Config struct {
	Path   string
	Zenith unit.Angle
	// TrimTail removes the final TailSpan g/cm² of the profile before
	// fitting.
	TrimTail bool
	Preset   Preset
	// Seed seeds the jitter of initial guesses.
	Seed uint64
}

// DegenerateInputError reports a file that parses but cannot be fit.
type DegenerateInputError struct {
	Path   string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("pipeline: %s: degenerate input: %s", e.Path, e.Reason)
}

// Run reconstructs the file of cfg.
//
// Errors reading the file and degenerate inputs are returned.  Fits that
// fail are not errors; they are recorded as failed results.
func Run(cfg Config, logger *zap.Logger) (*Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("file", cfg.Path), zap.String("preset", cfg.Preset.Name))
	degenerate := func(format string, a ...interface{}) error {
		return &DegenerateInputError{Path: cfg.Path, Reason: fmt.Sprintf(format, a...)}
	}

	if !(cfg.Zenith >= 0 && cfg.Zenith < math.Pi/2) {
		return nil, degenerate("zenith %s (%.4f rad) has no ground depth",
			fmtZenith(cfg.Zenith), cfg.Zenith.Rad())
	}
	p, m, err := profile.ReadFile(cfg.Path)
	if err != nil {
		return nil, err
	}
	log.Debug("read profile",
		zap.Int("samples", p.Len()),
		zap.Int("headerRows", m.Rows),
		zap.Float64("xmax", m.Xmax),
		zap.Float64("x0", m.X0),
		zap.Float64("lambda", m.Lambda))

	iXmax := p.MaxEMIndex()
	m.CheckXmax(p)
	if m.Corrected {
		log.Warn("coarse xmax above limit, using depth of electromagnetic maximum",
			zap.Float64("limit", profile.XmaxLimit),
			zap.Float64("xmax", m.Xmax))
	}

	ground := profile.GroundDepth(cfg.Preset.ObservationDepth, cfg.Zenith)
	iGround := p.GroundIndex(ground)
	if iGround < 0 {
		return nil, degenerate("no sample near ground depth %g", ground)
	}
	log.Debug("ground level",
		zap.String("zenith", fmtZenith(cfg.Zenith)),
		zap.Float64("depth", ground),
		zap.Float64("sampleDepth", p.Depth[iGround]))

	rec := &Record{
		Xmax:              m.Xmax,
		R:                 m.R,
		L:                 m.L,
		GroundMuons:       p.MuonsAt(iGround),
		GroundEM:          p.EMAt(iGround),
		PeakEM:            p.EMAt(iXmax),
		AndringaXmaxFirst: cfg.Preset.AndringaXmaxFirst,
	}

	if cfg.Preset.DropFinal {
		p.DropLast(1)
	}
	if p.Len() == 0 {
		return nil, degenerate("empty profile after trimming")
	}
	nmax := floats.Max(fitCounts(cfg.Preset, p))
	if cfg.TrimTail {
		n := p.TrimDepthSpan(TailSpan)
		log.Debug("trimmed tail", zap.Int("samples", n))
		if p.Len() == 0 {
			return nil, degenerate("empty profile after trimming")
		}
	}
	// The index of the maximum refers to the untrimmed profile.
	xmaxGuess := m.Xmax
	if iXmax < p.Len() {
		xmaxGuess = p.Depth[iXmax]
	}
	if cfg.Preset.RemoveZeroEM {
		if n := p.RemoveZeroEM(); n > 0 {
			log.Debug("removed samples without electromagnetic particles", zap.Int("samples", n))
		}
		if p.Len() == 0 {
			return nil, degenerate("no samples with electromagnetic particles")
		}
	}

	if n := cfg.Preset.minSamples(); p.Len() < n {
		return nil, degenerate("insufficient data rows: %d samples for %d parameters", p.Len(), n)
	}

	counts := fitCounts(cfg.Preset, p)
	if !(nmax > 0) || !(floats.Max(counts) > 0) {
		return nil, degenerate("no positive particle counts to fit")
	}
	nprime := make([]float64, len(counts))
	floats.ScaleTo(nprime, 1/nmax, counts)

	gh, an := guesses(cfg, m, nmax, xmaxGuess)
	log.Debug("initial guesses",
		zap.Uint64("seed", cfg.Seed),
		zap.Float64("nmax", gh.Nmax),
		zap.Float64("xmax", gh.Xmax),
		zap.Float64("x0", gh.X0),
		zap.Float64("lambda", gh.Lambda),
		zap.Float64("r", an.R),
		zap.Float64("l", an.L))

	for _, v := range cfg.Preset.Variants {
		var res shower.Result
		switch v.Model {
		case GaisserHillas:
			res = shower.FitGaisserHillas(p.Depth, counts, gh, v.Options)
		case Andringa:
			res = shower.FitAndringa(p.Depth, nprime, an, v.Options)
		}
		if res.OK() {
			log.Debug("fit",
				zap.Stringer("variant", v),
				zap.Float64("xmax", res.Xmax),
				zap.Float64("xmaxSigma", res.XmaxSigma),
				zap.Float64("r", res.R),
				zap.Float64("l", res.L))
		} else {
			log.Warn("fit failed", zap.Stringer("variant", v), zap.Error(res.Err))
		}
		rec.Fits = append(rec.Fits, Fit{Variant: v, Result: res})
	}
	return rec, nil
}

// fmtZenith formats a zenith angle in degrees, minutes and seconds.
func fmtZenith(z unit.Angle) string {
	return fmt.Sprintf("%.1s", sexa.FmtAngle(z))
}

// fitCounts returns the particle counts a preset fits.
func fitCounts(pr Preset, p *profile.Profile) []float64 {
	if pr.FitEM {
		return p.EM()
	}
	return append([]float64{}, p.Charged...)
}

// guesses returns initial parameters for both model families.
func guesses(cfg Config, m *profile.Metadata, nmax, xmax float64) (shower.GHParams, shower.AndringaParams) {
	if cfg.Preset.Guessing == AnalyticGuesses {
		x0, lambda := cfg.Preset.X0Guess, cfg.Preset.LambdaGuess
		x0p := math.Abs(x0 - xmax)
		return shower.GHParams{Nmax: nmax, Xmax: xmax, X0: x0, Lambda: lambda},
			shower.AndringaParams{Xmax: xmax, R: math.Sqrt(lambda / x0p), L: math.Sqrt(x0p * lambda)}
	}
	src := rand.NewPCG(cfg.Seed, cfg.Seed)
	jitter := func(mu float64) float64 {
		return distuv.Normal{Mu: mu, Sigma: JitterScale * math.Abs(mu), Src: src}.Rand()
	}
	gh := shower.GHParams{Nmax: jitter(nmax), Xmax: xmax}
	gh.X0 = jitter(m.X0)
	gh.Lambda = jitter(m.Lambda)
	an := shower.AndringaParams{Xmax: xmax}
	an.R = jitter(m.R)
	an.L = jitter(m.L)
	return gh, an
}
