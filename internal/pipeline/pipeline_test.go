// Public domain.

package pipeline_test

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soniakeys/longfit/internal/pipeline"
	"github.com/soniakeys/longfit/profile"
	"github.com/soniakeys/longfit/shower"
)

// sample is one particle row of a synthetic file.
type sample struct {
	depth, pos, ele, muPlus, muMinus, charged float64
}

// ghSamples returns samples every 20 g/cm² from 20 to 1000 of a noiseless
// Gaisser-Hillas shower with Nmax 1e7, Xmax 700, X0 -50 and lambda 70.
// Positrons and electrons share the count one to three.
func ghSamples() []sample {
	var s []sample
	for i := 0; i < 50; i++ {
		x := 20 + 20*float64(i)
		n := shower.GaisserHillas(x, 1e7, 700, -50, 70)
		s = append(s, sample{
			depth:   x,
			pos:     .25 * n,
			ele:     n - .25*n,
			muPlus:  100 + float64(i),
			muMinus: 200 + float64(i),
			charged: n,
		})
	}
	return s
}

// writeLong writes a .long file and returns its path.
func writeLong(t *testing.T, s []sample, xmax float64) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, " LONGITUDINAL DISTRIBUTION IN %5d VERTICAL STEPS OF  20. G/CM**2 FOR SHOWER      1\n", len(s))
	b.WriteString(" PARTICLE NUMBERS IN SLANT DEPTH\n")
	b.WriteString(" DEPTH     GAMMAS   POSITRONS   ELECTRONS         MU+         MU-     HADRONS     CHARGED      NUCLEI   CERENKOV\n")
	for _, r := range s {
		fmt.Fprintf(&b, " %v 0 %v %v %v %v 0 %v 0 0\n",
			r.depth, r.pos, r.ele, r.muPlus, r.muMinus, r.charged)
	}
	fmt.Fprintf(&b, " LONGITUDINAL ENERGY DEPOSIT IN %5d VERTICAL STEPS OF  20. G/CM**2 FOR SHOWER      1\n", len(s))
	for _, r := range s {
		fmt.Fprintf(&b, " %v 1 1 1 1 1 1 1 1 9\n", r.depth)
	}
	b.WriteString(" FIT OF THE HILLAS CURVE   N(T) = P1*((T-P2)/(P3-P2))**((P3-P2)/(P4+P5*T+P6*T**2)) * EXP((P3-T)/(P4+P5*T+P6*T**2))\n")
	fmt.Fprintf(&b, " PARAMETERS         =   1.0000E+07  -5.0000E+01   %.4E   7.0000E+01   0.0000E+00   0.0000E+00\n", xmax)
	b.WriteString(" CHI**2/DOF         =   1.0000E+00\n")

	path := filepath.Join(t.TempDir(), "DAT000001.long")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func floatField(t *testing.T, fields []string, i int) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(fields[i], 64)
	require.NoError(t, err, "field %d", i)
	return v
}

var (
	wantR = math.Sqrt(70. / 750)
	wantL = math.Sqrt(750. * 70)
)

func TestRunIceCube(t *testing.T) {
	cfg := pipeline.Config{
		Path:   writeLong(t, ghSamples(), 700),
		Zenith: 0,
		Preset: pipeline.IceCube,
		Seed:   1,
	}
	rec, err := pipeline.Run(cfg, zap.NewNop())
	require.NoError(t, err)

	f := rec.Fields()
	require.Len(t, f, 6+6*6)
	assert.Equal(t, "700", f[0])
	// ground at 696 g/cm² is the 700 g/cm² sample, index 34
	assert.Equal(t, "368", f[1])
	assert.Equal(t, "1e+07", f[2])
	assert.Equal(t, "10000000", f[3])
	assert.InDelta(t, wantR, floatField(t, f, 4), 1e-4)
	assert.InDelta(t, wantL, floatField(t, f, 5), 1e-2)

	require.Len(t, rec.Fits, 6)
	for _, fit := range rec.Fits {
		require.True(t, fit.Result.OK(), "%v: %v", fit.Variant, fit.Result.Err)
		assert.InDelta(t, 700, fit.Result.Xmax, 1, "%v", fit.Variant)
		assert.InEpsilon(t, wantR, fit.Result.R, 1e-3, "%v", fit.Variant)
		assert.InEpsilon(t, wantL, fit.Result.L, 1e-3, "%v", fit.Variant)
	}
	// Gaisser-Hillas columns end in Xmax; Andringa columns start with it.
	assert.InDelta(t, 700, floatField(t, f, 6+4), 1)
	assert.InDelta(t, 700, floatField(t, f, 6+3*6), 1)
	assert.InDelta(t, wantR, floatField(t, f, 6+3*6+2), 1e-3)
}

func TestRunIsReproducibleForSeed(t *testing.T) {
	cfg := pipeline.Config{
		Path:   writeLong(t, ghSamples(), 700),
		Preset: pipeline.IceCube,
		Seed:   42,
	}
	a, err := pipeline.Run(cfg, nil)
	require.NoError(t, err)
	b, err := pipeline.Run(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestRunAuger(t *testing.T) {
	s := ghSamples()
	s[0].pos, s[0].ele = 0, 0
	cfg := pipeline.Config{
		Path:     writeLong(t, s, 700),
		Zenith:   unit.AngleFromDeg(0),
		TrimTail: true,
		Preset:   pipeline.Auger,
	}
	rec, err := pipeline.Run(cfg, zap.NewNop())
	require.NoError(t, err)

	f := rec.Fields()
	require.Len(t, f, 6+2*6)
	// ground at 870 g/cm² ties 860 and 880; the first wins, index 42
	assert.Equal(t, "384", f[1])

	require.Len(t, rec.Fits, 2)
	for _, fit := range rec.Fits {
		require.True(t, fit.Result.OK(), "%v: %v", fit.Variant, fit.Result.Err)
		assert.InDelta(t, 700, fit.Result.Xmax, 1, "%v", fit.Variant)
	}
	// both models report R, RSigma, L, LSigma, Xmax, XmaxSigma
	for _, off := range []int{6, 12} {
		assert.InEpsilon(t, wantR, floatField(t, f, off), 1e-3)
		assert.InEpsilon(t, wantL, floatField(t, f, off+2), 1e-3)
		assert.InDelta(t, 700, floatField(t, f, off+4), 1)
	}
}

func TestRunReplacesFailedCoarseXmax(t *testing.T) {
	cfg := pipeline.Config{
		Path:   writeLong(t, ghSamples(), 1800),
		Preset: pipeline.Auger,
	}
	core, logs := observer.New(zap.WarnLevel)
	rec, err := pipeline.Run(cfg, zap.New(core))
	require.NoError(t, err)
	f := rec.Fields()
	assert.Equal(t, "700", f[0])
	assert.Equal(t, "-1", f[4])
	assert.Equal(t, "-1", f[5])
	assert.Equal(t, 1, logs.FilterMessageSnippet("coarse xmax above limit").Len())

	cfg.Path = writeLong(t, ghSamples(), 700)
	core, logs = observer.New(zap.WarnLevel)
	_, err = pipeline.Run(cfg, zap.New(core))
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessageSnippet("coarse xmax above limit").Len())
}

func TestRunDegenerateInput(t *testing.T) {
	path := writeLong(t, ghSamples(), 700)
	var de *pipeline.DegenerateInputError

	_, err := pipeline.Run(pipeline.Config{Path: path, Zenith: math.Pi / 2, Preset: pipeline.IceCube}, nil)
	require.ErrorAs(t, err, &de)
	assert.Equal(t, path, de.Path)
	assert.Contains(t, de.Reason, "1.5708 rad")

	_, err = pipeline.Run(pipeline.Config{Path: path, Zenith: -.1, Preset: pipeline.IceCube}, nil)
	assert.ErrorAs(t, err, &de)

	s := ghSamples()
	for i := range s {
		s[i].pos, s[i].ele = 0, 0
	}
	_, err = pipeline.Run(pipeline.Config{Path: writeLong(t, s, 700), Preset: pipeline.Auger}, nil)
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Error(), "electromagnetic")

	one := ghSamples()[:1]
	_, err = pipeline.Run(pipeline.Config{Path: writeLong(t, one, 700), Preset: pipeline.IceCube}, nil)
	assert.ErrorAs(t, err, &de)
}

func TestRunInsufficientDataRows(t *testing.T) {
	var de *pipeline.DegenerateInputError

	// four rows, three after the final one is dropped
	_, err := pipeline.Run(pipeline.Config{
		Path:   writeLong(t, ghSamples()[20:24], 700),
		Preset: pipeline.IceCube,
		Seed:   1,
	}, nil)
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "insufficient data rows: 3 samples for 4 parameters")

	// five rows, two left after the tail trim and the two rows without EM
	s := ghSamples()[20:25]
	s[0].pos, s[0].ele = 0, 0
	s[1].pos, s[1].ele = 0, 0
	_, err = pipeline.Run(pipeline.Config{
		Path:     writeLong(t, s, 700),
		TrimTail: true,
		Preset:   pipeline.Auger,
	}, nil)
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "insufficient data rows: 2 samples for 4 parameters")
}

func TestPresetMinimumSamples(t *testing.T) {
	assert.Equal(t, 4, pipeline.GaisserHillas.NumParams())
	assert.Equal(t, 3, pipeline.Andringa.NumParams())
}

func TestRunParseError(t *testing.T) {
	_, err := pipeline.Run(pipeline.Config{
		Path:   filepath.Join(t.TempDir(), "missing.long"),
		Preset: pipeline.IceCube,
	}, nil)
	var pe *profile.ParseError
	assert.ErrorAs(t, err, &pe)
}
