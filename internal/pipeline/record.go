// Public domain.

package pipeline

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/soniakeys/longfit/shower"
)

// Fit is the result of one variant.
type Fit struct {
	Variant Variant
	Result  shower.Result
}

// Record is the reconstruction of one file.
type Record struct {
	// Coarse values from the file
	Xmax float64
	R, L float64

	// Ground level crosscheck
	GroundMuons float64
	GroundEM    float64
	// PeakEM is the positron plus electron count of the sample at the
	// electromagnetic maximum.
	PeakEM float64

	Fits []Fit

	AndringaXmaxFirst bool
}

// Fields returns the record columns:
//
//	Xmax, round(GroundMuons), PeakEM, round(GroundEM), R, L
//
// then per fit R, RSigma, L, LSigma, Xmax, XmaxSigma, except that
// Andringa fits put Xmax, XmaxSigma first when AndringaXmaxFirst is set.
// Failed fits show as inf.
//
// Floats are in the shortest form that reads back to the same value, as
// strconv 'g' with precision -1: 700, 0.31, 1e+07.  Whole numbers carry no
// ".0".  Counts are rounded half to even and printed as integers.
func (r *Record) Fields() []string {
	f := []string{
		formatFloat(r.Xmax),
		formatCount(r.GroundMuons),
		formatFloat(r.PeakEM),
		formatCount(r.GroundEM),
		formatFloat(r.R),
		formatFloat(r.L),
	}
	for _, fit := range r.Fits {
		v := fit.Result.Values()
		xmax, rl := v[:2], v[2:]
		if fit.Variant.Model == Andringa && r.AndringaXmaxFirst {
			f = appendFloats(f, xmax, rl)
		} else {
			f = appendFloats(f, rl, xmax)
		}
	}
	return f
}

func appendFloats(f []string, vs ...[]float64) []string {
	for _, v := range vs {
		for _, x := range v {
			f = append(f, formatFloat(x))
		}
	}
	return f
}

// String returns the space separated fields, without a trailing newline.
func (r *Record) String() string { return strings.Join(r.Fields(), " ") }

// WriteTo writes the record as returned by String.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

// formatFloat formats the shortest representation that reads back to v.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatCount rounds half to even and formats as an integer.
func formatCount(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return formatFloat(v)
	}
	return strconv.FormatFloat(math.RoundToEven(v), 'f', 0, 64)
}
