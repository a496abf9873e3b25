// Public domain.

package profile

import "math"

// XmaxLimit is the largest coarse Xmax taken as valid.  Larger values come
// from failures of the fit embedded in the file.
const XmaxLimit = 1700.

// Invalid marks a coarse R or L that could not be derived.
const Invalid = -1.

// Metadata holds the scalars of a .long file.
//
// Xmax, X0 and Lambda come from the Gaisser-Hillas fit record of the file;
// R and L are derived from them.
type Metadata struct {
	Rows   int // step count of the run header
	Xmax   float64
	X0     float64
	Lambda float64
	R, L   float64
	// Corrected is set when CheckXmax replaced Xmax.
	Corrected bool
}

func newMetadata(rows int, x0, xmax, lambda float64) Metadata {
	x0p := math.Abs(x0 - xmax)
	return Metadata{
		Rows:   rows,
		Xmax:   xmax,
		X0:     x0,
		Lambda: lambda,
		R:      math.Sqrt(lambda / x0p),
		L:      math.Sqrt(x0p * lambda),
	}
}

// CheckXmax replaces a coarse Xmax above XmaxLimit with the depth of the
// electromagnetic maximum of p, marking R and L Invalid.  It reports
// whether a replacement was made.  X0 and Lambda are left as read.
func (m *Metadata) CheckXmax(p *Profile) bool {
	if !(m.Xmax > XmaxLimit) {
		return false
	}
	if i := p.MaxEMIndex(); i >= 0 {
		m.Xmax = p.Depth[i]
	}
	m.R = Invalid
	m.L = Invalid
	m.Corrected = true
	return true
}
