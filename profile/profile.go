// Public domain.

// Package profile reads longitudinal shower profiles from CORSIKA .long
// files and trims them for fitting.
package profile

import "gonum.org/v1/gonum/floats"

// Row is one ten-column row of the particle block of a .long file.
//
// Columns, in file order:
//
//	0 Depth      g/cm²
//	1 Gammas
//	2 Positrons
//	3 Electrons
//	4 MuPlus
//	5 MuMinus
//	6 Hadrons
//	7 Charged
//	8 Nuclei
//	9 Cherenkov
type Row struct {
	Depth     float64
	Gammas    float64
	Positrons float64
	Electrons float64
	MuPlus    float64
	MuMinus   float64
	Hadrons   float64
	Charged   float64
	Nuclei    float64
	Cherenkov float64
}

// rowColumns is the number of fields of a data row.
const rowColumns = 10

// fields returns pointers to the row fields in column order.
func (r *Row) fields() [rowColumns]*float64 {
	return [rowColumns]*float64{
		&r.Depth, &r.Gammas, &r.Positrons, &r.Electrons, &r.MuPlus,
		&r.MuMinus, &r.Hadrons, &r.Charged, &r.Nuclei, &r.Cherenkov,
	}
}

// Profile is a longitudinal profile, ordered by increasing depth.
// The sequences are index aligned and always of equal length.
type Profile struct {
	Depth     []float64
	Positrons []float64
	Electrons []float64
	MuPlus    []float64
	MuMinus   []float64
	Charged   []float64
}

// Append adds the profile quantities of r as a new last sample.
func (p *Profile) Append(r Row) {
	p.Depth = append(p.Depth, r.Depth)
	p.Positrons = append(p.Positrons, r.Positrons)
	p.Electrons = append(p.Electrons, r.Electrons)
	p.MuPlus = append(p.MuPlus, r.MuPlus)
	p.MuMinus = append(p.MuMinus, r.MuMinus)
	p.Charged = append(p.Charged, r.Charged)
}

// Len returns the number of samples.
func (p *Profile) Len() int { return len(p.Depth) }

// EM returns positron plus electron counts.
func (p *Profile) EM() []float64 {
	em := make([]float64, p.Len())
	floats.AddTo(em, p.Positrons, p.Electrons)
	return em
}

// EMAt returns the positron plus electron count of sample i.
func (p *Profile) EMAt(i int) float64 { return p.Positrons[i] + p.Electrons[i] }

// MuonsAt returns the mu+ plus mu- count of sample i.
func (p *Profile) MuonsAt(i int) float64 { return p.MuPlus[i] + p.MuMinus[i] }

// MaxEMIndex returns the index of the first sample with the largest
// positron plus electron count, or -1 for an empty profile.
func (p *Profile) MaxEMIndex() int {
	if p.Len() == 0 {
		return -1
	}
	return floats.MaxIdx(p.EM())
}

// series returns pointers to all sequences, so trims treat them alike.
func (p *Profile) series() []*[]float64 {
	return []*[]float64{&p.Depth, &p.Positrons, &p.Electrons, &p.MuPlus, &p.MuMinus, &p.Charged}
}
