// Public domain.

package profile

import "math"

// DropLast removes the last n samples.  n <= 0 is a no-op; n >= Len
// empties the profile.
func (p *Profile) DropLast(n int) {
	if n <= 0 {
		return
	}
	keep := p.Len() - n
	if keep < 0 {
		keep = 0
	}
	for _, s := range p.series() {
		*s = (*s)[:keep]
	}
}

// TrimDepthSpan removes the final samples covering span g/cm² of depth,
// round(span/spacing) samples where spacing is that of the first two
// samples.  It returns the number of samples removed.
//
// Samples near and below ground are distorted by the shower front reaching
// the ground and are not part of the physical profile.
func (p *Profile) TrimDepthSpan(span float64) int {
	if p.Len() < 2 {
		return 0
	}
	spacing := p.Depth[1] - p.Depth[0]
	if !(spacing > 0) {
		return 0
	}
	n := int(math.Round(span / spacing))
	if n <= 0 {
		return 0
	}
	if n > p.Len() {
		n = p.Len()
	}
	p.DropLast(n)
	return n
}

// RemoveZeroEM removes samples with zero positron plus electron count and
// returns the number removed.
//
// Indices into p change, so any index lookups must be done before.
func (p *Profile) RemoveZeroEM() int {
	keep := make([]bool, p.Len())
	removed := 0
	for i := range keep {
		keep[i] = p.EMAt(i) != 0
		if !keep[i] {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	for _, s := range p.series() {
		j := 0
		for i, v := range *s {
			if keep[i] {
				(*s)[j] = v
				j++
			}
		}
		*s = (*s)[:j]
	}
	return removed
}
