// Public domain.

package profile

import (
	"math"

	"github.com/soniakeys/unit"
)

// GroundDepth returns the slant depth of an observation level at vertical
// depth obsDepth for a shower of the given zenith angle.
func GroundDepth(obsDepth float64, zenith unit.Angle) float64 {
	return obsDepth / zenith.Cos()
}

// GroundIndex returns the index of the sample with depth closest to
// target, the first such index on a tie.
//
// It returns -1 for an empty profile or a target that is not a positive
// finite depth.
func (p *Profile) GroundIndex(target float64) int {
	if p.Len() == 0 || !(target > 0) || math.IsInf(target, 1) {
		return -1
	}
	best := 0
	bestDist := math.Abs(p.Depth[0] - target)
	for i, d := range p.Depth[1:] {
		if dist := math.Abs(d - target); dist < bestDist {
			best, bestDist = i+1, dist
		}
	}
	return best
}
