// Public domain.

package lmfit_test

import (
	"fmt"
	"math"

	"github.com/soniakeys/longfit/lmfit"
)

func ExampleLmFit_RmsRes() {
	// Three observations of a straight line, the middle one a unit off.
	line := func(x float64, p []float64) float64 { return p[0] + p[1]*x }
	x := []float64{0, 1, 2}
	y := []float64{0, 1, 0}
	f, err := lmfit.New(line, x, y, nil, []float64{1, 1}, nil)
	if err != nil {
		fmt.Println(err)
		return
	}

	// show fitted values
	fmt.Println("fitted values:")
	for _, x1 := range x {
		fmt.Printf("%.2f\n", f.Eval(x1))
	}

	// Get both RMS and residuals
	rms, res := f.RmsRes()

	fmt.Println("\nresiduals:")
	for _, r := range res {
		fmt.Printf("%.2f\n", r)
	}
	fmt.Printf("\nrms: %.2f\n", rms)

	// compute RMS by hand to illustrate formula
	ot := 1. / 3 // one third
	tt := 2. / 3
	fmt.Printf("rms: %.2f\n", math.Sqrt((ot*ot+tt*tt+ot*ot)/3))
	// this is not:
	fmt.Printf("not: %.2f\n", math.Sqrt((ot*ot+tt*tt+ot*ot)/2))
	// Output:
	// fitted values:
	// 0.33
	// 0.33
	// 0.33
	//
	// residuals:
	// -0.33
	// 0.67
	// -0.33
	//
	// rms: 0.47
	// rms: 0.47
	// not: 0.58
}
