package analyzer

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// expectedImprovement is the acquisition value of evaluating at x given the
// surrogate posterior and the best quality observed so far.
func expectedImprovement(gp *gaussianProcess, x, bestObserved float64) float64 {
	mean, variance := gp.Posterior(x)
	sigma := math.Sqrt(variance)
	if sigma < 1e-12 {
		return math.Max(0, mean-bestObserved)
	}
	z := (mean - bestObserved) / sigma
	normal := distuv.UnitNormal
	return (mean-bestObserved)*normal.CDF(z) + sigma*normal.Prob(z)
}

// maximizeAcquisition maximizes expected improvement over [lo, hi] with
// multi-restart L-BFGS. The box constraint is handled by optimizing an
// unconstrained variable through a sigmoid reparameterization; restarts from
// random interior points escape local optima of the multi-modal acquisition
// surface.
func maximizeAcquisition(gp *gaussianProcess, bestObserved, lo, hi float64, restarts int, rng *rand.Rand) (float64, error) {
	if hi <= lo {
		return lo, nil
	}

	toBox := func(t float64) float64 {
		return lo + (hi-lo)/(1+math.Exp(-t))
	}
	fromBox := func(x float64) float64 {
		u := (x - lo) / (hi - lo)
		return math.Log(u / (1 - u))
	}

	objective := func(t []float64) float64 {
		return -expectedImprovement(gp, toBox(t[0]), bestObserved)
	}
	// L-BFGS requires a gradient; the acquisition surface has no closed form
	// worth maintaining, so differentiate numerically.
	problem := optimize.Problem{
		Func: objective,
		Grad: func(grad, t []float64) {
			fd.Gradient(grad, objective, t, nil)
		},
	}

	bestX := math.NaN()
	bestEI := math.Inf(-1)
	failures := 0
	for r := 0; r < restarts; r++ {
		start := lo + (hi-lo)*(0.05+0.9*rng.Float64())
		result, err := optimize.Minimize(problem, []float64{fromBox(start)}, nil, &optimize.LBFGS{})
		if err != nil || result == nil || math.IsNaN(result.F) || math.IsInf(result.F, 0) {
			failures++
			continue
		}
		if ei := -result.F; ei > bestEI {
			bestEI = ei
			bestX = toBox(result.X[0])
		}
	}

	if failures == restarts || math.IsNaN(bestX) {
		return 0, fmt.Errorf("acquisition optimization diverged in all %d restarts", restarts)
	}
	return bestX, nil
}
