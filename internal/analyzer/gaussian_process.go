package analyzer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// gaussianProcess is a one-dimensional Gaussian-process regression surrogate
// mapping a candidate cluster count to an observed quality score. The RBF
// kernel length-scale (bandwidth) controls how far a good result at one count
// is believed to generalize to nearby counts; the noise term models run-to-run
// k-means variance.
type gaussianProcess struct {
	bandwidth float64
	noise     float64

	xs    []float64
	mean  float64 // mean of the observed ys, used as the prior mean
	chol  mat.Cholesky
	alpha *mat.VecDense // K⁻¹ (y - mean)
}

func newGaussianProcess(bandwidth, noise float64) *gaussianProcess {
	return &gaussianProcess{bandwidth: bandwidth, noise: noise}
}

// rbf is the squared-exponential kernel.
func (gp *gaussianProcess) rbf(a, b float64) float64 {
	d := a - b
	return math.Exp(-d * d / (2 * gp.bandwidth * gp.bandwidth))
}

// Fit conditions the process on the observation log. It fails when the kernel
// matrix is numerically singular, which callers recover from by falling back
// to the best observation so far.
func (gp *gaussianProcess) Fit(xs, ys []float64) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("gaussian process: %d inputs vs %d observations", len(xs), len(ys))
	}

	n := len(xs)
	gp.xs = append([]float64(nil), xs...)

	gp.mean = 0
	for _, y := range ys {
		gp.mean += y
	}
	gp.mean /= float64(n)

	kernel := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := gp.rbf(xs[i], xs[j])
			if i == j {
				v += gp.noise
			}
			kernel.SetSym(i, j, v)
		}
	}

	if ok := gp.chol.Factorize(kernel); !ok {
		return fmt.Errorf("gaussian process: kernel matrix is not positive definite")
	}

	centered := mat.NewVecDense(n, nil)
	for i, y := range ys {
		centered.SetVec(i, y-gp.mean)
	}
	gp.alpha = mat.NewVecDense(n, nil)
	if err := gp.chol.SolveVecTo(gp.alpha, centered); err != nil {
		return fmt.Errorf("gaussian process: solving kernel system: %w", err)
	}
	return nil
}

// Posterior returns the predictive mean and variance at x.
func (gp *gaussianProcess) Posterior(x float64) (mean, variance float64) {
	n := len(gp.xs)
	kStar := mat.NewVecDense(n, nil)
	for i, xi := range gp.xs {
		kStar.SetVec(i, gp.rbf(x, xi))
	}

	mean = gp.mean + mat.Dot(kStar, gp.alpha)

	v := mat.NewVecDense(n, nil)
	if err := gp.chol.SolveVecTo(v, kStar); err != nil {
		// A solve failure after a successful factorization only happens under
		// severe conditioning loss; report maximal uncertainty.
		return mean, 1.0
	}
	variance = gp.rbf(x, x) - mat.Dot(kStar, v)
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}
