package stat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OLSResult holds a fitted ordinary-least-squares model: one entry per term
// (the intercept, when fitted, is named "const" and comes first).
type OLSResult struct {
	Names     []string
	Coef      []float64
	StdErr    []float64
	PValues   []float64
	RSquared  float64
	Residuals []float64
}

// OLS fits y = X*beta by ordinary least squares. features names the columns
// of x in order; when intercept is true a constant column is prepended.
// Standard errors come from sigma^2 * (X'X)^-1 and p-values from a two-sided
// Student-t test with n-k degrees of freedom. R-squared is centered when an
// intercept is fitted, uncentered otherwise.
func OLS(features []string, x [][]float64, y []float64, intercept bool) (*OLSResult, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, fmt.Errorf("ols: design matrix and target length mismatch")
	}
	k := len(features)
	names := features
	if intercept {
		k++
		names = append([]string{"const"}, features...)
	}
	if n <= k {
		return nil, fmt.Errorf("ols: %d rows cannot identify %d terms", n, k)
	}

	design := mat.NewDense(n, k, nil)
	for i := 0; i < n; i++ {
		col := 0
		if intercept {
			design.Set(i, 0, 1)
			col = 1
		}
		if len(x[i]) != len(features) {
			return nil, fmt.Errorf("ols: row %d has %d features, want %d", i, len(x[i]), len(features))
		}
		for j, v := range x[i] {
			design.Set(i, col+j, v)
		}
	}
	yVec := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, yVec); err != nil {
		return nil, fmt.Errorf("ols: solve failed: %w", err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)
	residuals := make([]float64, n)
	rss := 0.0
	for i := 0; i < n; i++ {
		residuals[i] = y[i] - fitted.AtVec(i)
		rss += residuals[i] * residuals[i]
	}
	df := float64(n - k)
	sigma2 := rss / df

	var xtx mat.Dense
	xtx.Mul(design.T(), design)
	var cov mat.Dense
	if err := cov.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("ols: singular design matrix: %w", err)
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	result := &OLSResult{
		Names:     names,
		Coef:      make([]float64, k),
		StdErr:    make([]float64, k),
		PValues:   make([]float64, k),
		Residuals: residuals,
	}
	for j := 0; j < k; j++ {
		result.Coef[j] = beta.AtVec(j)
		result.StdErr[j] = math.Sqrt(sigma2 * cov.At(j, j))
		if result.StdErr[j] == 0 {
			result.PValues[j] = 0
			continue
		}
		t := math.Abs(result.Coef[j] / result.StdErr[j])
		result.PValues[j] = 2 * (1 - tDist.CDF(t))
	}

	tss := 0.0
	if intercept {
		mean := 0.0
		for _, v := range y {
			mean += v
		}
		mean /= float64(n)
		for _, v := range y {
			d := v - mean
			tss += d * d
		}
	} else {
		for _, v := range y {
			tss += v * v
		}
	}
	if tss > 0 {
		result.RSquared = 1 - rss/tss
	}
	return result, nil
}
