// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

// Package metrics provides the column-wise comparison metrics used to
// benchmark a decomposition against ground truth: squared and absolute
// errors, Kullback-Leibler divergence, Wasserstein and energy distances,
// and the multivariate Frechet distance. All functions are stateless and
// restrict their computation to the entries selected by a mask; the Frechet
// distance applies the mask per row, keeping every row with at least one
// observed entry.
package metrics

import (
	"math"
	"sort"

	"github.com/bitjungle/gorpca/internal/linalg"
	"github.com/bitjungle/gorpca/internal/utils"
	"github.com/bitjungle/gorpca/pkg/types"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// eps guards the histogram-based divergences against empty bins.
const eps = 2.220446049250313e-16

// klBins is the number of histogram bin edges used by the 1-D KL
// divergence, which therefore bins each sample into klBins-1 bins.
const klBins = 20

// ColumnMetric compares two equally-long samples drawn from one column.
type ColumnMetric func(truth, pred []float64) float64

// Columnwise applies metric to each column of truth and pred, restricted to
// the rows where mask is true in that column, and returns one value per
// column.
func Columnwise(truth, pred types.Matrix, mask types.Mask, metric ColumnMetric) ([]float64, error) {
	if err := checkShapes(truth, pred, mask); err != nil {
		return nil, err
	}
	_, cols := truth.Dims()
	out := make([]float64, cols)
	for j := 0; j < cols; j++ {
		t, p := maskedColumn(truth, pred, mask, j)
		out[j] = metric(t, p)
	}
	return out, nil
}

// MeanSquaredError returns the per-column mean squared error between truth
// and pred on the masked entries.
func MeanSquaredError(truth, pred types.Matrix, mask types.Mask) ([]float64, error) {
	return Columnwise(truth, pred, mask, func(t, p []float64) float64 {
		if len(t) == 0 {
			return math.NaN()
		}
		var sum float64
		for i := range t {
			d := t[i] - p[i]
			sum += d * d
		}
		return sum / float64(len(t))
	})
}

// RootMeanSquaredError returns the per-column root mean squared error.
func RootMeanSquaredError(truth, pred types.Matrix, mask types.Mask) ([]float64, error) {
	mse, err := MeanSquaredError(truth, pred, mask)
	if err != nil {
		return nil, err
	}
	for i, v := range mse {
		mse[i] = math.Sqrt(v)
	}
	return mse, nil
}

// MeanAbsoluteError returns the per-column mean absolute error.
func MeanAbsoluteError(truth, pred types.Matrix, mask types.Mask) ([]float64, error) {
	return Columnwise(truth, pred, mask, func(t, p []float64) float64 {
		if len(t) == 0 {
			return math.NaN()
		}
		var sum float64
		for i := range t {
			sum += math.Abs(t[i] - p[i])
		}
		return sum / float64(len(t))
	})
}

// WassersteinDistance returns the per-column 1-D Wasserstein-1 distance
// between the empirical distributions of truth and pred.
func WassersteinDistance(truth, pred types.Matrix, mask types.Mask) ([]float64, error) {
	return Columnwise(truth, pred, mask, wasserstein1D)
}

// KLDivergence returns the per-column Kullback-Leibler divergence between
// histogram estimates of the two column distributions, binned over their
// joint range.
func KLDivergence(truth, pred types.Matrix, mask types.Mask) ([]float64, error) {
	return Columnwise(truth, pred, mask, klDivergence1D)
}

// EnergyDistance returns the per-column energy distance
// 2 E|X-Y| - E|X-X'| - E|Y-Y'| between the two column samples.
func EnergyDistance(truth, pred types.Matrix, mask types.Mask) ([]float64, error) {
	return Columnwise(truth, pred, mask, energyDistance1D)
}

// FrechetDistance computes the Frechet distance between the rows of truth
// and pred seen as samples of multivariate Gaussians:
//
//	||mu_t - mu_p||^2 + Tr(S_t + S_p - 2 (S_t S_p)^(1/2))
//
// Rows where the mask is entirely false are dropped from both samples.
func FrechetDistance(truth, pred types.Matrix, mask types.Mask) (float64, error) {
	if err := checkShapes(truth, pred, mask); err != nil {
		return 0, err
	}

	tKept := keepObservedRows(truth, mask)
	pKept := keepObservedRows(pred, mask)
	rows, cols := tKept.Dims()
	if rows < 2 {
		return 0, types.NewInvalidParameterError("frechet distance needs at least two rows with observed entries")
	}

	tDense := utils.MatrixToDense(tKept)
	pDense := utils.MatrixToDense(pKept)

	var ssdiff float64
	for j := 0; j < cols; j++ {
		mt := stat.Mean(mat.Col(nil, j, tDense), nil)
		mp := stat.Mean(mat.Col(nil, j, pDense), nil)
		ssdiff += (mt - mp) * (mt - mp)
	}

	sigmaT := covarianceDense(tDense)
	sigmaP := covarianceDense(pDense)

	// Tr((S_t S_p)^(1/2)) through the symmetric form
	// Tr((S_p^(1/2) S_t S_p^(1/2))^(1/2)), which keeps every square root
	// on a symmetric PSD argument.
	rootP, err := linalg.MatrixSqrt(sigmaP)
	if err != nil {
		return 0, types.NewNumericFailureError("matrix square root failed in frechet distance", 0, err)
	}
	var inner mat.Dense
	inner.Mul(rootP, sigmaT)
	inner.Mul(&inner, rootP)
	covMean, err := linalg.MatrixSqrt(&inner)
	if err != nil {
		return 0, types.NewNumericFailureError("matrix square root failed in frechet distance", 0, err)
	}

	var trace float64
	for j := 0; j < cols; j++ {
		trace += sigmaT.At(j, j) + sigmaP.At(j, j) - 2*covMean.At(j, j)
	}
	return ssdiff + trace, nil
}

func checkShapes(truth, pred types.Matrix, mask types.Mask) error {
	tr, tc := truth.Dims()
	pr, pc := pred.Dims()
	if tr != pr || tc != pc {
		return types.NewShapeMismatchError("truth and prediction must have the same shape", [2]int{tr, tc}, [2]int{pr, pc})
	}
	mr, mc := mask.Dims()
	if tr != mr || tc != mc {
		return types.NewShapeMismatchError("mask must have the shape of the compared matrices", [2]int{tr, tc}, [2]int{mr, mc})
	}
	return nil
}

func maskedColumn(truth, pred types.Matrix, mask types.Mask, j int) (t, p []float64) {
	rows, _ := truth.Dims()
	for i := 0; i < rows; i++ {
		if mask[i][j] {
			t = append(t, truth[i][j])
			p = append(p, pred[i][j])
		}
	}
	return t, p
}

// keepObservedRows drops the rows of m where the mask has no true entry,
// mirroring the row filter applied before the distributional metrics.
func keepObservedRows(m types.Matrix, mask types.Mask) types.Matrix {
	var out types.Matrix
	for i := range m {
		any := false
		for _, observed := range mask[i] {
			if observed {
				any = true
				break
			}
		}
		if any {
			out = append(out, append([]float64(nil), m[i]...))
		}
	}
	return out
}

func covarianceDense(x *mat.Dense) *mat.Dense {
	_, cols := x.Dims()
	sym := mat.NewSymDense(cols, nil)
	stat.CovarianceMatrix(sym, x, nil)
	out := mat.NewDense(cols, cols, nil)
	out.Copy(sym)
	return out
}

// wasserstein1D integrates the absolute difference of the two empirical
// CDFs over the merged support.
func wasserstein1D(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.NaN()
	}
	sa := sortedCopy(a)
	sb := sortedCopy(b)

	all := make([]float64, 0, len(sa)+len(sb))
	all = append(all, sa...)
	all = append(all, sb...)
	sort.Float64s(all)

	var dist float64
	ia, ib := 0, 0
	for i := 0; i < len(all)-1; i++ {
		for ia < len(sa) && sa[ia] <= all[i] {
			ia++
		}
		for ib < len(sb) && sb[ib] <= all[i] {
			ib++
		}
		cdfA := float64(ia) / float64(len(sa))
		cdfB := float64(ib) / float64(len(sb))
		dist += math.Abs(cdfA-cdfB) * (all[i+1] - all[i])
	}
	return dist
}

// klDivergence1D bins both samples over their joint range and returns the
// discrete KL divergence of the two histogram densities.
func klDivergence1D(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.NaN()
	}
	lo := math.Min(minOf(a), minOf(b))
	hi := math.Max(maxOf(a), maxOf(b))
	if hi == lo {
		return 0
	}

	p := histogramDensity(a, lo, hi)
	q := histogramDensity(b, lo, hi)

	var sumP, sumQ float64
	for i := range p {
		p[i] += eps
		q[i] += eps
		sumP += p[i]
		sumQ += q[i]
	}

	var kl float64
	for i := range p {
		pi := p[i] / sumP
		qi := q[i] / sumQ
		kl += pi * math.Log(pi/qi)
	}
	return kl
}

func histogramDensity(v []float64, lo, hi float64) []float64 {
	bins := make([]float64, klBins-1)
	width := (hi - lo) / float64(len(bins))
	for _, x := range v {
		idx := int((x - lo) / width)
		if idx >= len(bins) {
			idx = len(bins) - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx]++
	}
	norm := float64(len(v)) * width
	for i := range bins {
		bins[i] /= norm
	}
	return bins
}

func energyDistance1D(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return math.NaN()
	}
	return 2*meanPairwiseAbs(a, b) - meanPairwiseAbs(a, a) - meanPairwiseAbs(b, b)
}

func meanPairwiseAbs(a, b []float64) float64 {
	var sum float64
	for _, x := range a {
		for _, y := range b {
			sum += math.Abs(x - y)
		}
	}
	return sum / float64(len(a)*len(b))
}

func sortedCopy(v []float64) []float64 {
	out := append([]float64(nil), v...)
	sort.Float64s(out)
	return out
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
