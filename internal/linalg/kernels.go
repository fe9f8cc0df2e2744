// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

// Package linalg implements the dense linear algebra kernels shared by the
// PCP and Noisy RPCA solvers: soft-thresholding, SVD-thresholding, the
// Toeplitz difference operator, rank estimation and the dense linear
// solves the ADMM updates reduce to.
package linalg

import (
	"fmt"
	"math"

	"github.com/bitjungle/gorpca/pkg/types"
	"gonum.org/v1/gonum/mat"
)

// SoftThreshold applies the element-wise proximal operator of the L1 norm,
// sign(x)*max(|x|-t, 0), to every entry of x. For t == 0 it returns a copy
// of x unchanged.
func SoftThreshold(x *mat.Dense, t float64) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	if t == 0 {
		out.Copy(x)
		return out
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := x.At(i, j)
			shrunk := math.Abs(v) - t
			if shrunk <= 0 {
				out.Set(i, j, 0)
				continue
			}
			out.Set(i, j, math.Copysign(shrunk, v))
		}
	}
	return out
}

// SVDThreshold computes the proximal operator of the nuclear norm: a thin
// SVD of x, soft-thresholding the singular values by t, returned as the
// factor pair (L, Q) such that L*Q reconstructs the thresholded matrix. This
// lets callers that only need the product (PCP) multiply it out, while
// callers that want a factored low-rank representation (Noisy) can keep L
// and Q separate.
func SVDThreshold(x *mat.Dense, t float64) (l, q *mat.Dense, err error) {
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDThin) {
		return nil, nil, fmt.Errorf("linalg: SVD factorization failed")
	}

	values := svd.Values(nil)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, nil, fmt.Errorf("linalg: SVD produced a non-finite singular value")
		}
	}

	var u, vt mat.Dense
	svd.UTo(&u)
	svd.VTo(&vt)

	k := len(values)
	shrunk := make([]float64, k)
	for i, v := range values {
		shrunk[i] = math.Max(v-t, 0)
	}
	sigma := mat.NewDiagDense(k, shrunk)

	l = mat.NewDense(u.RawMatrix().Rows, k, nil)
	l.Mul(&u, sigma)

	q = mat.NewDense(k, vt.RawMatrix().Rows, nil)
	q.Copy(vt.T())

	return l, q, nil
}

// ToeplitzColumn builds the (n x (n-period)) lag-period first-difference
// operator: column j carries +1 at row j and -1 at row j+period, zero
// elsewhere. Left-multiplying a row vector x by this matrix (x @ H)
// produces the lag-period column differences of x.
func ToeplitzColumn(period, n int) *mat.Dense {
	cols := n - period
	h := mat.NewDense(n, cols, nil)
	for j := 0; j < cols; j++ {
		h.Set(j, j, 1)
		h.Set(j+period, j, -1)
	}
	return h
}

// ApproxRank counts the smallest k such that the top-k singular values of x
// capture at least threshold of the total singular value mass. It is
// invariant to prepending a zero singular component and to scaling x by a
// positive constant.
func ApproxRank(x *mat.Dense, threshold float64) int {
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return 1
	}
	values := svd.Values(nil)

	var total float64
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return 1
	}

	var running float64
	for i, v := range values {
		running += v
		if running/total >= threshold {
			return i + 1
		}
	}
	return len(values)
}

// L1Norm computes sum(|x_ij|) over every entry of x.
func L1Norm(x *mat.Dense) float64 {
	r, c := x.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += math.Abs(x.At(i, j))
		}
	}
	return sum
}

// MaskedL1Norm computes sum(|x_ij|) restricted to entries where omega is
// true.
func MaskedL1Norm(x *mat.Dense, omega types.Mask) float64 {
	r, c := x.Dims()
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if omega[i][j] {
				sum += math.Abs(x.At(i, j))
			}
		}
	}
	return sum
}

// NuclearNorm computes the sum of the singular values of x.
func NuclearNorm(x *mat.Dense) float64 {
	var svd mat.SVD
	if !svd.Factorize(x, mat.SVDNone) {
		return math.NaN()
	}
	var sum float64
	for _, v := range svd.Values(nil) {
		sum += v
	}
	return sum
}

// InfNormDiff returns ||a-b||_inf, the largest absolute entry of a-b. Both
// matrices must share a's dimensions.
func InfNormDiff(a, b *mat.Dense) float64 {
	r, c := a.Dims()
	var maxAbs float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := math.Abs(a.At(i, j) - b.At(i, j))
			if d > maxAbs {
				maxAbs = d
			}
		}
	}
	return maxAbs
}

// FrobeniusNorm returns the Frobenius norm of x.
func FrobeniusNorm(x *mat.Dense) float64 {
	return mat.Norm(x, 2)
}

// Solve finds X such that A X = B, tolerating a symmetric positive-definite
// A but not assuming one.
func Solve(a, b *mat.Dense) (*mat.Dense, error) {
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return nil, fmt.Errorf("linalg: linear solve failed: %w", err)
	}
	return &x, nil
}

// MatrixSqrt computes the principal square root of a symmetric positive
// semi-definite matrix via its eigendecomposition. Eigenvalues that come out
// marginally negative from round-off are clamped to zero. Non-symmetric
// input is an error.
func MatrixSqrt(x *mat.Dense) (*mat.Dense, error) {
	r, c := x.Dims()
	if r != c {
		return nil, fmt.Errorf("linalg: matrix square root needs a square matrix, got %dx%d", r, c)
	}

	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			if math.Abs(x.At(i, j)-x.At(j, i)) > 1e-10*(1+math.Abs(x.At(i, j))) {
				return nil, fmt.Errorf("linalg: matrix square root needs a symmetric matrix")
			}
			sym.SetSym(i, j, x.At(i, j))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return nil, fmt.Errorf("linalg: eigendecomposition failed in matrix square root")
	}

	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	sqrtVals := make([]float64, len(values))
	for i, v := range values {
		if v < 0 {
			v = 0
		}
		sqrtVals[i] = math.Sqrt(v)
	}
	lambda := mat.NewDiagDense(len(sqrtVals), sqrtVals)

	var tmp, out mat.Dense
	tmp.Mul(&vectors, lambda)
	out.Mul(&tmp, vectors.T())
	return &out, nil
}
