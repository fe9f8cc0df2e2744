// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"

	"github.com/bitjungle/gorpca/internal/linalg"
	"gonum.org/v1/gonum/mat"
)

// PCPParamScale derives the PCP penalty mu and anomaly weight lambda from
// the shape and magnitude of the (warm-started) data matrix, for callers
// that leave them unset: mu = m*n / (4*||D||_1), lambda = 1/sqrt(max(m,n)).
func PCPParamScale(d *mat.Dense) (mu, lambda float64) {
	r, c := d.Dims()
	l1 := linalg.L1Norm(d)
	if l1 == 0 {
		l1 = 1
	}
	mu = float64(r*c) / (4 * l1)
	lambda = 1 / math.Sqrt(float64(maxInt(r, c)))
	return mu, lambda
}

// NoisyParamScale derives rank, tau and lambda for the Noisy solver:
// rank = approx_rank(D), tau = 1/sqrt(max(m,n)), lambda = tau.
func NoisyParamScale(d *mat.Dense) (rank int, tau, lambda float64) {
	r, c := d.Dims()
	rank = linalg.ApproxRank(d, 0.95)
	tau = 1 / math.Sqrt(float64(maxInt(r, c)))
	lambda = tau
	return rank, tau, lambda
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
