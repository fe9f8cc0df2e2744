// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"gonum.org/v1/gonum/mat"
)

// onesDense returns an (r x c) matrix filled with 1, the canonical Noisy
// solver initial state for L and Q.
func onesDense(r, c int) *mat.Dense {
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, 1)
		}
	}
	return d
}

// scaledIdentity returns s * I_n.
func scaledIdentity(n int, s float64) *mat.Dense {
	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		d.Set(i, i, s)
	}
	return d
}

// addDense returns a + b as a freshly allocated matrix.
func addDense(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Add(a, b)
	return &out
}

// subDense returns a - b as a freshly allocated matrix.
func subDense(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Sub(a, b)
	return &out
}

// scaleDense returns s * a as a freshly allocated matrix.
func scaleDense(s float64, a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Scale(s, a)
	return &out
}

// mulDense returns a * b as a freshly allocated matrix.
func mulDense(a, b mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// transposeDense returns a copy of a's transpose.
func transposeDense(a mat.Matrix) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(a.T())
	return &out
}

// cloneDense returns a deep copy of a.
func cloneDense(a *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.CloneFrom(a)
	return &out
}
