// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package utils

import (
	"math"

	"github.com/bitjungle/gorpca/pkg/types"
	"gonum.org/v1/gonum/mat"
)

// MatrixToDense converts a types.Matrix to a gonum Dense matrix
func MatrixToDense(m types.Matrix) *mat.Dense {
	if len(m) == 0 || len(m[0]) == 0 {
		return mat.NewDense(0, 0, nil)
	}

	rows, cols := len(m), len(m[0])
	data := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = m[i][j]
		}
	}
	return mat.NewDense(rows, cols, data)
}

// DenseToMatrix converts a gonum Dense matrix to types.Matrix
func DenseToMatrix(d *mat.Dense) types.Matrix {
	r, c := d.Dims()
	m := make(types.Matrix, r)
	for i := 0; i < r; i++ {
		m[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			m[i][j] = d.At(i, j)
		}
	}
	return m
}

// ObservedMask derives the boolean observed-mask of a dense matrix: true
// where the entry is finite, false where it is NaN. Per the data model, this
// mask is computed once at solver entry and never mutated afterwards.
func ObservedMask(d *mat.Dense) types.Mask {
	r, c := d.Dims()
	omega := make(types.Mask, r)
	for i := 0; i < r; i++ {
		omega[i] = make([]bool, c)
		for j := 0; j < c; j++ {
			omega[i][j] = !math.IsNaN(d.At(i, j))
		}
	}
	return omega
}

// MaskToDense converts a types.Mask to a gonum Dense matrix, representing
// true as 1 and false as 0.
func MaskToDense(mk types.Mask) *mat.Dense {
	r, c := mk.Dims()
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if mk[i][j] {
				d.Set(i, j, 1)
			}
		}
	}
	return d
}
