// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

// Package reshape packs a 1-D signal into a 2-D matrix around a period,
// unpacks the result of a decomposition back into the caller's original
// shape, and fills gaps in a packed matrix with a warm-start estimate
// before ADMM iteration begins.
package reshape

import (
	"math"

	"github.com/bitjungle/gorpca/pkg/types"
)

// Shape records enough of the caller's original input to invert Pack.
type Shape struct {
	// IsVector is true when the caller supplied a 1-D signal.
	IsVector bool
	// Length is the original vector length; only meaningful when IsVector.
	Length int
	// Period is the row count used to fold the vector; only meaningful
	// when IsVector.
	Period int
}

// Pack folds a 1-D signal into a (period, ceil(len/period)) matrix, filling
// column-major: entry k of the signal lands at row k%period, column
// k/period. Any cells beyond the signal's length in the final column are
// NaN-padded. 2-D input passes through unchanged.
func Pack(in types.Input, period int) (types.Matrix, Shape) {
	if !in.IsVector() {
		return in.Matrix, Shape{IsVector: false}
	}

	signal := in.Vector
	n := len(signal)
	cols := (n + period - 1) / period
	if cols == 0 {
		cols = 1
	}

	d := make(types.Matrix, period)
	for i := range d {
		d[i] = make([]float64, cols)
		for j := range d[i] {
			d[i][j] = math.NaN()
		}
	}
	for k, v := range signal {
		row := k % period
		col := k / period
		d[row][col] = v
	}

	return d, Shape{IsVector: true, Length: n, Period: period}
}

// Unpack inverts Pack: for 2-D original input it returns m unchanged; for
// 1-D original input it flattens m in the same column-major order Pack used
// and trims the padding back to the original length.
func Unpack(m types.Matrix, shape Shape) types.Output {
	if !shape.IsVector {
		return types.Output{Matrix: m}
	}

	rows, cols := m.Dims()
	flat := make([]float64, 0, rows*cols)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			flat = append(flat, m[row][col])
		}
	}
	if len(flat) > shape.Length {
		flat = flat[:shape.Length]
	}
	return types.Output{Vector: flat}
}
