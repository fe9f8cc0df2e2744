// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package reshape

import (
	"math"
	"sort"

	"github.com/bitjungle/gorpca/pkg/types"
	"gonum.org/v1/gonum/stat"
)

// WarmStart fills the NaN cells of a packed matrix according to method,
// returning a new matrix; d is left untouched. The canonical method,
// WarmStartLinear, interpolates along the long axis of d, matching the
// facade's warm-start step.
func WarmStart(d types.Matrix, method types.WarmStartMethod) types.Matrix {
	switch method {
	case types.WarmStartMean:
		return fillColumns(d, columnMean)
	case types.WarmStartMedian:
		return fillColumns(d, columnMedian)
	case types.WarmStartLinear, "":
		return LinearInterpLongAxis(d)
	default:
		return LinearInterpLongAxis(d)
	}
}

// LinearInterpLongAxis interpolates along whichever of d's two axes is
// longer: rows when there are at least as many rows as columns, columns
// otherwise. This matches DecomposeSignal's "interpolate along the long
// axis" warm-start step.
func LinearInterpLongAxis(d types.Matrix) types.Matrix {
	rows, cols := d.Dims()
	if rows >= cols {
		return linearInterpAlongRows(d)
	}
	return linearInterpAlongColumns(d)
}

// linearInterpAlongRows fills NaNs within each column by interpolating
// between the nearest finite row neighbours. Leading/trailing NaNs take the
// nearest finite value; an all-NaN column becomes zeros.
func linearInterpAlongRows(d types.Matrix) types.Matrix {
	rows, cols := d.Dims()
	out := copyMatrix(d)
	for j := 0; j < cols; j++ {
		col := make([]float64, rows)
		for i := 0; i < rows; i++ {
			col[i] = d[i][j]
		}
		interpolate1D(col)
		for i := 0; i < rows; i++ {
			out[i][j] = col[i]
		}
	}
	return out
}

// linearInterpAlongColumns fills NaNs within each row by interpolating
// between the nearest finite column neighbours.
func linearInterpAlongColumns(d types.Matrix) types.Matrix {
	rows, cols := d.Dims()
	out := copyMatrix(d)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		copy(row, d[i])
		interpolate1D(row)
		copy(out[i], row)
	}
	return out
}

// interpolate1D fills NaN runs of v in place by linear interpolation
// between the nearest finite neighbours on either side. Leading and
// trailing NaN runs take the value of the nearest finite entry. An
// all-NaN slice becomes all zeros.
func interpolate1D(v []float64) {
	n := len(v)

	firstFinite := -1
	for i := 0; i < n; i++ {
		if !math.IsNaN(v[i]) {
			firstFinite = i
			break
		}
	}
	if firstFinite == -1 {
		for i := range v {
			v[i] = 0
		}
		return
	}

	for i := 0; i < firstFinite; i++ {
		v[i] = v[firstFinite]
	}

	lastFinite := firstFinite
	i := firstFinite + 1
	for i < n {
		if !math.IsNaN(v[i]) {
			lastFinite = i
			i++
			continue
		}

		j := i
		for j < n && math.IsNaN(v[j]) {
			j++
		}
		if j == n {
			for k := i; k < n; k++ {
				v[k] = v[lastFinite]
			}
			break
		}

		left, right := v[lastFinite], v[j]
		span := j - lastFinite
		for k := i; k < j; k++ {
			frac := float64(k-lastFinite) / float64(span)
			v[k] = left + frac*(right-left)
		}
		lastFinite = j
		i = j + 1
	}
}

func columnMean(values []float64) float64 {
	return stat.Mean(values, nil)
}

func columnMedian(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// fillColumns fills every NaN entry of a column with stat(observed values
// in that column); an all-NaN column becomes zeros.
func fillColumns(d types.Matrix, stat func([]float64) float64) types.Matrix {
	rows, cols := d.Dims()
	out := copyMatrix(d)
	for j := 0; j < cols; j++ {
		observed := make([]float64, 0, rows)
		for i := 0; i < rows; i++ {
			if !math.IsNaN(d[i][j]) {
				observed = append(observed, d[i][j])
			}
		}
		fill := 0.0
		if len(observed) > 0 {
			fill = stat(observed)
		}
		for i := 0; i < rows; i++ {
			if math.IsNaN(out[i][j]) {
				out[i][j] = fill
			}
		}
	}
	return out
}

func copyMatrix(d types.Matrix) types.Matrix {
	rows, _ := d.Dims()
	out := make(types.Matrix, rows)
	for i := range d {
		out[i] = append([]float64(nil), d[i]...)
	}
	return out
}
