// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMatrixSqrtOfDiagonal(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{4, 0, 0, 9})
	root, err := MatrixSqrt(x)
	require.NoError(t, err)
	assert.InDelta(t, 2, root.At(0, 0), 1e-12)
	assert.InDelta(t, 3, root.At(1, 1), 1e-12)
	assert.InDelta(t, 0, root.At(0, 1), 1e-12)
	assert.InDelta(t, 0, root.At(1, 0), 1e-12)
}

func TestMatrixSqrtSquaresBackToInput(t *testing.T) {
	// Symmetric PSD: A = B B^T.
	b := mat.NewDense(3, 3, []float64{1, 2, 0, 0, 1, 1, 2, 0, 1})
	var x mat.Dense
	x.Mul(b, b.T())

	root, err := MatrixSqrt(&x)
	require.NoError(t, err)

	var squared mat.Dense
	squared.Mul(root, root)
	var diff mat.Dense
	diff.Sub(&squared, &x)
	assert.Less(t, mat.Norm(&diff, 2), 1e-9)
}

func TestMatrixSqrtRejectsNonSquare(t *testing.T) {
	x := mat.NewDense(2, 3, nil)
	_, err := MatrixSqrt(x)
	assert.Error(t, err)
}

func TestMatrixSqrtRejectsNonSymmetric(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 5, 0, 1})
	_, err := MatrixSqrt(x)
	assert.Error(t, err)
}
