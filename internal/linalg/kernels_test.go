// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package linalg

import (
	"math"
	"testing"

	"github.com/bitjungle/gorpca/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSoftThresholdZeroIsPassthrough(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, -2, 3.5, -4.5})
	out := SoftThreshold(x, 0)
	assert.True(t, mat.Equal(x, out))
}

func TestSoftThresholdShrinksTowardZero(t *testing.T) {
	x := mat.NewDense(1, 4, []float64{5, -5, 0.5, -0.5})
	out := SoftThreshold(x, 1)
	assert.InDelta(t, 4, out.At(0, 0), 1e-12)
	assert.InDelta(t, -4, out.At(0, 1), 1e-12)
	assert.InDelta(t, 0, out.At(0, 2), 1e-12)
	assert.InDelta(t, 0, out.At(0, 3), 1e-12)
}

func TestSVDThresholdZeroReconstructsInput(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		10, 0, 0,
		0, 10, 0,
		0, 0, 10,
	})
	l, q, err := SVDThreshold(x, 0)
	require.NoError(t, err)
	var recon mat.Dense
	recon.Mul(l, q)
	assert.True(t, mat.EqualApprox(x, &recon, 1e-9))
}

func TestSVDThresholdShrinksSingularValues(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{3, 0, 0, 1})
	l, q, err := SVDThreshold(x, 1)
	require.NoError(t, err)
	var recon mat.Dense
	recon.Mul(l, q)
	// top singular value 3 -> 2, second 1 -> 0 (clipped at zero).
	assert.InDelta(t, 2.0, NuclearNorm(&recon), 1e-9)
}

func TestToeplitzColumnShape(t *testing.T) {
	h := ToeplitzColumn(2, 6)
	r, c := h.Dims()
	assert.Equal(t, 6, r)
	assert.Equal(t, 4, c)
}

func TestToeplitzColumnOnePlusOneMinusPerColumn(t *testing.T) {
	period, n := 3, 8
	h := ToeplitzColumn(period, n)
	r, c := h.Dims()
	for j := 0; j < c; j++ {
		var plus, minus int
		for i := 0; i < r; i++ {
			switch h.At(i, j) {
			case 1:
				plus++
				assert.Equal(t, j, i)
			case -1:
				minus++
				assert.Equal(t, j+period, i)
			case 0:
				// expected elsewhere
			default:
				t.Fatalf("unexpected entry %v at (%d,%d)", h.At(i, j), i, j)
			}
		}
		assert.Equal(t, 1, plus)
		assert.Equal(t, 1, minus)
	}
}

func TestToeplitzColumnProducesLagDifference(t *testing.T) {
	period, n := 2, 5
	h := ToeplitzColumn(period, n)
	x := mat.NewDense(1, n, []float64{1, 4, 9, 16, 25})

	var diff mat.Dense
	diff.Mul(x, h)

	_, c := h.Dims()
	for j := 0; j < c; j++ {
		want := x.At(0, j) - x.At(0, j+period)
		assert.InDelta(t, want, diff.At(0, j), 1e-12)
	}
}

func TestApproxRankMonotoneUnderZeroPad(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		5, 0, 0,
		0, 1, 0,
		0, 0, 0.001,
	})
	base := ApproxRank(x, 0.95)

	// Prepend a zero singular component by embedding x in a larger matrix
	// with an extra all-zero row/column; the singular value spectrum gains
	// one more zero entry, which must not change the rank estimate.
	padded := mat.NewDense(4, 4, nil)
	padded.Slice(1, 4, 1, 4).(*mat.Dense).Copy(x)

	assert.Equal(t, base, ApproxRank(padded, 0.95))
}

func TestApproxRankInvariantToPositiveScale(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{4, 0, 0, 1})
	base := ApproxRank(x, 0.9)

	scaled := mat.NewDense(2, 2, nil)
	scaled.Scale(7, x)

	assert.Equal(t, base, ApproxRank(scaled, 0.9))
}

func TestL1Norm(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{-1, 2, -3, 4})
	assert.InDelta(t, 10, L1Norm(x), 1e-12)
}

func TestMaskedL1NormRestrictsToObserved(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{-1, 2, -3, 4})
	omega := types.Mask{
		{true, false},
		{false, true},
	}
	assert.InDelta(t, 5, MaskedL1Norm(x, omega), 1e-12)
}

func TestNuclearNormOfDiagonal(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		5, 0, 0,
		0, 3, 0,
		0, 0, 1,
	})
	assert.InDelta(t, 9, NuclearNorm(x), 1e-9)
}

func TestInfNormDiff(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	b := mat.NewDense(2, 2, []float64{1, 2, 3, -1})
	assert.InDelta(t, 5, InfNormDiff(a, b), 1e-12)
}

func TestFrobeniusNorm(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{3, 0, 0, 4})
	assert.InDelta(t, 5, FrobeniusNorm(x), 1e-12)
}

func TestSolveRecoversIdentitySolution(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 4})
	b := mat.NewDense(2, 1, []float64{6, 8})
	x, err := Solve(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 3, x.At(0, 0), 1e-9)
	assert.InDelta(t, 2, x.At(1, 0), 1e-9)
}

func TestSolveSingularReturnsError(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	b := mat.NewDense(2, 1, []float64{1, 1})
	_, err := Solve(a, b)
	assert.Error(t, err)
}

func TestSVDThresholdRejectsNonFiniteInput(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{math.Inf(1), 0, 0, 1})
	_, _, err := SVDThreshold(x, 0)
	assert.Error(t, err)
}
