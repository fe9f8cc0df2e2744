// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package rpca

import (
	"math"
	"testing"

	"github.com/bitjungle/gorpca/pkg/testutil"
	"github.com/bitjungle/gorpca/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// sineSignal is a 12-periodic signal with a few additive spikes and gaps.
func sineSignal(length int, spikes map[int]float64, missing []int) []float64 {
	signal := make([]float64, length)
	for t := range signal {
		signal[t] = math.Sin(2 * math.Pi * float64(t) / 12)
	}
	for t, v := range spikes {
		signal[t] += v
	}
	for _, t := range missing {
		signal[t] = math.NaN()
	}
	return signal
}

func TestDecomposeSignalVectorRoundTripNoisy(t *testing.T) {
	signal := sineSignal(96, map[int]float64{17: 3, 55: -3}, nil)
	result, err := DecomposeSignal(types.Input{Vector: signal}, types.RPCAConfig{
		Variant: types.VariantNoisy,
		Norm:    types.NormL2,
		Period:  12,
		Rank:    intPtr(2),
	})
	require.NoError(t, err)

	require.Len(t, result.M.Vector, 96, "output must have the input's shape")
	require.Len(t, result.A.Vector, 96)
	for t2, v := range result.M.Vector {
		assert.False(t, math.IsNaN(v), "completed signal must be NaN-free at index %d", t2)
	}

	assert.Greater(t, math.Abs(result.A.Vector[17]), math.Abs(result.A.Vector[16]),
		"anomaly channel should single out the spiked samples")
	assert.Greater(t, math.Abs(result.A.Vector[55]), math.Abs(result.A.Vector[54]))
}

func TestDecomposeSignalImputesMissingSamples(t *testing.T) {
	missing := []int{5, 30, 31, 70}
	signal := sineSignal(96, nil, missing)
	result, err := DecomposeSignal(types.Input{Vector: signal}, types.RPCAConfig{
		Variant: types.VariantNoisy,
		Norm:    types.NormL2,
		Period:  12,
		Rank:    intPtr(2),
	})
	require.NoError(t, err)

	for _, t2 := range missing {
		got := result.M.Vector[t2]
		want := math.Sin(2 * math.Pi * float64(t2) / 12)
		assert.False(t, math.IsNaN(got))
		assert.InDelta(t, want, got, 0.5, "imputed sample %d should follow the periodic signal", t2)
	}
}

func TestDecomposeSignalMatrixRoundTripPCP(t *testing.T) {
	d := testutil.GenerateTestMatrix(6, 9, 1.0)
	d[2][4] = math.NaN()

	result, err := DecomposeSignal(types.Input{Matrix: d}, types.RPCAConfig{
		Variant: types.VariantPCP,
		Tol:     1e-6,
	})
	require.NoError(t, err)

	require.True(t, testutil.CompareMatrixDimensions(d, result.M.Matrix))
	require.True(t, testutil.CompareMatrixDimensions(d, result.A.Matrix))
	assert.False(t, math.IsNaN(result.M.Matrix[2][4]), "masked cell must come back completed")
}

func TestDecomposeSignalAllNaNColumnCompletes(t *testing.T) {
	d := testutil.GenerateTestMatrix(4, 6, 2.0)
	for i := range d {
		d[i][3] = math.NaN()
	}

	result, err := DecomposeSignal(types.Input{Matrix: d}, types.RPCAConfig{
		Variant: types.VariantNoisy,
		Norm:    types.NormL2,
		Rank:    intPtr(1),
		MaxIter: 500,
	})
	require.NoError(t, err, "an all-NaN column must not trigger a numeric failure")
	for i := range result.M.Matrix {
		assert.False(t, math.IsNaN(result.M.Matrix[i][3]))
	}
}

func TestDecomposeSignalPeriodValidation(t *testing.T) {
	signal := sineSignal(96, nil, nil)

	// A 96-sample signal folded with period 12 has 8 columns, so a
	// temporal lag of 30 cannot fit.
	_, err := DecomposeSignal(types.Input{Vector: signal}, types.RPCAConfig{
		Variant:     types.VariantNoisy,
		Norm:        types.NormL2,
		Period:      12,
		ListPeriods: []int{30},
		ListEtas:    []float64{1.0},
	})
	require.Error(t, err)
	var rerr *types.RPCAError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrInvalidParameter, rerr.Type)
}

func TestDecomposeSignalVectorNeedsPeriod(t *testing.T) {
	signal := sineSignal(24, nil, nil)
	_, err := DecomposeSignal(types.Input{Vector: signal}, types.RPCAConfig{
		Variant: types.VariantNoisy,
		Norm:    types.NormL2,
	})
	require.Error(t, err)
	var rerr *types.RPCAError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrInvalidParameter, rerr.Type)
}

func TestDecomposeSignalUnknownVariantRejected(t *testing.T) {
	d := testutil.GenerateTestMatrix(4, 6, 1.0)
	_, err := DecomposeSignal(types.Input{Matrix: d}, types.RPCAConfig{Variant: "streaming"})
	require.Error(t, err)
	var rerr *types.RPCAError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.ErrInvalidParameter, rerr.Type)
}

func TestDecomposeSignalEmptyInputRejected(t *testing.T) {
	_, err := DecomposeSignal(types.Input{Vector: []float64{}}, types.RPCAConfig{
		Variant: types.VariantPCP,
		Period:  4,
	})
	assert.Error(t, err)

	_, err = DecomposeSignal(types.Input{}, types.RPCAConfig{Variant: types.VariantPCP})
	assert.Error(t, err)
}

func TestDecomposePCPWrapperMatchesCoreContract(t *testing.T) {
	d := testutil.GenerateTestMatrix(5, 5, 1.0)
	omega := testutil.AllTrueMask(5, 5)

	result, err := DecomposePCP(d, omega, types.PCPConfig{Tol: 1e-6})
	require.NoError(t, err)
	assert.True(t, testutil.CompareMatrixDimensions(d, result.M))
	assert.True(t, testutil.CompareMatrixDimensions(d, result.A))
	assert.Nil(t, result.L, "PCP does not produce basis factors")
}

func TestDecomposeNoisyWrapperReturnsFactors(t *testing.T) {
	d := testutil.GenerateTestMatrix(5, 8, 1.0)
	omega := testutil.AllTrueMask(5, 8)

	result, err := DecomposeNoisy(d, omega, types.NoisyConfig{
		Norm: types.NormL2,
		Rank: intPtr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, result.L)
	require.NotNil(t, result.Q)
	assert.Len(t, result.L, 5)
	assert.Len(t, result.L[0], 2)
	assert.Len(t, result.Q, 8)
	assert.Len(t, result.Q[0], 2)
}
