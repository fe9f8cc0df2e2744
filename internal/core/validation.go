// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"fmt"

	"github.com/bitjungle/gorpca/pkg/types"
)

// ValidateShapesMatch checks that D and Ω share the same dimensions.
func ValidateShapesMatch(d types.Matrix, omega types.Mask) error {
	dr, dc := d.Dims()
	or, oc := omega.Dims()
	if dr != or || dc != oc {
		return types.NewShapeMismatchError(
			"observation matrix and observed mask must have the same shape",
			[2]int{dr, dc}, [2]int{or, oc},
		)
	}
	return nil
}

// ValidateIterationParams checks max_iter is positive and tol is
// non-negative.
func ValidateIterationParams(maxIter int, tol float64) error {
	if maxIter <= 0 {
		return types.NewInvalidParameterError(fmt.Sprintf("max_iter must be positive, got %d", maxIter))
	}
	if tol < 0 {
		return types.NewInvalidParameterError(fmt.Sprintf("tol must be non-negative, got %v", tol))
	}
	return nil
}

// ValidateNormKind checks norm is one of the recognised dissipation forms.
func ValidateNormKind(norm types.NormKind) error {
	switch norm {
	case types.NormL1, types.NormL2:
		return nil
	default:
		return types.NewInvalidParameterError(fmt.Sprintf("unknown norm %q, expected L1 or L2", norm))
	}
}

// ValidatePeriods checks every period is within (0, nCols) and that
// list_periods and list_etas have matching lengths.
func ValidatePeriods(periods []int, etas []float64, nCols int) error {
	if len(periods) != len(etas) {
		return types.NewInvalidParameterError(
			fmt.Sprintf("list_periods and list_etas must have the same length, got %d and %d", len(periods), len(etas)),
		)
	}
	for _, p := range periods {
		if p <= 0 || p >= nCols {
			return types.NewInvalidParameterError(
				fmt.Sprintf("period %d must satisfy 0 < period < n_columns (%d)", p, nCols),
			)
		}
	}
	for _, eta := range etas {
		if eta < 0 {
			return types.NewInvalidParameterError(fmt.Sprintf("eta must be non-negative, got %v", eta))
		}
	}
	return nil
}

// ValidatePositiveParam checks a named optional scalar parameter is
// positive when set.
func ValidatePositiveParam(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v <= 0 {
		return types.NewInvalidParameterError(fmt.Sprintf("%s must be positive, got %v", name, *v))
	}
	return nil
}

// ValidateNonNegativeParam checks a named optional scalar parameter is
// non-negative when set.
func ValidateNonNegativeParam(name string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 {
		return types.NewInvalidParameterError(fmt.Sprintf("%s must be non-negative, got %v", name, *v))
	}
	return nil
}

// ValidateRank checks an optional rank parameter is positive and does not
// exceed min(m, n) when set.
func ValidateRank(rank *int, m, n int) error {
	if rank == nil {
		return nil
	}
	if *rank <= 0 {
		return types.NewInvalidParameterError(fmt.Sprintf("rank must be positive, got %d", *rank))
	}
	maxRank := m
	if n < maxRank {
		maxRank = n
	}
	if *rank > maxRank {
		return types.NewInvalidParameterError(fmt.Sprintf("rank %d exceeds min(m,n) = %d", *rank, maxRank))
	}
	return nil
}
