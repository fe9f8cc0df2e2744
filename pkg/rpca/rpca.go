// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

// Package rpca is the public surface of the decomposition engine. It exposes
// the two solver entry points, DecomposePCP and DecomposeNoisy, for callers
// that already hold a NaN-free observation matrix and its mask, and the
// DecomposeSignal facade that takes a raw 1-D or 2-D input with missing
// cells and orchestrates reshape, warm-start, parameter scaling, solver
// dispatch and unpacking.
package rpca

import (
	"fmt"
	"math"

	"github.com/bitjungle/gorpca/internal/core"
	"github.com/bitjungle/gorpca/internal/reshape"
	"github.com/bitjungle/gorpca/internal/utils"
	"github.com/bitjungle/gorpca/pkg/types"
)

// SignalResult is the output of the DecomposeSignal facade: the low-rank
// and anomaly components in the caller's original shape, plus the solver's
// convergence report.
type SignalResult struct {
	M types.Output
	A types.Output

	Iterations  int
	Converged   bool
	Increments  []float64
	Diagnostics types.Diagnostics
}

// DecomposePCP runs the Principal Component Pursuit solver on a dense,
// NaN-free observation matrix d and its observed mask omega. Callers that
// start from raw data with missing cells should use DecomposeSignal, which
// warm-starts the gaps first.
func DecomposePCP(d types.Matrix, omega types.Mask, cfg types.PCPConfig) (types.DecomposeResult, error) {
	return core.DecomposePCP(utils.MatrixToDense(d), omega, cfg)
}

// DecomposeNoisy runs the improved, noise-tolerant RPCA solver on a dense,
// NaN-free observation matrix d and its observed mask omega, in the L1 or
// L2 temporal-penalty variant selected by cfg.Norm.
func DecomposeNoisy(d types.Matrix, omega types.Mask, cfg types.NoisyConfig) (types.DecomposeResult, error) {
	return core.DecomposeNoisy(utils.MatrixToDense(d), omega, cfg)
}

// DecomposeSignal decomposes a raw input, 1-D or 2-D with NaN marking
// missing cells, into a completed low-rank part and an anomaly part of the
// same shape as the input:
//
//  1. a 1-D signal is folded into a (period, ceil(len/period)) matrix;
//  2. the observed mask is derived from the packed matrix;
//  3. gaps are warm-started by the method in cfg.WarmStart, by default
//     linear interpolation along the long axis;
//  4. unset parameters are filled from the scaling heuristics;
//  5. the PCP or Noisy solver runs on the warm-started matrix;
//  6. the components are unpacked back to the input's shape.
func DecomposeSignal(in types.Input, cfg types.RPCAConfig) (SignalResult, error) {
	if err := validateInput(in, cfg); err != nil {
		return SignalResult{}, err
	}

	dInit, shape := reshape.Pack(in, cfg.Period)
	dProj := reshape.WarmStart(dInit, cfg.WarmStart)

	dense := utils.MatrixToDense(dProj)
	omega := utils.ObservedMask(utils.MatrixToDense(dInit))

	_, nCols := dense.Dims()
	if err := core.ValidatePeriods(cfg.ListPeriods, cfg.ListEtas, nCols); err != nil {
		return SignalResult{}, err
	}

	var result types.DecomposeResult
	var err error
	switch cfg.Variant {
	case types.VariantPCP:
		result, err = core.DecomposePCP(dense, omega, types.PCPConfig{
			Mu:             cfg.Mu,
			Lambda:         cfg.Lambda,
			MaxIter:        cfg.MaxIter,
			Tol:            cfg.Tol,
			MissingAnomaly: cfg.MissingAnomaly,
			Observer:       cfg.Observer,
		})
	case types.VariantNoisy:
		result, err = core.DecomposeNoisy(dense, omega, types.NoisyConfig{
			Norm:           cfg.Norm,
			Rank:           cfg.Rank,
			Tau:            cfg.Tau,
			Lambda:         cfg.Lambda,
			ListPeriods:    cfg.ListPeriods,
			ListEtas:       cfg.ListEtas,
			MaxIter:        cfg.MaxIter,
			Tol:            cfg.Tol,
			MissingAnomaly: cfg.MissingAnomaly,
			Rho:            cfg.Rho,
			Mu0:            cfg.Mu0,
			MuBar:          cfg.MuBar,
			Observer:       cfg.Observer,
		})
	default:
		return SignalResult{}, types.NewInvalidParameterError(
			fmt.Sprintf("unknown variant %q, expected %q or %q", cfg.Variant, types.VariantPCP, types.VariantNoisy),
		)
	}
	if err != nil {
		return SignalResult{}, err
	}

	return SignalResult{
		M:           reshape.Unpack(result.M, shape),
		A:           reshape.Unpack(result.A, shape),
		Iterations:  result.Iterations,
		Converged:   result.Converged,
		Increments:  result.Increments,
		Diagnostics: result.Diagnostics,
	}, nil
}

// validateInput checks that a vector input is non-empty and comes with a
// positive folding period no longer than the signal, and that a matrix input
// is non-empty, rectangular and free of infinities. When Vector is set,
// Matrix is not inspected; an input whose entries are all NaN is accepted.
func validateInput(in types.Input, cfg types.RPCAConfig) error {
	if in.IsVector() {
		if len(in.Vector) == 0 {
			return types.NewInvalidParameterError("input signal must not be empty")
		}
		if cfg.Period <= 0 {
			return types.NewInvalidParameterError("a 1-D signal requires a positive period to fold into a matrix")
		}
		if cfg.Period > len(in.Vector) {
			return types.NewInvalidParameterError(
				fmt.Sprintf("period %d exceeds signal length %d", cfg.Period, len(in.Vector)),
			)
		}
		return nil
	}

	rows, cols := in.Matrix.Dims()
	if rows == 0 || cols == 0 {
		return types.NewInvalidParameterError("input matrix must not be empty")
	}
	for i := range in.Matrix {
		if len(in.Matrix[i]) != cols {
			return types.NewInvalidParameterError("input matrix rows must all have the same length")
		}
		for _, v := range in.Matrix[i] {
			if math.IsInf(v, 0) {
				return types.NewInvalidParameterError("input matrix must not contain infinities; NaN is the only missing-value sentinel")
			}
		}
	}
	return nil
}
