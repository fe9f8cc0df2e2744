// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"github.com/bitjungle/gorpca/internal/linalg"
	"github.com/bitjungle/gorpca/internal/utils"
	"github.com/bitjungle/gorpca/pkg/types"
	"gonum.org/v1/gonum/mat"
)

// DecomposePCP runs the canonical Principal Component Pursuit ADMM loop on
// a NaN-free, warm-started D and its observed mask omega, producing a
// low-rank M and a sparse A with D ≈ M + A. Mu and Lambda in cfg are
// derived from PCPParamScale when left unset.
func DecomposePCP(d *mat.Dense, omega types.Mask, cfg types.PCPConfig) (types.DecomposeResult, error) {
	if err := ValidateShapesMatch(utils.DenseToMatrix(d), omega); err != nil {
		return types.DecomposeResult{}, err
	}
	maxIter := cfg.MaxIter
	if maxIter == 0 {
		maxIter = types.DefaultMaxIter
	}
	tol := cfg.Tol
	if cfg.Tol == 0 {
		tol = types.DefaultTol
	}
	if err := ValidateIterationParams(maxIter, tol); err != nil {
		return types.DecomposeResult{}, err
	}

	mu, lambda := PCPParamScale(d)
	if cfg.Mu != nil {
		mu = *cfg.Mu
	}
	if cfg.Lambda != nil {
		lambda = *cfg.Lambda
	}

	policy := cfg.MissingAnomaly
	if policy == "" {
		policy = types.MissingAnomalyAbsorb
	}

	rows, cols := d.Dims()
	normD := linalg.FrobeniusNorm(d)
	if normD == 0 {
		normD = 1
	}

	m := mat.NewDense(rows, cols, nil)
	m.Copy(d)
	a := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, cols, nil)

	increments := make([]float64, 0, maxIter)
	converged := false
	iterations := 0

	initialCost := linalg.NuclearNorm(d)

	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		// M ← svd_threshold(D − A + Y/μ, 1/μ)
		yOverMu := scaleDense(1/mu, y)
		mInput := addDense(subDense(d, a), yOverMu)
		l, q, err := linalg.SVDThreshold(mInput, 1/mu)
		if err != nil {
			return types.DecomposeResult{}, types.NewNumericFailureError("SVD thresholding failed in PCP M update", iter, err)
		}
		m.Mul(l, q)

		// A ← soft_threshold(D − M + Y/μ, λ/μ)
		aInput := addDense(subDense(d, m), yOverMu)
		aNext := linalg.SoftThreshold(aInput, lambda/mu)

		applyMissingAnomalyPolicy(aNext, d, m, omega, policy)
		a.Copy(aNext)

		// Y ← Y + μ(D − M − A)
		residual := subDense(subDense(d, m), a)
		y.Add(y, scaleDense(mu, residual))

		errNorm := linalg.FrobeniusNorm(residual) / normD
		increments = append(increments, errNorm)

		if cfg.Observer != nil {
			cfg.Observer(iter, utils.DenseToMatrix(m), utils.DenseToMatrix(a), types.CostTerms{
				AnomalyL1: lambda * linalg.L1Norm(a),
			})
		}

		if errNorm < tol {
			converged = true
			break
		}
	}

	finalCost := linalg.NuclearNorm(m) + lambda*linalg.MaskedL1Norm(a, omega)
	diag := types.Diagnostics{InitialCost: initialCost, FinalCost: finalCost}
	if finalCost > initialCost+1e-2 {
		diag.CostIncreased = true
	}

	return types.DecomposeResult{
		M:           utils.DenseToMatrix(m),
		A:           utils.DenseToMatrix(a),
		Iterations:  iterations,
		Converged:   converged,
		Increments:  increments,
		Diagnostics: diag,
	}, nil
}

// applyMissingAnomalyPolicy overwrites a's unobserved entries in place
// according to policy: MissingAnomalyAbsorb sets a = d - m there (the
// canonical policy), MissingAnomalyZero sets them to zero.
func applyMissingAnomalyPolicy(a, d, m *mat.Dense, omega types.Mask, policy types.MissingAnomalyPolicy) {
	rows, cols := a.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if omega[i][j] {
				continue
			}
			switch policy {
			case types.MissingAnomalyZero:
				a.Set(i, j, 0)
			default:
				a.Set(i, j, d.At(i, j)-m.At(i, j))
			}
		}
	}
}
