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

// noisyState carries the working matrices of one Noisy decomposition. All
// fields are owned by the solver call frame; nothing escapes except through
// the DecomposeResult built at return.
type noisyState struct {
	x *mat.Dense // working low-rank iterate before final projection
	a *mat.Dense // sparse/anomaly component
	l *mat.Dense // left basis factor, (m x rank)
	q *mat.Dense // right basis factor, (n x rank)
	y *mat.Dense // multiplier for the X = L Q^T constraint

	// Temporal auxiliaries, one per period; empty for the L2 variant.
	r    []*mat.Dense // sparse residuals of the lag differences
	yAux []*mat.Dense // multipliers for the X H_k = R_k constraints

	h   []*mat.Dense // lag difference operators, (n x n-p_k)
	hht *mat.Dense   // sum_k eta_k * H_k H_k^T, (n x n)
}

// DecomposeNoisy runs the improved, noise-tolerant RPCA on a NaN-free,
// warm-started D and its observed mask omega: a factored low-rank M = L Q^T
// plus a sparse A, with optional Toeplitz temporal penalties dissipated in
// either the L1 or the L2 sense. Rank, Tau and Lambda in cfg fall back to
// NoisyParamScale when left unset.
func DecomposeNoisy(d *mat.Dense, omega types.Mask, cfg types.NoisyConfig) (types.DecomposeResult, error) {
	if err := ValidateShapesMatch(utils.DenseToMatrix(d), omega); err != nil {
		return types.DecomposeResult{}, err
	}

	norm := cfg.Norm
	if norm == "" {
		norm = types.NormL2
	}
	if err := ValidateNormKind(norm); err != nil {
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

	rows, cols := d.Dims()
	if err := ValidatePeriods(cfg.ListPeriods, cfg.ListEtas, cols); err != nil {
		return types.DecomposeResult{}, err
	}
	if err := ValidateRank(cfg.Rank, rows, cols); err != nil {
		return types.DecomposeResult{}, err
	}
	if err := ValidateNonNegativeParam("tau", cfg.Tau); err != nil {
		return types.DecomposeResult{}, err
	}
	if err := ValidateNonNegativeParam("lam", cfg.Lambda); err != nil {
		return types.DecomposeResult{}, err
	}

	rank, tau, lambda := NoisyParamScale(d)
	if cfg.Rank != nil {
		rank = *cfg.Rank
	}
	if cfg.Tau != nil {
		tau = *cfg.Tau
	}
	if cfg.Lambda != nil {
		lambda = *cfg.Lambda
	}

	rho, mu, muBar := noisySchedule(cfg)
	if err := validateSchedule(rho, mu, muBar); err != nil {
		return types.DecomposeResult{}, err
	}

	policy := cfg.MissingAnomaly
	if policy == "" {
		policy = types.MissingAnomalyAbsorb
	}

	st := newNoisyState(d, rows, cols, rank, cfg.ListPeriods, cfg.ListEtas, norm)

	// The L1 variant doubles the temporal curvature in the X-update system
	// because the penalty enters through both the quadratic coupling and
	// the auxiliary constraint multipliers.
	hhtFactor := 1.0
	if norm == types.NormL1 {
		hhtFactor = 2.0
	}

	increments := make([]float64, 0, maxIter)
	converged := false
	iterations := 0

	for iter := 0; iter < maxIter; iter++ {
		iterations = iter + 1

		xPrev := cloneDense(st.x)
		aPrev := cloneDense(st.a)
		lPrev := cloneDense(st.l)
		qPrev := cloneDense(st.q)
		rPrev := make([]*mat.Dense, len(st.r))
		for k := range st.r {
			rPrev[k] = cloneDense(st.r[k])
		}

		// X ← solve(((1+μ)I + c·HHᵀ), (D − A + μLQᵀ − Y + sums)ᵀ)ᵀ
		lq := mulDense(st.l, st.q.T())
		rhs := subDense(addDense(subDense(d, st.a), scaleDense(mu, lq)), st.y)
		if norm == types.NormL1 {
			for k := range st.r {
				term := subDense(scaleDense(mu, st.r[k]), st.yAux[k])
				rhs.Add(rhs, mulDense(term, st.h[k].T()))
			}
		}
		system := addDense(scaledIdentity(cols, 1+mu), scaleDense(hhtFactor, st.hht))
		xT, err := linalg.Solve(system, transposeDense(rhs))
		if err != nil {
			return types.DecomposeResult{}, types.NewNumericFailureError("linear solve failed in Noisy X update", iter, err)
		}
		st.x = transposeDense(xT)

		// A ← soft_threshold(D − X, λ), residual absorbed on ¬Ω
		aNext := linalg.SoftThreshold(subDense(d, st.x), lambda)
		applyMissingAnomalyPolicy(aNext, d, st.x, omega, policy)
		st.a = aNext

		// L ← solve((τI_r + μQᵀQ), ((μX + Y)Q)ᵀ)ᵀ
		gramQ := addDense(scaledIdentity(rank, tau), scaleDense(mu, mulDense(st.q.T(), st.q)))
		rhsL := mulDense(addDense(scaleDense(mu, st.x), st.y), st.q)
		lT, err := linalg.Solve(gramQ, transposeDense(rhsL))
		if err != nil {
			return types.DecomposeResult{}, types.NewNumericFailureError("linear solve failed in Noisy L update", iter, err)
		}
		st.l = transposeDense(lT)

		// Q ← solve((τI_r + μLᵀL), ((μXᵀ + Yᵀ)L)ᵀ)ᵀ
		gramL := addDense(scaledIdentity(rank, tau), scaleDense(mu, mulDense(st.l.T(), st.l)))
		rhsQ := mulDense(addDense(scaleDense(mu, transposeDense(st.x)), transposeDense(st.y)), st.l)
		qT, err := linalg.Solve(gramL, transposeDense(rhsQ))
		if err != nil {
			return types.DecomposeResult{}, types.NewNumericFailureError("linear solve failed in Noisy Q update", iter, err)
		}
		st.q = transposeDense(qT)

		// R[k] ← soft_threshold(X·H_k − Y'[k]/μ, η_k/μ)
		if norm == types.NormL1 {
			for k := range st.r {
				xh := mulDense(st.x, st.h[k])
				st.r[k] = linalg.SoftThreshold(subDense(xh, scaleDense(1/mu, st.yAux[k])), cfg.ListEtas[k]/mu)
			}
		}

		// Y ← Y + μ(X − LQᵀ); Y'[k] ← Y'[k] + μ(X·H_k − R[k])
		lq = mulDense(st.l, st.q.T())
		st.y.Add(st.y, scaleDense(mu, subDense(st.x, lq)))
		if norm == types.NormL1 {
			for k := range st.r {
				xh := mulDense(st.x, st.h[k])
				st.yAux[k].Add(st.yAux[k], scaleDense(mu, subDense(xh, st.r[k])))
			}
		}

		mu = mu * rho
		if mu > muBar {
			mu = muBar
		}

		witness := linalg.InfNormDiff(st.x, xPrev)
		if w := linalg.InfNormDiff(st.a, aPrev); w > witness {
			witness = w
		}
		if w := linalg.InfNormDiff(st.l, lPrev); w > witness {
			witness = w
		}
		if w := linalg.InfNormDiff(st.q, qPrev); w > witness {
			witness = w
		}
		for k := range st.r {
			if w := linalg.InfNormDiff(st.r[k], rPrev[k]); w > witness {
				witness = w
			}
		}
		increments = append(increments, witness)

		if cfg.Observer != nil {
			cfg.Observer(iter, utils.DenseToMatrix(st.x), utils.DenseToMatrix(st.a),
				noisyCostTerms(d, st, lambda, tau, cfg.ListEtas, norm))
		}

		if witness < tol {
			converged = true
			break
		}
	}

	// Final projection onto the factored form guarantees rank <= rank(L).
	m := mulDense(st.l, st.q.T())

	return types.DecomposeResult{
		M:          utils.DenseToMatrix(m),
		A:          utils.DenseToMatrix(st.a),
		L:          utils.DenseToMatrix(st.l),
		Q:          utils.DenseToMatrix(st.q),
		Iterations: iterations,
		Converged:  converged,
		Increments: increments,
	}, nil
}

// newNoisyState allocates the working matrices and precomputes the lag
// operators and their weighted Gram sum HHᵀ. The R/Y' auxiliaries only
// exist in the L1 variant.
func newNoisyState(d *mat.Dense, rows, cols, rank int, periods []int, etas []float64, norm types.NormKind) *noisyState {
	st := &noisyState{
		x:   cloneDense(d),
		a:   mat.NewDense(rows, cols, nil),
		l:   onesDense(rows, rank),
		q:   onesDense(cols, rank),
		y:   mat.NewDense(rows, cols, nil),
		hht: mat.NewDense(cols, cols, nil),
	}
	for k, p := range periods {
		h := linalg.ToeplitzColumn(p, cols)
		st.h = append(st.h, h)
		if norm == types.NormL1 {
			st.r = append(st.r, onesDense(rows, cols-p))
			st.yAux = append(st.yAux, onesDense(rows, cols-p))
		}
		st.hht.Add(st.hht, scaleDense(etas[k], mulDense(h, h.T())))
	}
	return st
}

// noisySchedule resolves the ADMM penalty schedule, substituting the
// documented constants for any field left at zero.
func noisySchedule(cfg types.NoisyConfig) (rho, mu0, muBar float64) {
	rho = cfg.Rho
	if rho == 0 {
		rho = types.DefaultRho
	}
	mu0 = cfg.Mu0
	if mu0 == 0 {
		mu0 = types.DefaultMu0
	}
	muBar = cfg.MuBar
	if muBar == 0 {
		muBar = types.DefaultMuBar
	}
	return rho, mu0, muBar
}

// noisyCostTerms evaluates the individual terms of the Noisy objective at
// the current iterate, for Observer callbacks. It is only computed when an
// Observer is installed.
func noisyCostTerms(d *mat.Dense, st *noisyState, lambda, tau float64, etas []float64, norm types.NormKind) types.CostTerms {
	residual := subDense(subDense(d, st.x), st.a)
	frRes := linalg.FrobeniusNorm(residual)
	frL := linalg.FrobeniusNorm(st.l)
	frQ := linalg.FrobeniusNorm(st.q)

	var temporal float64
	for k, h := range st.h {
		xh := mulDense(st.x, h)
		if norm == types.NormL1 {
			temporal += etas[k] * linalg.L1Norm(xh)
		} else {
			fr := linalg.FrobeniusNorm(xh)
			temporal += etas[k] * fr * fr / 2
		}
	}

	return types.CostTerms{
		AnomalyL1:    lambda * linalg.L1Norm(st.a),
		FactorNorm:   tau * (frL*frL + frQ*frQ) / 2,
		NoiseTerm:    frRes * frRes / 2,
		TemporalCost: temporal,
	}
}

// validateSchedule checks the penalty schedule invariants mu0 > 0,
// muBar >= mu0 and rho > 1.
func validateSchedule(rho, mu0, muBar float64) error {
	if mu0 <= 0 {
		return types.NewInvalidParameterError("mu0 must be positive")
	}
	if muBar < mu0 {
		return types.NewInvalidParameterError("mu_bar must not be smaller than mu0")
	}
	if rho <= 1 {
		return types.NewInvalidParameterError("rho must be greater than 1")
	}
	return nil
}
