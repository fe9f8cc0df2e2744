// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package types

// Variant selects which decomposition engine the facade dispatches to.
type Variant string

const (
	// VariantPCP is the canonical Principal Component Pursuit decomposition.
	VariantPCP Variant = "pcp"
	// VariantNoisy is the factored, noise-tolerant decomposition with
	// optional temporal penalties.
	VariantNoisy Variant = "noisy"
)

// NormKind selects the dissipation form used for the Noisy solver's temporal
// penalty terms.
type NormKind string

const (
	// NormL1 penalises the temporal residual with an L1 (sparse) norm,
	// introducing auxiliary residual variables R[k].
	NormL1 NormKind = "L1"
	// NormL2 penalises the temporal residual with a squared Frobenius norm.
	NormL2 NormKind = "L2"
)

// MissingAnomalyPolicy controls how the Noisy and PCP solvers treat the
// anomaly channel on entries that were never observed (¬Ω).
type MissingAnomalyPolicy string

const (
	// MissingAnomalyAbsorb sets A = D - M on unobserved entries, so the
	// reconstruction residual there is absorbed into the anomaly channel.
	// This is the canonical policy used throughout the Noisy solver.
	MissingAnomalyAbsorb MissingAnomalyPolicy = "absorb"
	// MissingAnomalyZero sets A = 0 on unobserved entries instead.
	MissingAnomalyZero MissingAnomalyPolicy = "zero"
)

// WarmStartMethod selects how NaN entries of the packed observation matrix
// are filled before ADMM iteration begins.
type WarmStartMethod string

const (
	// WarmStartLinear fills gaps by linear interpolation between the
	// nearest finite neighbours along an axis; this is the canonical method.
	WarmStartLinear WarmStartMethod = "linear"
	// WarmStartMean fills a column's gaps with that column's mean of
	// observed values.
	WarmStartMean WarmStartMethod = "mean"
	// WarmStartMedian fills a column's gaps with that column's median of
	// observed values.
	WarmStartMedian WarmStartMethod = "median"
)

// Default ADMM schedule constants for the Noisy solver, exposed on
// NoisyConfig as advanced, optional overrides. Behavioural parity with the
// canonical algorithm requires leaving these at their defaults.
const (
	DefaultRho   = 1.1
	DefaultMu0   = 1e-6
	DefaultMuBar = 1e4 // DefaultMu0 * 1e10
)

// DefaultMaxIter and DefaultTol are the iteration cap and convergence
// tolerance used when a config leaves them unset.
const (
	DefaultMaxIter = 10_000
	DefaultTol     = 1e-6
)

// PCPConfig holds the tuning parameters for the PCP-RPCA solver. Mu and
// Lambda are nil when unset, signalling the solver to derive them from
// the PCP scaling heuristic (core.PCPParamScale).
type PCPConfig struct {
	Mu             *float64
	Lambda         *float64
	MaxIter        int
	Tol            float64
	MissingAnomaly MissingAnomalyPolicy
	Observer       Observer
}

// NoisyConfig holds the tuning parameters for the Noisy-RPCA solver.
type NoisyConfig struct {
	Norm           NormKind
	Rank           *int
	Tau            *float64
	Lambda         *float64
	ListPeriods    []int
	ListEtas       []float64
	MaxIter        int
	Tol            float64
	MissingAnomaly MissingAnomalyPolicy
	// Rho, Mu0 and MuBar override the ADMM penalty schedule. Zero means
	// "use the documented default".
	Rho      float64
	Mu0      float64
	MuBar    float64
	Observer Observer
}

// RPCAConfig configures the DecomposeSignal facade: it selects the variant
// and carries every option from both PCPConfig and NoisyConfig, plus the
// reshape-related settings that only the facade needs.
type RPCAConfig struct {
	Variant Variant

	// Period reshapes a 1-D signal into (period, ceil(len/period)) before
	// solving. Ignored for 2-D input.
	Period int

	// Shared solver parameters; nil pointers are filled from the scaling
	// heuristics (core.PCPParamScale, core.NoisyParamScale).
	Rank   *int
	Tau    *float64
	Lambda *float64
	Mu     *float64

	ListPeriods []int
	ListEtas    []float64
	Norm        NormKind

	MaxIter int
	Tol     float64

	MissingAnomaly MissingAnomalyPolicy
	WarmStart      WarmStartMethod

	Rho   float64
	Mu0   float64
	MuBar float64

	Observer Observer
}

// Input wraps either a 1-D signal or a 2-D matrix for the DecomposeSignal
// facade. Exactly one of Vector or Matrix should be set.
type Input struct {
	Vector []float64
	Matrix Matrix
}

// IsVector reports whether this Input carries a 1-D signal.
func (in Input) IsVector() bool {
	return in.Vector != nil
}

// Output mirrors Input's shape: a 1-D result when the facade was given a
// 1-D signal, a 2-D result otherwise.
type Output struct {
	Vector []float64
	Matrix Matrix
}

// CostTerms reports the individual terms of the Noisy objective at one
// iteration, for use by an Observer callback. The Noisy solver evaluates
// them at its working low-rank iterate X, not at the projection L Q^T.
type CostTerms struct {
	AnomalyL1    float64 // lam * Phi(A)
	FactorNorm   float64 // tau * (||L||_F^2 + ||Q||_F^2) / 2
	NoiseTerm    float64 // ||D - X - A||_F^2 / 2
	TemporalCost float64 // sum_k eta_k * Psi(X H_k)
}

// Observer is invoked once per ADMM iteration with the current iterate. The
// core performs no I/O itself; callers that want logging or plotting
// diagnostics supply an Observer.
type Observer func(iter int, X, A Matrix, cost CostTerms)

// Diagnostics carries informational, non-fatal findings from a solve.
type Diagnostics struct {
	// CostIncreased is true when the PCP post-check found that
	// ||M||_* + lam||A||_1 exceeded ||D||_* by more than the tolerance.
	CostIncreased bool
	InitialCost   float64
	FinalCost     float64
}

// DecomposeResult is the output of a PCP or Noisy decomposition.
type DecomposeResult struct {
	M Matrix
	A Matrix
	// L and Q are the factored low-rank basis; nil for PCP.
	L Matrix
	Q Matrix

	Iterations int
	// Converged is false when the solver stopped because it reached
	// MaxIter without the error dropping below Tol. This is not an error
	// condition; callers that care can branch on the flag.
	Converged bool
	// Increments is the per-iteration convergence witness, one entry per
	// completed iteration.
	Increments []float64

	Diagnostics Diagnostics
}
