// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.

// Package types provides the core data structures and interfaces for the gorpca
// decomposition engine. It defines the fundamental types used throughout the
// library for matrix representation, solver configuration, and results.
//
// # Core Types
//
// The package defines several essential types:
//
//   - Matrix: 2D slice representation of numerical data, NaN marks missing cells
//   - Mask: 2D slice of booleans marking which entries of a Matrix were observed
//   - RPCAConfig: Configuration for the DecomposeSignal facade
//   - DecomposeResult: Results from a PCP or Noisy decomposition
//
// # Data Structures
//
// Matrix operations use row-major order where data[i][j] represents row i, column j.
//
// # Configuration
//
// RPCAConfig selects between the PCP and Noisy variants and carries the
// optional tuning parameters; a nil Rank, Tau, Lambda or Mu is filled in from
// the input data by the scaling heuristics before a solve begins, and a zero
// MaxIter or Tol takes DefaultMaxIter or DefaultTol.
//
// # Error Handling
//
// The package provides a structured RPCAError type for consistent error
// reporting across the solvers. Shape-mismatch errors carry the two shapes
// and numeric-failure errors the iteration index in their Context map.
//
// # Thread Safety
//
// Types in this package are plain data with no internal locking. The solvers
// that consume them keep no shared mutable state: each decomposition call
// owns its working matrices, so independent calls may run concurrently.
package types
