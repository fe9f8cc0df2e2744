// Copyright 2025 bitjungle - Rune Mathisen. All rights reserved.
// Use of this source code is governed by the MIT license
// that can be found in the LICENSE file.
// The author respectfully requests that it not be used for
// military, warfare, or surveillance applications.

package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestPCPParamScale(t *testing.T) {
	d := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	mu, lambda := PCPParamScale(d)
	assert.InDelta(t, 4.0/(4*4), mu, 1e-12)
	assert.InDelta(t, 1/math.Sqrt(2), lambda, 1e-12)
}

func TestNoisyParamScale(t *testing.T) {
	d := mat.NewDense(3, 5, []float64{
		5, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 0.0001, 0, 0,
	})
	rank, tau, lambda := NoisyParamScale(d)
	assert.GreaterOrEqual(t, rank, 1)
	assert.InDelta(t, 1/math.Sqrt(5), tau, 1e-12)
	assert.Equal(t, tau, lambda)
}
