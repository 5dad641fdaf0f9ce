// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vof implements the diffuse-interface volume-of-fluid
// subsystem: corner gradients, cell normals and intercepts, curvature,
// donor-cell face fluxes, and the Gauss-Legendre quadrature they all
// share.
package vof

import "math"

// GaussNodes holds the N Gauss-Legendre nodes and weights on [-1/2, 1/2],
// used by both the intercept Newton iteration and the face-flux
// quadrature so the two share one notion of "how the diffuse
// indicator is integrated over a cell or face".
type GaussNodes struct {
	X []float64 // nodes, len N
	W []float64 // weights, len N
}

// NewGaussNodes constructs the N-point rule via: (a) the Legendre
// three-term recurrence L_N = ((2N-1)/N)*x*L_{N-1} - ((N-1)/N)*L_{N-2};
// (b) bracketing each root by stepping x from -1 in increments of
// (1/100N)^2 and detecting a sign change; (c) Newton-with-deflation
// refinement using the already-found roots; (d) weights
// 2*(1-x^2)/(N*L_{N-1}(x))^2, which is 2/((1-x^2)*L_N'(x)^2) at a root of
// L_N; (e) an affine map from [-1,1] to [-1/2,1/2] (weights halved, so
// they sum to 1).
func NewGaussNodes(n int) *GaussNodes {
	roots := findLegendreRoots(n)
	g := &GaussNodes{X: make([]float64, n), W: make([]float64, n)}
	for i, x := range roots {
		_, lnm1 := legendre(n, x)
		w := 2.0 * (1 - x*x) / (float64(n*n) * lnm1 * lnm1)
		g.X[i] = 0.5 * x
		g.W[i] = 0.5 * w
	}
	return g
}

// legendre evaluates L_n(x) and L_{n-1}(x) via the stated recurrence.
func legendre(n int, x float64) (ln, lnm1 float64) {
	if n == 0 {
		return 1, 0
	}
	lm2, lm1 := 1.0, x
	if n == 1 {
		return x, 1
	}
	for k := 2; k <= n; k++ {
		lk := ((2*float64(k)-1)*x*lm1 - (float64(k)-1)*lm2) / float64(k)
		lm2, lm1 = lm1, lk
	}
	return lm1, lm2
}

func findLegendreRoots(n int) []float64 {
	roots := make([]float64, 0, n)
	step := 1.0 / (100.0 * float64(n)) / (100.0 * float64(n))
	prev, prevVal := -1.0, mustEval(n, -1.0)
	for x := -1.0 + step; x <= 1.0+step/2; x += step {
		val := mustEval(n, x)
		if prevVal == 0 || (prevVal < 0) != (val < 0) {
			root := refineWithDeflation(n, (prev+x)/2, roots)
			roots = append(roots, root)
			if len(roots) == n {
				break
			}
		}
		prev, prevVal = x, val
	}
	return roots
}

func mustEval(n int, x float64) float64 {
	ln, _ := legendre(n, x)
	return ln
}

// refineWithDeflation runs Newton's method on L_n starting from x0,
// deflating the already-found roots so the iteration converges to a new
// one even when roots are close together: correction = (L_n/L_n') /
// (1 - (L_n/L_n') * sum_{j<i} 1/(x - x_j)), the standard
// deflated-Newton update x_{k+1} = x_k - f/(f' - f*sum(1/(x-x_j))).
func refineWithDeflation(n int, x0 float64, found []float64) float64 {
	x := x0
	for iter := 0; iter < 100; iter++ {
		ln, lnm1 := legendre(n, x)
		dln := float64(n) / (x*x - 1) * (x*ln - lnm1)
		sum := 0.0
		for _, xj := range found {
			sum += 1.0 / (x - xj)
		}
		denom := dln - ln*sum
		if denom == 0 {
			break
		}
		dx := ln / denom
		x -= dx
		if math.Abs(dx) < 1e-15 {
			break
		}
	}
	return x
}
