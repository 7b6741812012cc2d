/*
* Chi-square probability module
* Copyright (C) 2025  Artem Stefankiv
*
* This program is free software: you can redistribute it and/or modify
* it under the terms of the GNU General Public License as published by
* the Free Software Foundation, either version 3 of the License, or
* (at your option) any later version.
*
* This program is distributed in the hope that it will be useful,
* but WITHOUT ANY WARRANTY; without even the implied warranty of
* MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
* GNU General Public License for more details.
*
* You should have received a copy of the GNU General Public License
* along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package chisq converts a chi-square statistic into the probability that a
// truly random sequence would exceed it.
package chisq

import (
	"errors"
	"fmt"
	"math"
)

// MaxDegreesOfFreedom bounds the length of the series evaluated by Probability.
const MaxDegreesOfFreedom = 1 << 20

var ErrDomain = errors.New("chisq: argument out of domain")

// Probability returns P(X² >= x) for a chi-square distribution with df
// degrees of freedom, the regularized upper incomplete gamma Q(df/2, x/2).
//
// Below the mean (a = x/2 < df/2) it is 1 - P(df/2, a), with P from its
// ascending series. Q is close to 1 there and rounding 1 - P keeps it
// monotone in x. Above the mean the finite closed form for integer df is used:
//
//	even df: Q = e^-a * sum_{k=0}^{df/2-1} a^k / k!
//	odd df:  Q = erfc(sqrt(a)) + e^-a * sum_{k=1}^{(df-1)/2} a^(k-1/2) / Γ(k+1/2)
//
// Both are evaluated in the log domain so neither a^k nor e^-a has to be
// representable on its own.
func Probability(x float64, df int) (float64, error) {
	if df < 1 || df > MaxDegreesOfFreedom {
		return 0, fmt.Errorf("%w: degrees of freedom %d", ErrDomain, df)
	}
	if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("%w: chi-square %v", ErrDomain, x)
	}
	a := x / 2
	if a == 0 {
		return 1, nil
	}
	s := float64(df) / 2
	if a < s {
		return clamp(1 - lowerRegularized(s, a, df+64)), nil
	}
	return clamp(upperClosedForm(a, df)), nil
}

// lowerRegularized is P(s, a) = e^-a a^s / Γ(s+1) * sum_n a^n / ((s+1)...(s+n)).
// For a < s the terms shrink geometrically, maxTerms only bounds the loop.
func lowerRegularized(s, a float64, maxTerms int) float64 {
	term, sum := 1.0, 1.0
	for n := 1; n <= maxTerms; n++ {
		term *= a / (s + float64(n))
		sum += term
		if term <= sum*0x1p-54 {
			break
		}
	}
	lg, _ := math.Lgamma(s + 1)
	return math.Exp(s*math.Log(a) - a - lg + math.Log(sum))
}

func upperClosedForm(a float64, df int) float64 {
	logA := math.Log(a)

	var q float64
	var k, last float64
	if df%2 == 0 {
		k, last = 0, float64(df/2-1)
	} else {
		q = math.Erfc(math.Sqrt(a))
		k, last = 0.5, float64(df-1)/2-0.5
	}

	logSum := math.Inf(-1)
	for ; k <= last; k++ {
		lg, _ := math.Lgamma(k + 1)
		logSum = logAddExp(logSum, k*logA-lg)
	}
	return q + math.Exp(logSum-a)
}

// logAddExp returns log(e^x + e^y).
func logAddExp(x, y float64) float64 {
	if math.IsInf(x, -1) {
		return y
	}
	if x < y {
		x, y = y, x
	}
	return x + math.Log1p(math.Exp(y-x))
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
