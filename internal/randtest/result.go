/*
* Randomness test results
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

package randtest

import "math"

// Metric is a value that may be undefined for the ingested data, such as the
// serial correlation of a constant stream.
type Metric struct {
	Value float64
	Valid bool
}

type Result struct {
	Samples uint64
	Binary  bool
	// Counts has one entry per alphabet value: 256 for bytes, 2 for bits.
	Counts []uint64

	Entropy           float64
	ChiSquare         float64
	Mean              float64
	MonteCarloPi      Metric
	MonteCarloPairs   uint64
	SerialCorrelation Metric
}

func (r *Result) AlphabetSize() int {
	return len(r.Counts)
}

// DegreesOfFreedom of the chi-square statistic.
func (r *Result) DegreesOfFreedom() int {
	return len(r.Counts) - 1
}

// ExpectedMean is the mean of a perfectly uniform source.
func (r *Result) ExpectedMean() float64 {
	return float64(len(r.Counts)-1) / 2
}

// MaxEntropy is log2 of the alphabet size.
func (r *Result) MaxEntropy() float64 {
	return math.Log2(float64(len(r.Counts)))
}

// Fraction returns the share of samples that had value v.
func (r *Result) Fraction(v int) float64 {
	return float64(r.Counts[v]) / float64(r.Samples)
}

// PiError returns the absolute error of the Monte Carlo estimate and the same
// error as a percentage of Pi.
func (r *Result) PiError() (abs, percent float64) {
	if !r.MonteCarloPi.Valid {
		return math.NaN(), math.NaN()
	}
	abs = math.Abs(math.Pi - r.MonteCarloPi.Value)
	return abs, 100 * abs / math.Pi
}

// CompressionPercent is how much an optimal coder could shrink the input,
// truncated to a whole percent.
func (r *Result) CompressionPercent() int {
	maxEntropy := r.MaxEntropy()
	return int(100 * (maxEntropy - r.Entropy) / maxEntropy)
}
