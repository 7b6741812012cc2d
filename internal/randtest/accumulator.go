/*
* Randomness test accumulator
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

// Package randtest accumulates a byte or bit stream and derives entropy,
// chi-square, mean, a Monte Carlo estimate of Pi and the serial correlation
// coefficient of the samples.
package randtest

import (
	"errors"
	"math"
)

var (
	ErrEmptyStream = errors.New("randtest: no samples were ingested")
	ErrFinalized   = errors.New("randtest: accumulator already finalized")
)

// Accumulator is not safe for concurrent use.
type Accumulator struct {
	binary   bool
	alphabet int
	counts   [256]uint64
	total    uint64

	// Exact integer sums. For 2^40 bytes they stay below 2^56.
	sum      uint64
	sumSq    uint64
	sumPairs uint64

	seen  bool
	first byte
	last  byte

	monte monteCarlo
	done  bool
}

// New returns an accumulator for byte samples, or for bit samples when binary
// is set.
func New(binary bool) *Accumulator {
	a := &Accumulator{binary: binary, alphabet: 256}
	if binary {
		a.alphabet = 2
		a.monte = newMonteCarlo(1)
	} else {
		a.monte = newMonteCarlo(8)
	}
	return a
}

// Binary reports whether the accumulator treats input as a bit stream.
func (a *Accumulator) Binary() bool {
	return a.binary
}

// Total returns the number of samples ingested so far.
func (a *Accumulator) Total() uint64 {
	return a.total
}

// Add ingests one input byte: one sample in byte mode, eight in bit mode.
func (a *Accumulator) Add(b byte) {
	if a.done {
		panic("randtest: Add called after End")
	}
	if !a.binary {
		a.sample(b)
		return
	}
	for _, bit := range Bits(b) {
		a.sample(bit)
	}
}

// Write implements io.Writer so the accumulator can sit behind a scanner.
func (a *Accumulator) Write(p []byte) (int, error) {
	for _, b := range p {
		a.Add(b)
	}
	return len(p), nil
}

func (a *Accumulator) sample(c byte) {
	v := uint64(c)
	a.counts[c]++
	a.total++

	if a.seen {
		a.sumPairs += uint64(a.last) * v
	} else {
		a.seen = true
		a.first = c
	}
	a.last = c
	a.sum += v
	a.sumSq += v * v

	a.monte.add(c)
}

// End computes the metrics. The accumulator cannot be used afterwards.
func (a *Accumulator) End() (*Result, error) {
	if a.done {
		return nil, ErrFinalized
	}
	if a.total == 0 {
		return nil, ErrEmptyStream
	}
	a.done = true

	n := float64(a.total)
	res := &Result{
		Samples:         a.total,
		Binary:          a.binary,
		Counts:          make([]uint64, a.alphabet),
		Mean:            float64(a.sum) / n,
		MonteCarloPi:    a.monte.estimate(),
		MonteCarloPairs: a.monte.pairs,
	}
	copy(res.Counts, a.counts[:a.alphabet])

	expected := n / float64(a.alphabet)
	var distinct int
	for _, c := range res.Counts {
		d := float64(c) - expected
		res.ChiSquare += d * d / expected
		if c == 0 {
			continue
		}
		distinct++
		p := float64(c) / n
		res.Entropy -= p * math.Log2(p)
	}

	// With a single distinct value the denominator is exactly zero, so the
	// check is made on the table instead of on rounded floats.
	if distinct > 1 {
		sumPairs := float64(a.sumPairs + uint64(a.last)*uint64(a.first))
		sum := float64(a.sum)
		den := n*float64(a.sumSq) - sum*sum
		if den != 0 {
			res.SerialCorrelation = Metric{Value: (n*sumPairs - sum*sum) / den, Valid: true}
		}
	}

	return res, nil
}
