/*
* Block profile (entropy and autocorrelation per block) module
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

package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

var ErrNoBlocks = errors.New("analysis: no complete block was profiled")

// BlockProfiler splits a stream into fixed-size blocks and records the
// entropy and the mean absolute autocorrelation of every block. A trailing
// block shorter than the block size is ignored.
type BlockProfiler struct {
	blockSize int
	maxLag    int
	logger    *zap.Logger

	pending     []byte
	entropies   []float64
	autocorrs   []float64
	centred     []float64
	correlation []float64
}

type ProfileSummary struct {
	Blocks    int
	BlockSize int

	EntropyMean   float64
	EntropyStdDev float64
	EntropyMin    float64
	EntropyMax    float64

	// Mean absolute lag correlation over lags 1..MaxLag-1, averaged per block.
	MaxLag         int
	AutocorrMean   float64
	AutocorrStdDev float64
}

func NewBlockProfiler(blockSize, maxLag int, logger *zap.Logger) *BlockProfiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLag > blockSize {
		maxLag = blockSize
	}
	return &BlockProfiler{
		blockSize: blockSize,
		maxLag:    maxLag,
		logger:    logger,
		pending:   make([]byte, 0, blockSize),
		centred:   make([]float64, blockSize),
	}
}

func (p *BlockProfiler) Write(data []byte) (int, error) {
	written := len(data)
	for len(data) > 0 {
		room := p.blockSize - len(p.pending)
		if room > len(data) {
			room = len(data)
		}
		p.pending = append(p.pending, data[:room]...)
		data = data[room:]
		if len(p.pending) == p.blockSize {
			if err := p.profile(p.pending); err != nil {
				return written - len(data), err
			}
			p.pending = p.pending[:0]
		}
	}
	return written, nil
}

func (p *BlockProfiler) profile(block []byte) error {
	var counts [256]uint64
	for _, b := range block {
		counts[b]++
	}
	p.entropies = append(p.entropies, blockEntropy(&counts, len(block)))

	corr, err := p.autoCorrelation(block)
	if err != nil {
		return fmt.Errorf("block %d: %w", len(p.autocorrs), err)
	}
	p.autocorrs = append(p.autocorrs, corr)
	return nil
}

func blockEntropy(counts *[256]uint64, n int) float64 {
	var entropy float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// autoCorrelation is the mean of |corr(x[lag:], x[:n-lag])| for every lag
// from 1 to maxLag-1 on mean-centred values.
func (p *BlockProfiler) autoCorrelation(block []byte) (float64, error) {
	var sum float64
	for _, b := range block {
		sum += float64(b)
	}
	mean := sum / float64(len(block))
	centred := p.centred[:len(block)]
	for i, b := range block {
		centred[i] = float64(b) - mean
	}

	p.correlation = p.correlation[:0]
	for lag := 1; lag < p.maxLag; lag++ {
		correlation, err := stats.Correlation(centred[lag:], centred[:len(centred)-lag])
		if err != nil {
			p.logger.Warn("autocorrelation calc error", zap.Int("lag", lag), zap.Error(err))
			continue
		}
		p.correlation = append(p.correlation, math.Abs(correlation))
	}
	if len(p.correlation) == 0 {
		return 0, nil
	}
	return stats.Mean(p.correlation)
}

// Summary aggregates the profiled blocks.
func (p *BlockProfiler) Summary() (*ProfileSummary, error) {
	if len(p.entropies) == 0 {
		return nil, ErrNoBlocks
	}
	summary := &ProfileSummary{
		Blocks:    len(p.entropies),
		BlockSize: p.blockSize,
		MaxLag:    p.maxLag,
	}

	var err error
	if summary.EntropyMean, err = stats.Mean(p.entropies); err != nil {
		return nil, err
	}
	if summary.EntropyStdDev, err = stats.StandardDeviation(p.entropies); err != nil {
		return nil, err
	}
	if summary.EntropyMin, err = stats.Min(p.entropies); err != nil {
		return nil, err
	}
	if summary.EntropyMax, err = stats.Max(p.entropies); err != nil {
		return nil, err
	}
	if summary.AutocorrMean, err = stats.Mean(p.autocorrs); err != nil {
		return nil, err
	}
	if summary.AutocorrStdDev, err = stats.StandardDeviation(p.autocorrs); err != nil {
		return nil, err
	}
	return summary, nil
}
