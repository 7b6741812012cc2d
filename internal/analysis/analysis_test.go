/*
* Supplementary analyses tests
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
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/BurntSushi/rure-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestKsTest(t *testing.T) {
	t.Run("Uniform", func(t *testing.T) {
		counts := make([]uint64, 256)
		for i := range counts {
			counts[i] = 4
		}
		res := KsTest(counts, 1024)
		assert.InDelta(t, 0.0, res.Statistic, 1e-12)
		assert.InDelta(t, 1.63/32, res.CriticalValue001, 1e-12)
		assert.InDelta(t, 1.36/32, res.CriticalValue005, 1e-12)
		assert.Equal(t, uint64(1024), res.Samples)
	})

	t.Run("AllZeroBytes", func(t *testing.T) {
		counts := make([]uint64, 256)
		counts[0] = 100
		res := KsTest(counts, 100)
		assert.InDelta(t, 255.0/256, res.Statistic, 1e-12)
		assert.Equal(t, 0, res.MaxDiffPosition)
	})

	t.Run("AllHighBytes", func(t *testing.T) {
		counts := make([]uint64, 256)
		counts[255] = 100
		res := KsTest(counts, 100)
		assert.InDelta(t, 255.0/256, res.Statistic, 1e-12)
		assert.Equal(t, 254, res.MaxDiffPosition)
	})

	t.Run("Bits", func(t *testing.T) {
		res := KsTest([]uint64{3, 1}, 4)
		assert.InDelta(t, 0.25, res.Statistic, 1e-12)
		assert.Equal(t, 0, res.MaxDiffPosition)
	})

	t.Run("Empty", func(t *testing.T) {
		res := KsTest(make([]uint64, 256), 0)
		assert.Zero(t, res.Statistic)
		assert.Zero(t, res.CriticalValue001)
	})
}

func TestBlockProfiler(t *testing.T) {
	t.Run("ConstantBlocks", func(t *testing.T) {
		p := NewBlockProfiler(64, 8, zaptest.NewLogger(t))
		n, err := p.Write(bytes.Repeat([]byte{9}, 64*3+10))
		require.NoError(t, err)
		assert.Equal(t, 64*3+10, n)

		summary, err := p.Summary()
		require.NoError(t, err)
		assert.Equal(t, 3, summary.Blocks)
		assert.Equal(t, 64, summary.BlockSize)
		assert.Equal(t, 0.0, summary.EntropyMean)
		assert.Equal(t, 0.0, summary.EntropyStdDev)
		assert.Equal(t, 0.0, summary.AutocorrMean)
	})

	t.Run("SplitWrites", func(t *testing.T) {
		data := make([]byte, 256)
		for i := range data {
			data[i] = byte(i)
		}
		p := NewBlockProfiler(256, 4, nil)
		for i := 0; i < len(data); i += 10 {
			end := i + 10
			if end > len(data) {
				end = len(data)
			}
			_, err := p.Write(data[i:end])
			require.NoError(t, err)
		}

		summary, err := p.Summary()
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Blocks)
		assert.InDelta(t, 8.0, summary.EntropyMean, 1e-12)
		assert.Equal(t, summary.EntropyMin, summary.EntropyMax)
		// A ramp is almost perfectly correlated with itself at small lags.
		assert.Greater(t, summary.AutocorrMean, 0.9)
	})

	t.Run("RandomData", func(t *testing.T) {
		data := make([]byte, 1<<16)
		rand.New(rand.NewSource(3)).Read(data)
		p := NewBlockProfiler(1<<12, 50, zaptest.NewLogger(t))
		_, err := p.Write(data)
		require.NoError(t, err)

		summary, err := p.Summary()
		require.NoError(t, err)
		assert.Equal(t, 16, summary.Blocks)
		assert.InDelta(t, 7.95, summary.EntropyMean, 0.05)
		assert.LessOrEqual(t, summary.EntropyMin, summary.EntropyMean)
		assert.GreaterOrEqual(t, summary.EntropyMax, summary.EntropyMean)
		assert.Less(t, summary.AutocorrMean, 0.05)
		assert.False(t, math.IsNaN(summary.AutocorrStdDev))
	})

	t.Run("NoCompleteBlock", func(t *testing.T) {
		p := NewBlockProfiler(1024, 50, nil)
		_, err := p.Write(make([]byte, 1000))
		require.NoError(t, err)
		_, err = p.Summary()
		assert.ErrorIs(t, err, ErrNoBlocks)
	})
}

func TestSignatureScanner(t *testing.T) {
	s, err := NewSignatureScanner(DefaultSignatures)
	require.NoError(t, err)

	var data []byte
	data = append(data, 0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a)
	data = append(data, make([]byte, 16)...)
	data = append(data, 0x1f, 0x8b, 0x08, 0x00)
	data = append(data, 0x7f, 'E', 'L', 'F')

	n, err := s.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	found := s.Found()
	assert.Equal(t, 1, found["PNG image"])
	assert.Equal(t, 1, found["GZIP Archive file"])
	assert.Equal(t, 1, found["ELF executable"])
	assert.Equal(t, 0, found["RAR archive"])
	assert.Equal(t, 3, s.Total())
	assert.InDelta(t, 3/(float64(len(data))/1048576), s.Density(int64(len(data))), 1e-6)
	assert.Zero(t, s.Density(0))
}

func TestSignatureScannerIgnoresNibbleShift(t *testing.T) {
	s, err := NewSignatureScanner([]Signature{{"GZIP", "(?i)(1f8b08)"}})
	require.NoError(t, err)

	// Hex "01f8b080" contains "1f8b08" starting at an odd position only.
	_, err = s.Write([]byte{0x01, 0xf8, 0xb0, 0x80})
	require.NoError(t, err)
	assert.Zero(t, s.Total())
}

func TestSignatureScannerAlignedMatchAfterShiftedOne(t *testing.T) {
	s, err := NewSignatureScanner([]Signature{{"repeat", "(?i)(abab)"}})
	require.NoError(t, err)

	// Hex "0ababab0": the leftmost match starts at offset 1, the aligned one
	// at offset 2 overlaps it.
	_, err = s.Write([]byte{0x0a, 0xba, 0xba, 0xb0})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total())
}

func TestFindBytesPattern(t *testing.T) {
	regex, err := rure.Compile("(?i)(1f8b)")
	require.NoError(t, err)

	tests := []struct {
		data string
		want int
	}{
		{"", 0},
		{"1f8b", 1},
		{"1F8B1f8b", 2},
		{"01f8b0", 0},
		{"01f8b01f8b", 1},
		{"001f8b", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FindBytesPattern(tt.data, regex), "data=%q", tt.data)
	}
}

func TestEncryptionSignatures(t *testing.T) {
	s, err := NewSignatureScanner(EncryptionSignatures)
	require.NoError(t, err)

	header := []byte{'L', 'U', 'K', 'S', 0xba, 0xbe, 0x00, 0x02}
	data := append(make([]byte, 512), header...)
	data = append(data, make([]byte, 512)...)
	_, err = s.Write(data)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Found()["LUKSv2"])
	assert.Equal(t, 0, s.Found()["LUKSv1"])
	assert.Equal(t, 1, s.Total())
}

func TestSignatureScannerBadPattern(t *testing.T) {
	_, err := NewSignatureScanner([]Signature{{"broken", "(?i)(1f8b"}})
	assert.Error(t, err)
}
