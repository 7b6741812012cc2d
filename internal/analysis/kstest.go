/*
* Kolmogorov test module
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

// Package analysis holds whole-stream checks that complement the randtest
// metrics: a Kolmogorov-Smirnov distance, a per-block profile and a file
// signature density.
package analysis

import (
	"math"
)

type KsResult struct {
	Statistic        float64
	MaxDiffPosition  int
	Samples          uint64
	CriticalValue001 float64
	CriticalValue005 float64
}

// KsTest compares the empirical CDF of an occurrence table with the uniform
// CDF over the same alphabet.
func KsTest(counts []uint64, total uint64) KsResult {
	result := KsResult{Samples: total}
	if total == 0 || len(counts) == 0 {
		return result
	}

	n := float64(total)
	var empiricalCumSum, theoreticalCumSum float64
	step := 1 / float64(len(counts))

	for i, c := range counts {
		empiricalCumSum += float64(c) / n
		theoreticalCumSum += step
		diff := math.Abs(empiricalCumSum - theoreticalCumSum)
		if diff > result.Statistic {
			result.Statistic = diff
			result.MaxDiffPosition = i
		}
	}

	result.CriticalValue001 = 1.63 / math.Sqrt(n)
	result.CriticalValue005 = 1.36 / math.Sqrt(n)
	return result
}
