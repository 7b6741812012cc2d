/*
* Monte Carlo estimation of Pi
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

const (
	// CoordinateBits is the resolution of one Monte Carlo axis.
	CoordinateBits = 24
	// MonteN is the largest coordinate value and the radius of the circle.
	MonteN = 1<<CoordinateBits - 1
)

// monteCarlo packs consecutive samples into (x, y) points and counts the
// ones that land inside the quarter circle of radius MonteN.
type monteCarlo struct {
	width  uint // bits contributed by one sample: 8 for bytes, 1 for bits
	filled uint // bits of the current point collected so far
	x, y   uint64
	inside uint64
	pairs  uint64
}

func newMonteCarlo(width uint) monteCarlo {
	return monteCarlo{width: width}
}

// add appends one sample to the current point. The first CoordinateBits bits
// of a point go into x most significant first, the next ones into y.
func (m *monteCarlo) add(v byte) {
	if m.filled < CoordinateBits {
		m.x = m.x<<m.width | uint64(v)
	} else {
		m.y = m.y<<m.width | uint64(v)
	}
	m.filled += m.width
	if m.filled < 2*CoordinateBits {
		return
	}

	m.pairs++
	if m.x*m.x+m.y*m.y <= MonteN*MonteN {
		m.inside++
	}
	m.x, m.y, m.filled = 0, 0, 0
}

// samplesPerPair is the number of samples consumed by one point.
func (m *monteCarlo) samplesPerPair() uint64 {
	return uint64(2 * CoordinateBits / m.width)
}

func (m *monteCarlo) estimate() Metric {
	if m.pairs == 0 {
		return Metric{}
	}
	return Metric{Value: 4 * float64(m.inside) / float64(m.pairs), Valid: true}
}
