/*
* ISO 8859-1 character helper tests
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

package latin1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in, want byte
	}{
		{'A', 'a'},
		{'Z', 'z'},
		{'a', 'a'},
		{'0', '0'},
		{'@', '@'},
		{'[', '['},
		{0xC0, 0xE0}, // À
		{0xD6, 0xF6}, // Ö
		{0xD7, 0xD7}, // ×
		{0xD8, 0xF8}, // Ø
		{0xDE, 0xFE}, // Þ
		{0xDF, 0xDF}, // ß
		{0xFF, 0xFF}, // ÿ
		{0x00, 0x00},
		{0x80, 0x80},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "byte %#02x", tt.in)
	}
}

func TestFoldBytes(t *testing.T) {
	p := []byte("Hello, WORLD \xC9t\xC9")
	FoldBytes(p)
	assert.Equal(t, []byte("hello, world \xE9t\xE9"), p)
}

func TestFoldIsIdempotent(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := Fold(byte(i))
		assert.Equal(t, b, Fold(b), "byte %#02x", i)
	}
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, 'A', Printable('A'))
	assert.Equal(t, '~', Printable('~'))
	assert.Equal(t, 'é', Printable(0xE9))
	assert.Equal(t, ' ', Printable(' '))
	assert.Equal(t, ' ', Printable(0x00))
	assert.Equal(t, ' ', Printable('\n'))
	assert.Equal(t, ' ', Printable(0x7F))
	assert.Equal(t, ' ', Printable(0x85))
	assert.Equal(t, ' ', Printable(0xA0))
}
