/*
* ISO 8859-1 character helpers
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

// Package latin1 treats input bytes as ISO 8859-1 characters.
package latin1

import (
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

var lower, printable [256]rune

func init() {
	for i := 0; i < 256; i++ {
		r := charmap.ISO8859_1.DecodeByte(byte(i))
		lower[i] = r
		if unicode.IsUpper(r) {
			if b, ok := charmap.ISO8859_1.EncodeRune(unicode.ToLower(r)); ok {
				lower[i] = rune(b)
			}
		}
		printable[i] = ' '
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			printable[i] = r
		}
	}
}

// Fold maps upper case Latin-1 letters to lower case and leaves every other
// byte unchanged.
func Fold(b byte) byte {
	return byte(lower[b])
}

// FoldBytes folds p in place.
func FoldBytes(p []byte) {
	for i, b := range p {
		p[i] = byte(lower[b])
	}
}

// Printable returns the character for b, or a space for control and blank
// codes.
func Printable(b byte) rune {
	return printable[b]
}
