/*
* Signature search (file signature detection) module
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
	"encoding/hex"
	"fmt"
	"maps"

	"github.com/BurntSushi/rure-go"
)

type Signature struct {
	Name string
	// Regex is matched against the lower case hex encoding of the data, so
	// one byte is two characters.
	Regex string
}

// DefaultSignatures lists magic numbers of common container and media
// formats. Random or encrypted data contains almost none of them.
var DefaultSignatures = []Signature{
	{"7-Zip Compressed file", "(?i)(377abcaf271c)"},
	{"Adobe Portable Document Format file", "(?i)(0d0a25504446|25504446)"},
	{"BZIP2 Compressed Archive file", "(?i)(425a68)"},
	{"ELF executable", "(?i)(7f454c46)"},
	{"FLAC audio", "(?i)(664c6143)"},
	{"GZIP Archive file", "(?i)(1f8b08)"},
	{"ISO-9660 CD Disc Image file", "(?i)(4344303031)"},
	{"JPEG image", "(?i)(ffd8ff)(ed|e2|e3|db|e0|e1)"},
	{"JPEG2000 image files", "(?i)(0000000c6a502020)"},
	{"LZ4 archive", "(?i)(02214c18|04224d18)"},
	{"Lzip archive", "(?i)(4c5a4950)"},
	{"Matroska stream", "(?i)(1a45dfa3)"},
	{"Microsoft Office document", "(?i)(d0cf11e0a1b11ae1)"},
	{"MPEG video file", "(?i)(000001b3)"},
	{"Ogg", "(?i)(4f676753)"},
	{"PKZIP Archive file", "(?i)(504b)(0304|0506|0708)"},
	{"PNG image", "(?i)(89504e470d0a1a0a)"},
	{"RAR archive", "(?i)(52617221)"},
	{"RIFF", "(?i)(52494646)(.{8})(57415645|41564920|57454250)"},
	{"RTF file", "(?i)(7b5c72746631)"},
	{"SQLite3 database", "(?i)(53514c69746520666f726d61742033)"},
	{"Tar archive", "(?i)(7573746172003030|7573746172202000)"},
	{"TIFF file", "(?i)(49492a00|4d4d002a)"},
	{"Windows executable", "(?i)(4d5a)(.{116})(50450000)"},
	{"XZ archive", "(?i)(fd377a585a00)"},
	{"ZStandard Archive", "(?i)(28b52ffd)"},
}

// EncryptionSignatures lists volume headers of disk encryption tools. A
// container written by one of them is random apart from its header.
var EncryptionSignatures = []Signature{
	{"BitLocker", "(?i)(eb58902d4656452d46532d0002080000)"},
	{"FileVault v2", "(?i)41505342.{456}0800000000000000"},
	{"FreeBSD GELI", "(?i)(47454f4d3a3a454c49)"},
	{"LUKSv1", "(?i)4c554b53babe0001"},
	{"LUKSv2", "(?i)4c554b53babe0002"},
	{"PGP WDE", "(?i)(eb489050475047554152440000000000)"},
}

type compiledSignature struct {
	name  string
	regex *rure.Regex
}

// SignatureScanner counts signature matches in the data written to it.
// Matches that span two writes are not counted.
type SignatureScanner struct {
	signatures []compiledSignature
	found      map[string]int
	total      int
}

func NewSignatureScanner(signatures []Signature) (*SignatureScanner, error) {
	s := &SignatureScanner{found: make(map[string]int, len(signatures))}
	for _, sig := range signatures {
		regex, err := rure.Compile(sig.Regex)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %s: %w", sig.Name, err)
		}
		s.signatures = append(s.signatures, compiledSignature{name: sig.Name, regex: regex})
		s.found[sig.Name] = 0
	}
	return s, nil
}

func (s *SignatureScanner) Write(data []byte) (int, error) {
	hexData := hex.EncodeToString(data)
	for _, sig := range s.signatures {
		n := FindBytesPattern(hexData, sig.regex)
		s.found[sig.name] += n
		s.total += n
	}
	return len(data), nil
}

// FindBytesPattern counts the non-overlapping matches of regex in a hex
// string that start on a byte boundary.
func FindBytesPattern(data string, regex *rure.Regex) int {
	var count int
	for pos := 0; pos < len(data); {
		start, end, ok := regex.Find(data[pos:])
		if !ok {
			break
		}
		start, end = start+pos, end+pos
		if start%2 != 0 {
			// A nibble-shifted hit may hide an aligned match overlapping it.
			pos = start + 1
			continue
		}
		count++
		pos = max(end, start+2)
		pos += pos % 2
	}
	return count
}

// Found returns the match count per signature name.
func (s *SignatureScanner) Found() map[string]int {
	return maps.Clone(s.found)
}

func (s *SignatureScanner) Total() int {
	return s.total
}

// Density is the number of matches per MiB of scanned data.
func (s *SignatureScanner) Density(scannedBytes int64) float64 {
	if scannedBytes <= 0 {
		return 0
	}
	return float64(s.total) / (float64(scannedBytes) / 1048576.0)
}
