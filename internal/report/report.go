/*
* Report formatting module
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

// Package report renders randomness test results as text or terse CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/Gilah-EnE/ent/internal/analysis"
	"github.com/Gilah-EnE/ent/internal/latin1"
	"github.com/Gilah-EnE/ent/internal/randtest"
)

type Report struct {
	*randtest.Result
	// Probability that a random source exceeds the observed chi-square.
	Probability float64

	KsTest     *analysis.KsResult
	Profile    *analysis.ProfileSummary
	Signatures *SignatureSummary
}

type SignatureSummary struct {
	Density float64
	Total   int
	Found   map[string]int
}

func (r *Report) sampleName() string {
	if r.Binary {
		return "bit"
	}
	return "byte"
}

// WriteText writes the human readable report. With counts set the
// occurrence table of the non-zero values comes first.
func WriteText(w io.Writer, r *Report, counts bool) error {
	p := &printer{w: w}
	samp := r.sampleName()

	if counts {
		p.printf("Value Char Occurrences Fraction\n")
		for v, c := range r.Counts {
			if c == 0 {
				continue
			}
			p.printf("%3d   %c   %10d   %f\n", v, latin1.Printable(byte(v)), c, r.Fraction(v))
		}
		p.printf("\nTotal:    %10d   %f\n\n", r.Samples, 1.0)
	}

	p.printf("Entropy = %f bits per %s.\n", r.Entropy, samp)
	p.printf("\nOptimum compression would reduce the size\n")
	p.printf("of this %d %s file by %d percent.\n\n", r.Samples, samp, r.CompressionPercent())

	p.printf("Chi square distribution for %d samples is %1.2f, and randomly\n", r.Samples, r.ChiSquare)
	switch {
	case r.Probability < 0.0001:
		p.printf("would exceed this value less than 0.01 percent of the times.\n\n")
	case r.Probability > 0.9999:
		p.printf("would exceed this value more than than 99.99 percent of the times.\n\n")
	default:
		p.printf("would exceed this value %1.2f percent of the times.\n\n", r.Probability*100)
	}

	p.printf("Arithmetic mean value of data %ss is %1.4f (%.1f = random).\n", samp, r.Mean, r.ExpectedMean())

	if r.MonteCarloPi.Valid {
		_, percent := r.PiError()
		p.printf("Monte Carlo value for Pi is %1.9f (error %1.2f percent).\n", r.MonteCarloPi.Value, percent)
	} else {
		p.printf("Monte Carlo value for Pi is undefined (too few %ss).\n", samp)
	}

	p.printf("Serial correlation coefficient is ")
	if r.SerialCorrelation.Valid {
		p.printf("%1.6f (totally uncorrelated = 0.0).\n", r.SerialCorrelation.Value)
	} else {
		p.printf("undefined (all values equal!).\n")
	}

	writeSupplements(p, r)
	return p.err
}

func writeSupplements(p *printer, r *Report) {
	if r.KsTest != nil {
		ks := r.KsTest
		p.printf("\nKolmogorov-Smirnov distance from uniform is %f at value %d\n", ks.Statistic, ks.MaxDiffPosition)
		p.printf("(critical value %f at 5 percent, %f at 1 percent).\n", ks.CriticalValue005, ks.CriticalValue001)
	}
	if r.Profile != nil {
		pr := r.Profile
		p.printf("\nBlock profile of %d blocks of %d bytes:\n", pr.Blocks, pr.BlockSize)
		p.printf("  entropy mean %f, std. deviation %f, min %f, max %f bits per byte.\n",
			pr.EntropyMean, pr.EntropyStdDev, pr.EntropyMin, pr.EntropyMax)
		p.printf("  mean absolute autocorrelation (lags 1-%d) %f, std. deviation %f.\n",
			pr.MaxLag-1, pr.AutocorrMean, pr.AutocorrStdDev)
	}
	if r.Signatures != nil {
		s := r.Signatures
		p.printf("\nFile signatures found: %d (%f per megabyte).\n", s.Total, s.Density)
		names := make([]string, 0, len(s.Found))
		for name, n := range s.Found {
			if n > 0 {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		for _, name := range names {
			p.printf("  %s - %d\n", name, s.Found[name])
		}
	}
}

// WriteTerse writes the CSV form. Undefined metrics are empty fields.
func WriteTerse(w io.Writer, r *Report, counts bool) error {
	cw := csv.NewWriter(w)
	samp := r.sampleName()

	records := [][]string{
		{"0", "File-" + samp + "s", "Entropy", "Chi-square", "Mean", "Monte-Carlo-Pi", "Serial-Correlation"},
		{"1", strconv.FormatUint(r.Samples, 10), ftoa(r.Entropy), ftoa(r.ChiSquare), ftoa(r.Mean),
			metric(r.MonteCarloPi), metric(r.SerialCorrelation)},
	}
	if counts {
		records = append(records, []string{"2", "Value", "Occurrences", "Fraction"})
		for v, c := range r.Counts {
			records = append(records, []string{"3", strconv.Itoa(v), strconv.FormatUint(c, 10), ftoa(r.Fraction(v))})
		}
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write terse report: %w", err)
	}
	return nil
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}

func metric(m randtest.Metric) string {
	if !m.Valid {
		return ""
	}
	return ftoa(m.Value)
}

// printer remembers the first write error so the report can be written
// without checking every line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
