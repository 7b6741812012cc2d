/*
* Command line interface of ent
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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Gilah-EnE/ent/internal/analysis"
	"github.com/Gilah-EnE/ent/internal/chisq"
	"github.com/Gilah-EnE/ent/internal/config"
	"github.com/Gilah-EnE/ent/internal/randtest"
	"github.com/Gilah-EnE/ent/internal/report"
	"github.com/Gilah-EnE/ent/internal/scan"
)

const version = "1.4"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd, err := newRootCommand()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCommand() (*cobra.Command, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:   "ent [options] [input-file]",
		Short: "Test randomness of file",
		Long: "ent --  Test randomness of file.\n\n" +
			"Reads the named file, or standard input when no file is given, and reports\n" +
			"entropy, chi-square, arithmetic mean, Monte Carlo value for Pi and serial\n" +
			"correlation of its bytes or bits.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("duplicate file name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd.Context(), cfg, path, cmd.OutOrStdout(), logger)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&cfg.Binary, "binary", "b", cfg.Binary, "Treat input as a stream of bits")
	flags.BoolVarP(&cfg.Counts, "counts", "c", cfg.Counts, "Print occurrence counts")
	flags.BoolVarP(&cfg.Fold, "fold", "f", cfg.Fold, "Fold upper to lower case letters")
	flags.BoolVarP(&cfg.Terse, "terse", "t", cfg.Terse, "Terse output in CSV format")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Log progress to standard error")
	flags.IntVar(&cfg.BlockSize, "block-size", cfg.BlockSize, "Read buffer size in bytes")
	flags.BoolVar(&cfg.Analysis.KsTest, "ks", cfg.Analysis.KsTest, "Report the Kolmogorov-Smirnov distance from uniform")
	flags.BoolVar(&cfg.Analysis.Signatures, "signatures", cfg.Analysis.Signatures, "Count well-known file signatures")
	flags.BoolVar(&cfg.Analysis.Profile, "profile", cfg.Analysis.Profile, "Profile entropy and autocorrelation per block")
	flags.IntVar(&cfg.Analysis.ProfileBlock, "profile-block", cfg.Analysis.ProfileBlock, "Block size in bytes used by --profile")
	flags.IntVar(&cfg.Analysis.MaxLag, "lag", cfg.Analysis.MaxLag, "Autocorrelation lags examined by --profile")

	// ent has always used -u for help.
	flags.BoolP("help", "u", false, "Print this message")

	return cmd, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// run scans one input and writes the report. An interrupt stops the scan and
// the report covers the bytes read so far.
func run(ctx context.Context, cfg *config.Config, path string, out io.Writer, logger *zap.Logger) error {
	acc := randtest.New(cfg.Binary)
	sinks := []io.Writer{acc}

	var profiler *analysis.BlockProfiler
	if cfg.Analysis.Profile {
		profiler = analysis.NewBlockProfiler(cfg.Analysis.ProfileBlock, cfg.Analysis.MaxLag, logger)
		sinks = append(sinks, profiler)
	}
	var signatures *analysis.SignatureScanner
	if cfg.Analysis.Signatures {
		var err error
		if signatures, err = analysis.NewSignatureScanner(slices.Concat(analysis.DefaultSignatures, analysis.EncryptionSignatures)); err != nil {
			return err
		}
		sinks = append(sinks, signatures)
	}

	scanner := &scan.Scanner{BlockSize: cfg.BlockSize, Fold: cfg.Fold, Logger: logger}
	scanned, err := scanner.ScanFile(ctx, path, sinks...)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("input truncated by interrupt", zap.Int64("bytes", scanned))
	}

	res, err := acc.End()
	if err != nil {
		return err
	}
	prob, err := chisq.Probability(res.ChiSquare, res.DegreesOfFreedom())
	if err != nil {
		return err
	}
	rep := &report.Report{Result: res, Probability: prob}

	if cfg.Analysis.KsTest {
		ks := analysis.KsTest(res.Counts, res.Samples)
		rep.KsTest = &ks
	}
	if profiler != nil {
		summary, err := profiler.Summary()
		switch {
		case errors.Is(err, analysis.ErrNoBlocks):
			logger.Warn("input shorter than one profile block", zap.Int("blockSize", cfg.Analysis.ProfileBlock))
		case err != nil:
			return err
		default:
			rep.Profile = summary
		}
	}
	if signatures != nil {
		rep.Signatures = &report.SignatureSummary{
			Density: signatures.Density(scanned),
			Total:   signatures.Total(),
			Found:   signatures.Found(),
		}
	}

	if cfg.Terse {
		return report.WriteTerse(out, rep, cfg.Counts)
	}
	return report.WriteText(out, rep, cfg.Counts)
}
