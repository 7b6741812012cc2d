/*
* Input scanning module
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

// Package scan reads an input stream block by block and hands every block to
// a set of sinks in stream order.
package scan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Gilah-EnE/ent/internal/latin1"
)

var ErrInputUnavailable = errors.New("input unavailable")

const (
	defaultBlockSize = 1 << 20
	progressStep     = 1 << 20
)

// Open returns the named file, or standard input for "" and "-". The name
// returned is what should appear in messages.
func Open(path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), "standard input", nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, path, fmt.Errorf("%w: cannot open file %s: %w", ErrInputUnavailable, path, err)
	}
	return file, path, nil
}

type Scanner struct {
	BlockSize int
	Fold      bool
	Logger    *zap.Logger
}

// Scan copies r into every sink until EOF or until ctx is done. It returns
// the number of bytes delivered; on cancellation the sinks hold a valid
// prefix of the stream.
func (s *Scanner) Scan(ctx context.Context, r io.Reader, sinks ...io.Writer) (int64, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	blockSize := s.BlockSize
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	start := time.Now()

	reader := bufio.NewReaderSize(r, blockSize)
	buffer := make([]byte, blockSize)
	var readBytesCount, nextProgress int64 = 0, progressStep

	for {
		if err := ctx.Err(); err != nil {
			logger.Info("scan interrupted", zap.Int64("bytes", readBytesCount), zap.Error(err))
			return readBytesCount, err
		}

		bytesRead, err := reader.Read(buffer)
		if bytesRead > 0 {
			block := buffer[:bytesRead]
			if s.Fold {
				latin1.FoldBytes(block)
			}
			for _, sink := range sinks {
				if _, werr := sink.Write(block); werr != nil {
					return readBytesCount, fmt.Errorf("write block: %w", werr)
				}
			}
			readBytesCount += int64(bytesRead)
			if readBytesCount >= nextProgress {
				logger.Debug("progress", zap.Float64("MB", float64(readBytesCount)/1048576))
				nextProgress = readBytesCount + progressStep
			}
		}
		if err == io.EOF {
			break
		} else if err != nil {
			return readBytesCount, fmt.Errorf("%w: read: %w", ErrInputUnavailable, err)
		}
	}

	logger.Info("input has been analyzed",
		zap.Int64("bytes", readBytesCount),
		zap.Duration("time", time.Since(start)))
	return readBytesCount, nil
}

// ScanFile opens path, scans it and closes it again. A close failure is
// reported together with any scan error.
func (s *Scanner) ScanFile(ctx context.Context, path string, sinks ...io.Writer) (n int64, err error) {
	rc, name, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", name, cerr))
		}
	}()

	if s.Logger != nil {
		s.Logger.Debug("scanning", zap.String("input", name), zap.Int("blockSize", s.BlockSize))
	}
	return s.Scan(ctx, rc, sinks...)
}
