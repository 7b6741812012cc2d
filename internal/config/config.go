/*
* Configuration module
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

// Package config holds the options of one ent run. Defaults come from ENT_*
// environment variables and are overridden by command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Binary bool // treat input as a stream of bits
	Counts bool // print occurrence counts
	Fold   bool // fold upper to lower case letters
	Terse  bool // CSV output

	// BlockSize is the read buffer size of the scanner.
	BlockSize int
	Verbose   bool

	Analysis AnalysisConfig
}

// AnalysisConfig enables the optional whole-file analyses.
type AnalysisConfig struct {
	KsTest       bool
	Signatures   bool
	Profile      bool
	ProfileBlock int
	MaxLag       int
}

const (
	DefaultBlockSize    = 1 << 20
	DefaultProfileBlock = 1 << 20
	DefaultMaxLag       = 50
)

// Load returns the configuration defaults, honouring the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	var err error
	if cfg.BlockSize, err = getEnvInt("ENT_BLOCK_SIZE", DefaultBlockSize); err != nil {
		return nil, err
	}
	if cfg.Analysis.ProfileBlock, err = getEnvInt("ENT_PROFILE_BLOCK", DefaultProfileBlock); err != nil {
		return nil, err
	}
	if cfg.Analysis.MaxLag, err = getEnvInt("ENT_AUTOCORR_LAG", DefaultMaxLag); err != nil {
		return nil, err
	}
	if cfg.Analysis.Profile, err = getEnvBool("ENT_PROFILE", false); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = getEnvBool("ENT_VERBOSE", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option combinations that flags alone cannot rule out.
func (c *Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("%w: block size %d must be positive", ErrInvalid, c.BlockSize)
	}
	if c.Analysis.Profile {
		if c.Analysis.ProfileBlock <= 0 {
			return fmt.Errorf("%w: profile block size %d must be positive", ErrInvalid, c.Analysis.ProfileBlock)
		}
		if c.Analysis.MaxLag < 2 {
			return fmt.Errorf("%w: autocorrelation lag %d must be at least 2", ErrInvalid, c.Analysis.MaxLag)
		}
		if c.Analysis.MaxLag >= c.Analysis.ProfileBlock {
			return fmt.Errorf("%w: autocorrelation lag %d must be smaller than the profile block size %d",
				ErrInvalid, c.Analysis.MaxLag, c.Analysis.ProfileBlock)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, value, err)
	}
	return b, nil
}
