// Package config loads pemmican's layered configuration: built-in
// defaults, an optional .pemmican.yaml file, and PEMMICAN_* environment
// variables, in rising precedence. Command line flags override all of
// these per invocation.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings.
type Config struct {
	// Copyrights configures the header rewriting tool.
	Copyrights CopyrightsConfig `mapstructure:"copyrights"`
}

// CopyrightsConfig is the "copyrights" configuration section.
type CopyrightsConfig struct {
	// Include and Exclude are shell-glob patterns matched against
	// tracked paths as flat strings. An empty include list matches
	// everything.
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
	// Additional lists owners in "Name <email>" form attributed across
	// every file's full year range.
	Additional []string `mapstructure:"additional"`
	// License is the path to the license file, relative to the repo
	// root.
	License string `mapstructure:"license"`
	// Preamble lines are inserted above the copyright lines in every
	// generated header.
	Preamble []string `mapstructure:"preamble"`
	// SPDXPrefix introduces a short-form license tag line.
	SPDXPrefix string `mapstructure:"spdx_prefix"`
	// CopyPrefix introduces a copyright line.
	CopyPrefix string `mapstructure:"copy_prefix"`
	// StripPreamble removes stale commented preamble lines from
	// existing headers.
	StripPreamble bool `mapstructure:"strip_preamble"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Copyrights: CopyrightsConfig{
			License:       "LICENSE.txt",
			SPDXPrefix:    "SPDX-License-Identifier:",
			CopyPrefix:    "Copyright (c)",
			StripPreamble: true,
		},
	}
}

// Load reads configuration from the given file, or from .pemmican.yaml
// found in the working directory, searchRoot, or the home directory when
// path is empty. A missing config file is not an error; defaults apply.
func Load(path, searchRoot string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("copyrights.license", cfg.Copyrights.License)
	v.SetDefault("copyrights.spdx_prefix", cfg.Copyrights.SPDXPrefix)
	v.SetDefault("copyrights.copy_prefix", cfg.Copyrights.CopyPrefix)
	v.SetDefault("copyrights.strip_preamble", cfg.Copyrights.StripPreamble)

	v.SetEnvPrefix("PEMMICAN")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".pemmican")
		v.AddConfigPath(".")
		if searchRoot != "" {
			v.AddConfigPath(searchRoot)
		}
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(homeDir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		homeEnvFile := filepath.Join(homeDir, ".pemmican", ".env")
		if _, err := os.Stat(homeEnvFile); err == nil {
			godotenv.Load(homeEnvFile)
		}
	}
}
