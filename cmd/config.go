// Copyright 2020 Bart de Boer. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bartdeboer/flag"
	"github.com/spf13/cobra"

	"github.com/bartdeboer/mtsconv/internal/convert"
	"github.com/bartdeboer/mtsconv/internal/logging"
	"github.com/bartdeboer/mtsconv/internal/pool"
)

// ErrInvalidConfig is returned when the merged configuration is unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	OutputDir  string `usage:"Directory to store the converted MP4 files"`
	Workers    int    `usage:"Number of files converted at the same time"`
	Extension  string `usage:"Source file extension (case-sensitive)"`
	LogFile    string `usage:"Log file, appended to across runs"`
	FfmpegPath string `usage:"Path containing the ffmpeg binary"`
}

// defaultConfig is the lowest configuration layer.
func defaultConfig() Config {
	return Config{
		OutputDir: "./converted",
		Workers:   pool.DefaultWorkers,
		Extension: convert.DefaultExtension,
		LogFile:   logging.DefaultFile,
	}
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if !strings.HasPrefix(c.Extension, ".") || len(c.Extension) < 2 {
		return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, c.Extension)
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("%w: output directory must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return fmt.Errorf("%w: log file must not be empty", ErrInvalidConfig)
	}
	return nil
}

// loadConfig merges, lowest first: built-in defaults, environment, the
// YAML config file and the flags set on cmd.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg := defaultConfig()

	if err := flag.ParseEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment variables: %v", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	yamlCfg := struct {
		Convert *Config `yaml:"convert"`
	}{
		Convert: &cfg,
	}
	if err := LoadYaml(configFile, &yamlCfg); err != nil {
		return cfg, err
	}

	applyFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// addRunFlags registers the flags that override Config fields.
func addRunFlags(cmd *cobra.Command) {
	d := defaultConfig()
	flags := cmd.Flags()
	flags.StringP("output-dir", "o", d.OutputDir, "Directory to store the converted MP4 files")
	flags.IntP("workers", "w", d.Workers, "Number of files converted at the same time")
	flags.String("extension", d.Extension, "Source file extension (case-sensitive)")
	flags.String("log-file", d.LogFile, "Log file, appended to across runs")
}

// applyFlags copies the flags the user actually passed into cfg, so unset
// flags don't clobber values from lower layers.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("output-dir") {
		cfg.OutputDir, _ = flags.GetString("output-dir")
	}
	if changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if changed("extension") {
		cfg.Extension, _ = flags.GetString("extension")
	}
	if changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if changed("ffmpeg-path") {
		cfg.FfmpegPath, _ = flags.GetString("ffmpeg-path")
	}
}
