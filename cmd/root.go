// Copyright 2020 Bart de Boer. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bartdeboer/mtsconv/internal/convert"
	"github.com/bartdeboer/mtsconv/internal/ffmpeg"
	"github.com/bartdeboer/mtsconv/internal/logging"
)

// newTranscoder builds the transcoder used for a run. Tests replace it.
var newTranscoder = func(ffmpegPath string) ffmpeg.Transcoder {
	return ffmpeg.New(ffmpegPath)
}

// NewRootCmd returns the mtsconv command: convert every .MTS file below a
// directory to .mp4.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mtsconv [path]",
		Short: "Convert MTS files to MP4 format",
		Long: `Convert camcorder recordings (.MTS) found anywhere below path to .mp4
using ffmpeg. Files are converted in parallel; each source file is deleted
once its conversion succeeds. Outcomes are appended to the log file.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, args[0])
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/"+configFileName+" or ./"+configFileName+")")
	rootCmd.PersistentFlags().String("ffmpeg-path", "", "Path containing the ffmpeg binary")

	addRunFlags(rootCmd)

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mtsconv: %v\n", err)
		os.Exit(1)
	}
}

// run converts everything below root. The root is validated before the
// output directory or the log file are touched.
func run(ctx context.Context, cfg Config, root string) error {
	if err := convert.ValidateRoot(root); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", cfg.OutputDir, err)
	}

	sink, err := logging.Open(cfg.LogFile)
	if err != nil {
		return err
	}

	batch := &convert.Batch{
		Scanner: convert.Scanner{Extension: cfg.Extension, OutputDir: cfg.OutputDir},
		Worker:  convert.NewWorker(newTranscoder(cfg.FfmpegPath)),
		Log:     sink.Logger,
		Workers: cfg.Workers,
	}
	sum, err := batch.Run(ctx, root)
	if sum.Interrupted {
		// Conversions still in flight log their outcome until the process
		// exits, so the sink stays open.
		return err
	}
	sink.Close()
	return err
}
