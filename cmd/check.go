// Copyright 2020 Bart de Boer. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartdeboer/mtsconv/internal/ffmpeg"
)

type versionProber interface {
	Command() string
	Version() (ffmpeg.VersionInfo, error)
}

// newVersionProber builds the ffmpeg queried by check. Tests replace it.
var newVersionProber = func(ffmpegPath string) versionProber {
	return ffmpeg.New(ffmpegPath)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that ffmpeg can be run",
		Long: `Run "ffmpeg -version" and report the version found. Conversions do not
depend on this check: ffmpeg is looked up again for every file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			tool := newVersionProber(cfg.FfmpegPath)
			info, err := tool.Version()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ffmpeg: %s\n", tool.Command())
			fmt.Fprintf(out, "%s\n", info.Banner)
			if info.Version == nil {
				fmt.Fprintf(out, "Warning: could not determine the ffmpeg release, %s or newer is expected\n", ffmpeg.MinVersion)
				return nil
			}
			if info.Version.LessThan(ffmpeg.MinVersion) {
				fmt.Fprintf(out, "Warning: ffmpeg %s is older than %s\n", info.Version, ffmpeg.MinVersion)
				return nil
			}
			fmt.Fprintf(out, "OK: ffmpeg %s, encoding with -c:v %s -c:a %s\n", info.Version, ffmpeg.VideoCodec, ffmpeg.AudioCodec)
			return nil
		},
	}
}
