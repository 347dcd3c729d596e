// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package cmd holds the console extension service commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/diaoyongbao/fe-sub001/config"
	"github.com/diaoyongbao/fe-sub001/log"
)

const configFlag = "config"

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}

// New creates the root command
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console [sub-command]",
		Short: "Serve the extensions of the administrative console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.PersistentFlags().StringP(configFlag, "c", "", "path of the configuration file (YAML or JSON)")
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newPermissionsCommand())
	cmd.AddCommand(newPublishCommand())
	return cmd
}

// loadConfig reads the configuration named by the config flag, the defaults
// when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newLogger writes JSON logs to the command error output.
func newLogger(cmd *cobra.Command, cfg *config.Config) log.Logger {
	return log.NewZap(log.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr())
}
