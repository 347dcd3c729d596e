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

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/diaoyongbao/fe-sub001/internal/bootstrap"
	"github.com/diaoyongbao/fe-sub001/loader"
	"github.com/diaoyongbao/fe-sub001/registry"
)

func newPermissionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "Load the extensions once and print the permission groups they declare",
		Long: `Load every configured source once and print, as JSON, the permission
groups the extensions declare. The output is meant to be cross-checked with the
permission points known by the backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg)
			defer func() { _ = logger.Flush() }()

			sources, err := bootstrap.Sources(cfg, logger)
			if err != nil {
				return err
			}

			reg := registry.New(registry.WithLogger(logger))
			extensionLoader := loader.New(reg, sources,
				loader.WithLogger(logger),
				loader.WithSettleDelay(cfg.SettleDelay.Duration),
				loader.WithFetchTimeout(cfg.FetchTimeout.Duration))
			if err := extensionLoader.Load(cmd.Context()); err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(reg.DeclaredPermissions())
		},
	}
}
