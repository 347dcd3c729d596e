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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/bundle/bolt"
	"github.com/diaoyongbao/fe-sub001/internal/compression"
)

const (
	pathFlag    = "path"
	bucketFlag  = "bucket"
	keyFlag     = "key"
	timeoutFlag = "timeout"
)

func newPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish MANIFEST",
		Short: "Store an extension manifest in a bolt database",
		Long: `Validate an extension manifest and store it in a bolt database read by
the bolt bundle source. The key defaults to the manifest file name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			path, _ := flags.GetString(pathFlag)
			bucket, _ := flags.GetString(bucketFlag)
			key, _ := flags.GetString(keyFlag)
			timeout, _ := flags.GetDuration(timeoutFlag)

			manifest := args[0]
			payload, err := os.ReadFile(manifest)
			if err != nil {
				return err
			}

			decoded, err := compression.Decode(compression.FromExtension(filepath.Ext(manifest)), payload)
			if err != nil {
				return fmt.Errorf("failed to decompress %s: %w", manifest, err)
			}

			if _, err := bundle.Decode(decoded); err != nil {
				return fmt.Errorf("invalid manifest %s: %w", manifest, err)
			}

			if key == "" {
				key = filepath.Base(manifest)
			}

			cfg := &bolt.Config{Path: path, Bucket: bucket, Timeout: timeout}
			if err := bolt.Put(cmd.Context(), cfg, key, payload); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %s to %s#%s\n", key, cfg.Path, cfg.Bucket)
			return err
		},
	}

	cmd.Flags().String(pathFlag, "extensions.db", "path of the bolt database")
	cmd.Flags().String(bucketFlag, bolt.DefaultBucket, "bucket holding the manifests")
	cmd.Flags().String(keyFlag, "", "key of the manifest, the file name by default")
	cmd.Flags().Duration(timeoutFlag, 5*time.Second, "wait for the database lock")
	return cmd
}
