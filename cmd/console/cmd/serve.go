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
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/diaoyongbao/fe-sub001/config"
	"github.com/diaoyongbao/fe-sub001/eventstream"
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/internal/bootstrap"
	"github.com/diaoyongbao/fe-sub001/loader"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/navigation"
	"github.com/diaoyongbao/fe-sub001/registry"
	"github.com/diaoyongbao/fe-sub001/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the extensions and serve the console API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cmd, cfg))
		},
	}
}

// serve runs until ctx is done.
func serve(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	defer func() { _ = logger.Flush() }()

	var builtin []*extension.MenuNode
	if cfg.BuiltinMenu != "" {
		tree, err := navigation.LoadBuiltin(cfg.BuiltinMenu)
		if err != nil {
			return err
		}
		builtin = tree
	}

	sources, err := bootstrap.Sources(cfg, logger)
	if err != nil {
		return err
	}

	stream := eventstream.New()
	defer stream.Close()
	subscriber := stream.AddSubscriber()
	stream.Subscribe(subscriber, extension.TopicLoaded)

	reg := registry.New(registry.WithLogger(logger))
	extensionLoader := loader.New(reg, sources,
		loader.WithLogger(logger),
		loader.WithSettleDelay(cfg.SettleDelay.Duration),
		loader.WithFetchTimeout(cfg.FetchTimeout.Duration),
		loader.WithEventStream(stream))

	api := server.New(reg, server.WithLogger(logger), server.WithBuiltinMenu(builtin))
	if err := api.Start(ctx, cfg.ListenAddr); err != nil {
		return err
	}

	future := extensionLoader.Start(ctx)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := future.Await(ctx); err != nil && ctx.Err() == nil {
			// the API keeps serving the extensions loaded so far
			logger.Error(err)
		}
		return nil
	})
	eg.Go(func() error {
		for ctx.Err() == nil {
			if message, ok := subscriber.Next(time.Second); ok {
				logger.Infof("received %s: %d extensions ready", message.Topic(), reg.Len())
			}
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down the console API")
		return api.Stop(shutdownCtx)
	})
	return eg.Wait()
}
