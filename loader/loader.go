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

// Package loader runs the extension load cycle: every bundle source is fetched
// once, in order, and its descriptors land in the registry.
//
// At most one cycle runs per registry lifetime. Concurrent and repeated callers
// share the future of that single cycle:
//
//	reg := registry.New()
//	l := loader.New(reg, sources, loader.WithEventStream(stream))
//	if err := l.Load(ctx); err != nil {
//	    // the cycle itself failed; the registry holds what it reached
//	}
package loader

import (
	"context"
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel/metric"

	"github.com/diaoyongbao/fe-sub001/bundle"
	"github.com/diaoyongbao/fe-sub001/errors"
	"github.com/diaoyongbao/fe-sub001/eventstream"
	"github.com/diaoyongbao/fe-sub001/extension"
	"github.com/diaoyongbao/fe-sub001/future"
	imetric "github.com/diaoyongbao/fe-sub001/internal/metric"
	"github.com/diaoyongbao/fe-sub001/log"
	"github.com/diaoyongbao/fe-sub001/registry"
)

// DefaultSettleDelay is the pause between the last fetch and the completion of a cycle.
const DefaultSettleDelay = 100 * time.Millisecond

// Loader loads the extension bundles into a registry.
type Loader struct {
	registry *registry.Registry
	sources  []bundle.Source

	settleDelay  time.Duration
	fetchTimeout time.Duration

	eventStream  eventstream.Stream
	meter        metric.Meter
	loaderMetric *imetric.LoaderMetric

	logger log.Logger
}

// New creates a Loader fetching sources, in order, into reg.
func New(reg *registry.Registry, sources []bundle.Source, opts ...Option) *Loader {
	loader := &Loader{
		registry:    reg,
		sources:     sources,
		settleDelay: DefaultSettleDelay,
		logger:      log.DefaultLogger,
	}

	for _, opt := range opts {
		opt.Apply(loader)
	}

	if loader.meter == nil {
		loader.meter = imetric.NewProvider().Meter()
	}

	loaderMetric, err := imetric.NewLoaderMetric(loader.meter)
	if err != nil {
		loader.logger.Warnf("loader metrics disabled: %v", err)
		return loader
	}

	if _, err := loaderMetric.ObserveRegistered(reg.Len); err != nil {
		loader.logger.Warnf("loader metrics disabled: %v", err)
		return loader
	}
	loader.loaderMetric = loaderMetric
	return loader
}

// Start starts the load cycle unless one already ran or is running.
//
// It returns an already completed future when the registry is initialized and
// the stored future when a cycle was already started, whatever its outcome.
// Otherwise it starts a new cycle in the background. The cycle is detached from
// ctx cancellation: ctx only carries values.
func (l *Loader) Start(ctx context.Context) future.Future {
	if l.registry.IsInitialized() {
		return future.Completed(nil)
	}

	if f := l.registry.LoadFuture(); f != nil {
		return f
	}

	promise := future.NewPromise()
	f, started := l.registry.StartLoad(promise.Future())
	if !started {
		// another caller won the race
		return f
	}

	go l.run(context.WithoutCancel(ctx), promise)
	return f
}

// Load starts the load cycle if needed and waits for it. ctx bounds the wait
// only: canceling it does not stop the cycle.
func (l *Loader) Load(ctx context.Context) error {
	return l.Start(ctx).Await(ctx)
}

// Done returns a channel closed once the cycle completed. The channel is
// already closed when the registry is initialized and nil when no cycle was
// started.
func (l *Loader) Done() <-chan struct{} {
	if f := l.registry.LoadFuture(); f != nil {
		return f.Done()
	}

	if l.registry.IsInitialized() {
		return future.Completed(nil).Done()
	}
	return nil
}

func (l *Loader) run(ctx context.Context, promise *future.Promise) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %w", errors.ErrLoadCycle, errors.NewPanicError(r))
			l.logger.Error(err)
			promise.Failure(err)
		}
	}()

	l.logger.Infof("loading extensions from %d sources", len(l.sources))

	cycle := promise.Future()
	registrar := &cycleRegistrar{registry: l.registry, cycle: cycle}

	fetched := mapset.NewThreadUnsafeSet[string]()
	for _, source := range l.sources {
		if source == nil {
			continue
		}

		if l.registry.LoadFuture() != cycle {
			// cleared while loading
			break
		}

		id := source.ID()
		if fetched.Contains(id) {
			l.logger.Debugf("source=(%s) already fetched, skipped", id)
			l.record(func(m *imetric.LoaderMetric) { m.Skipped(ctx, id) })
			continue
		}

		if err := l.fetch(ctx, source, registrar); err != nil {
			l.logger.Error(errors.NewErrBundleFetch(id, err))
			l.record(func(m *imetric.LoaderMetric) { m.Failed(ctx, id) })
			continue
		}

		fetched.Add(id)
		l.record(func(m *imetric.LoaderMetric) { m.Fetched(ctx, id) })
	}

	l.settle()

	if !l.registry.CompleteLoad(cycle) {
		l.logger.Warn(errors.ErrLoadSuperseded)
		promise.Failure(errors.ErrLoadSuperseded)
		return
	}

	l.record(func(m *imetric.LoaderMetric) { m.Duration(ctx, time.Since(start)) })
	l.logger.Infof("%d extensions loaded in %s", l.registry.Len(), time.Since(start))

	if l.eventStream != nil {
		l.eventStream.Publish(extension.TopicLoaded, extension.Loaded{})
	}
	promise.Success()
}

// fetch isolates a single source: its failures and panics never reach the cycle.
func (l *Loader) fetch(ctx context.Context, source bundle.Source, registrar bundle.Registrar) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewPanicError(r)
		}
	}()

	if l.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.fetchTimeout)
		defer cancel()
	}

	return source.FetchAndRegister(ctx, registrar)
}

func (l *Loader) settle() {
	if l.settleDelay <= 0 {
		return
	}
	timer := time.NewTimer(l.settleDelay)
	defer timer.Stop()
	<-timer.C
}

func (l *Loader) record(fn func(m *imetric.LoaderMetric)) {
	if l.loaderMetric != nil {
		fn(l.loaderMetric)
	}
}

// cycleRegistrar drops the registrations of a cycle once the registry no
// longer holds its load handle.
type cycleRegistrar struct {
	registry *registry.Registry
	cycle    future.Future
}

// enforce compilation error
var _ bundle.Registrar = (*cycleRegistrar)(nil)

func (x *cycleRegistrar) Register(descriptor *extension.Descriptor) error {
	if x.registry.LoadFuture() != x.cycle {
		return errors.ErrLoadSuperseded
	}
	return x.registry.Register(descriptor)
}
