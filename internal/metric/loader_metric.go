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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// sourceKey is the attribute naming the bundle source of a measure
const sourceKey = attribute.Key("source")

// LoaderMetric groups the instruments of the extension load cycle.
type LoaderMetric struct {
	meter metric.Meter
	// Specifies the number of bundle sources fetched successfully
	fetched metric.Int64Counter
	// Specifies the number of bundle sources that failed
	failed metric.Int64Counter
	// Specifies the number of bundle sources skipped because already fetched
	skipped metric.Int64Counter
	// Specifies the duration of a load cycle in milliseconds
	duration metric.Int64Histogram
	// Specifies the number of registered extensions
	registered metric.Int64ObservableGauge
}

// NewLoaderMetric creates the loader instruments from meter.
func NewLoaderMetric(meter metric.Meter) (*LoaderMetric, error) {
	loaderMetric := &LoaderMetric{meter: meter}
	var err error

	if loaderMetric.fetched, err = meter.Int64Counter(
		"extension_bundles_fetched",
		metric.WithDescription("Total number of bundle sources fetched"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fetched instrument, %w", err)
	}

	if loaderMetric.failed, err = meter.Int64Counter(
		"extension_bundles_failed",
		metric.WithDescription("Total number of bundle sources that failed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failed instrument, %w", err)
	}

	if loaderMetric.skipped, err = meter.Int64Counter(
		"extension_bundles_skipped",
		metric.WithDescription("Total number of bundle sources skipped because already fetched"),
	); err != nil {
		return nil, fmt.Errorf("failed to create skipped instrument, %w", err)
	}

	if loaderMetric.duration, err = meter.Int64Histogram(
		"extension_load_duration",
		metric.WithDescription("The duration of the extension load cycle in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration instrument, %w", err)
	}

	if loaderMetric.registered, err = meter.Int64ObservableGauge(
		"extension_registered_count",
		metric.WithDescription("Number of registered extensions"),
	); err != nil {
		return nil, fmt.Errorf("failed to create registered instrument, %w", err)
	}

	return loaderMetric, nil
}

// Fetched records a successful fetch of the given source
func (x *LoaderMetric) Fetched(ctx context.Context, sourceID string) {
	x.fetched.Add(ctx, 1, metric.WithAttributes(sourceKey.String(sourceID)))
}

// Failed records a failed fetch of the given source
func (x *LoaderMetric) Failed(ctx context.Context, sourceID string) {
	x.failed.Add(ctx, 1, metric.WithAttributes(sourceKey.String(sourceID)))
}

// Skipped records a source skipped because already fetched
func (x *LoaderMetric) Skipped(ctx context.Context, sourceID string) {
	x.skipped.Add(ctx, 1, metric.WithAttributes(sourceKey.String(sourceID)))
}

// Duration records the duration of a load cycle
func (x *LoaderMetric) Duration(ctx context.Context, elapsed time.Duration) {
	x.duration.Record(ctx, elapsed.Milliseconds())
}

// ObserveRegistered registers the callback reporting the number of registered
// extensions. Unregister the returned registration to stop observing.
func (x *LoaderMetric) ObserveRegistered(count func() int) (metric.Registration, error) {
	return x.meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observer.ObserveInt64(x.registered, int64(count()))
		return nil
	}, x.registered)
}
