// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const eventsCounterName = "singleton.events"

// NewMetricsObserver counts events in the singleton.events counter,
// by event and identity.
func NewMetricsObserver(mp metric.MeterProvider) (Observer, error) {
	counter, err := mp.Meter(instrumentationName).Int64Counter(eventsCounterName,
		metric.WithDescription("Singleton access protocol events."),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating %s counter: %w", eventsCounterName, err)
	}
	return &metricsObserver{counter: counter}, nil
}

type metricsObserver struct {
	counter metric.Int64Counter
}

func (o *metricsObserver) Notify(event Event, identity string) {
	o.counter.Add(context.Background(), 1, metric.WithAttributeSet(attribute.NewSet(
		eventKey.String(event.String()),
		identityKey.String(identity),
	)))
}
