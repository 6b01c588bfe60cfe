// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0
package singleton

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventString(t *testing.T) {
	for _, test := range []struct {
		event Event
		name  string
	}{
		{FirstCheckMiss, "first-check-miss"},
		{GuardAcquired, "guard-acquired"},
		{DoubleCheckMiss, "double-check-miss"},
		{Constructed, "constructed"},
		{Returned, "returned"},
		{Event(42), "Event(42)"},
	} {
		require.Equal(t, test.name, test.event.String())
	}
}

func TestObserversFanOut(t *testing.T) {
	var order []string
	named := func(name string) Observer {
		return ObserverFunc(func(event Event, identity string) {
			order = append(order, name+":"+event.String()+":"+identity)
		})
	}
	obs := Observers(
		named("a"),
		ObserverFunc(func(Event, string) { panic("in the middle") }),
		named("b"),
	)

	obs.Notify(Constructed, "x")
	require.Equal(t, []string{"a:constructed:x", "b:constructed:x"}, order)

	require.IsType(t, nopObserver{}, Observers())
	require.IsType(t, nopObserver{}, Observers(nil, nil))

	order = nil
	single := Observers(nil, named("c"), nil)
	require.NotPanics(t, func() { single.Notify(Returned, "y") })
	require.Equal(t, []string{"c:returned:y"}, order)
	require.NotPanics(t, func() { NopObserver().Notify(Returned, "x") })
}

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var calls atomic.Int64
	s := New(newService(&calls), WithObserver(NewLogObserver(zap.New(core))), WithIdentity("db"))

	_, err := s.Get()
	require.NoError(t, err)
	_, err = s.Get()
	require.NoError(t, err)

	entries := logs.AllUntimed()
	require.Len(t, entries, 6)
	require.Equal(t, "instance is nil after first check", entries[0].Message)
	require.Equal(t, "instance still nil after double check, constructing", entries[2].Message)
	require.Equal(t, 1, logs.FilterMessage("instance constructed").Len())
	require.Equal(t, 2, logs.FilterMessage("returning instance").Len())
	for _, entry := range entries {
		require.Equal(t, zapcore.DebugLevel, entry.Level)
		require.Equal(t, "db", entry.ContextMap()["identity"])
	}
	require.Equal(t, "guard-acquired", entries[1].ContextMap()["event"])
}

func TestMetricsObserver(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	})

	obs, err := NewMetricsObserver(mp)
	require.NoError(t, err)

	var calls atomic.Int64
	s := New(newService(&calls), WithObserver(obs), WithIdentity("cache"))
	callConcurrently(t, 50, Accessor[*service](s))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "singleton.events" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			require.True(t, sum.IsMonotonic)
			for _, dp := range sum.DataPoints {
				identity, _ := dp.Attributes.Value(identityKey)
				require.Equal(t, "cache", identity.AsString())
				event, _ := dp.Attributes.Value(eventKey)
				counts[event.AsString()] = dp.Value
			}
		}
	}
	require.EqualValues(t, 1, counts["constructed"])
	require.EqualValues(t, 1, counts["double-check-miss"])
	require.EqualValues(t, 50, counts["returned"])
	require.GreaterOrEqual(t, counts["first-check-miss"], int64(1))
	require.Equal(t, counts["first-check-miss"], counts["guard-acquired"])
}
