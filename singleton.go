// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

// Three ways to hold a single shared instance:
//
//   Slot    hand-rolled double-checked locking; retries failed
//           constructions
//   Holder  sync.Once based one-time initialization; preferred in
//           new code
//   Eager   constructed before any caller can ask for it
//
// All of them implement Accessor.

import (
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jmacd/go-singleton"

// Accessor is the contract shared by every variant.
type Accessor[T any] interface {
	// Get returns the process's single instance.  It may block
	// while another goroutine constructs the instance.
	Get() (T, error)

	// Description is used when logging configuration.
	Description() string
}

// Constructor builds the instance.  An error leaves the accessor
// without an instance.
type Constructor[T any] func() (T, error)

// Option configures an accessor.
type Option func(*config)

type config struct {
	identity       string
	observers      []Observer
	tracerProvider trace.TracerProvider
}

func newConfig[T any](options []Option) config {
	cfg := config{
		identity: reflect.TypeFor[T]().String(),
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

func (cfg config) observer() Observer {
	return Observers(cfg.observers...)
}

func (cfg config) tracer() trace.Tracer {
	tp := cfg.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

// WithIdentity overrides the name reported to observers and spans.
// The default is the Go type of the instance.
func WithIdentity(identity string) Option {
	return func(cfg *config) {
		cfg.identity = identity
	}
}

// WithObserver adds an observer.  It may be repeated.
func WithObserver(obs Observer) Option {
	return func(cfg *config) {
		if obs != nil {
			cfg.observers = append(cfg.observers, obs)
		}
	}
}

// WithTracerProvider sets the provider used for construction spans.
// The global provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		cfg.tracerProvider = tp
	}
}
