// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"go.opentelemetry.io/otel/trace"
)

// Holder constructs its instance on the first Get using sync.Once,
// which provides the exactly-once and visibility guarantees that Slot
// implements by hand.
//
// The constructor's result, including an error, is kept for good.  A
// panicking constructor poisons the holder.  A constructor calling Get
// on its own holder receives ErrReentrant.
type Holder[T any] struct {
	once      sync.Once
	construct Constructor[T]
	value     T
	err       error

	// done is set once construction has finished.  Until then owner
	// is the goroutine running the constructor, zero otherwise.
	done  atomic.Bool
	owner atomic.Int64

	identity string
	observer Observer
	tracer   trace.Tracer
}

var _ Accessor[any] = &Holder[any]{}

// NewHolder returns a holder that calls construct on the first Get.
func NewHolder[T any](construct Constructor[T], options ...Option) *Holder[T] {
	cfg := newConfig[T](options)
	return &Holder[T]{
		construct: construct,
		identity:  cfg.identity,
		observer:  cfg.observer(),
		tracer:    cfg.tracer(),
	}
}

// Get implements Accessor.
func (h *Holder[T]) Get() (T, error) {
	var zero T
	if !h.done.Load() && h.owner.Load() == goid.Get() {
		// sync.Once would deadlock.
		return zero, fmt.Errorf("%w: %s", ErrReentrant, h.identity)
	}

	constructed := false
	h.once.Do(func() {
		h.owner.Store(goid.Get())
		defer func() {
			h.owner.Store(0)
			h.done.Store(true)
		}()
		span := startConstruction(h.tracer, h.identity, 1)
		h.value, h.err = guarded(h.construct, func(r any) {
			h.err = &PoisonedError{Identity: h.identity, Panic: r}
			endConstruction(span, h.err)
		})
		endConstruction(span, h.err)
		h.construct = nil
		constructed = h.err == nil
	})
	if constructed {
		notify(h.observer, Constructed, h.identity)
	}
	if h.err != nil {
		return zero, h.err
	}
	notify(h.observer, Returned, h.identity)
	return h.value, nil
}

// Description implements Accessor.
func (h *Holder[T]) Description() string {
	return fmt.Sprintf("Holder{%s}", h.identity)
}
