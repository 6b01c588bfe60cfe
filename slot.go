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

// Slot lazily constructs one instance using double-checked locking.
//
// The instance is published through an atomic pointer, so a caller
// that observes it also observes every write the constructor made.
// After publication Get takes no lock.
//
// A failed construction leaves the slot empty and the next caller
// tries again.  A constructor that panics poisons the slot for good;
// see PoisonedError.  Holder is simpler and should be preferred unless
// failed constructions must be retried.
type Slot[T any] struct {
	// construct is dropped once an instance is published.
	construct Constructor[T]
	identity  string
	observer  Observer
	tracer    trace.Tracer

	instance atomic.Pointer[T]
	poison   atomic.Pointer[PoisonedError]
	attempts atomic.Int64

	// guard serializes construction.  owner is the goroutine
	// holding it for construction, zero otherwise.
	guard sync.Mutex
	owner atomic.Int64
}

var _ Accessor[any] = &Slot[any]{}

// New returns an empty slot.  construct runs on the first Get.
func New[T any](construct Constructor[T], options ...Option) *Slot[T] {
	cfg := newConfig[T](options)
	return &Slot[T]{
		construct: construct,
		identity:  cfg.identity,
		observer:  cfg.observer(),
		tracer:    cfg.tracer(),
	}
}

// Get implements Accessor.
func (s *Slot[T]) Get() (T, error) {
	if p := s.instance.Load(); p != nil {
		notify(s.observer, Returned, s.identity)
		return *p, nil
	}
	return s.getSlow()
}

func (s *Slot[T]) getSlow() (T, error) {
	var zero T

	// The guard is not reentrant.  Fail instead of deadlocking when
	// the constructor asks for its own instance.  This goroutine holds
	// the guard, so observers are not told.
	gid := goid.Get()
	if s.owner.Load() == gid {
		return zero, fmt.Errorf("%w: %s", ErrReentrant, s.identity)
	}

	notify(s.observer, FirstCheckMiss, s.identity)
	if perr := s.poison.Load(); perr != nil {
		return zero, perr
	}

	var events eventBuffer
	p, err := s.lockAndConstruct(gid, &events)
	events.flush(s.observer, s.identity)
	if err != nil {
		return zero, err
	}
	notify(s.observer, Returned, s.identity)
	return *p, nil
}

func (s *Slot[T]) lockAndConstruct(gid int64, events *eventBuffer) (*T, error) {
	s.guard.Lock()
	defer s.guard.Unlock()
	events.add(GuardAcquired)

	if p := s.instance.Load(); p != nil {
		return p, nil
	}
	if perr := s.poison.Load(); perr != nil {
		return nil, perr
	}
	events.add(DoubleCheckMiss)

	s.owner.Store(gid)
	defer s.owner.Store(0)

	value, err := s.build()
	if err != nil {
		return nil, err
	}
	p := &value
	s.instance.Store(p)
	s.construct = nil
	events.add(Constructed)
	return p, nil
}

// build calls the constructor once.  The guard must be held.
func (s *Slot[T]) build() (T, error) {
	span := startConstruction(s.tracer, s.identity, s.attempts.Add(1))
	value, err := guarded(s.construct, func(r any) {
		perr := &PoisonedError{Identity: s.identity, Panic: r}
		s.poison.Store(perr)
		endConstruction(span, perr)
	})
	endConstruction(span, err)
	return value, err
}

// Published reports whether an instance has been published.
func (s *Slot[T]) Published() bool {
	return s.instance.Load() != nil
}

// Attempts is the number of times the constructor has been called,
// including failed calls.
func (s *Slot[T]) Attempts() int64 {
	return s.attempts.Load()
}

// Description implements Accessor.
func (s *Slot[T]) Description() string {
	return fmt.Sprintf("DoubleChecked{%s}", s.identity)
}

// ResetForTesting empties the slot, clears any poison and installs
// construct for the next Get.  Instances already returned stay in use
// by their holders.  It is for tests only and must not be called by a
// constructor or an observer.
func (s *Slot[T]) ResetForTesting(construct Constructor[T]) {
	s.guard.Lock()
	defer s.guard.Unlock()
	s.construct = construct
	s.instance.Store(nil)
	s.poison.Store(nil)
}
