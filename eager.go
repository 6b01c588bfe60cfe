// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import "fmt"

// Eager holds an instance constructed when the Eager itself is
// created, typically during package initialization.  Get never
// constructs.
type Eager[T any] struct {
	value    T
	identity string
	observer Observer
}

var _ Accessor[any] = &Eager[any]{}

// NewEager calls construct immediately.
func NewEager[T any](construct Constructor[T], options ...Option) (*Eager[T], error) {
	cfg := newConfig[T](options)
	value, err := construct()
	if err != nil {
		return nil, fmt.Errorf("eager construction of %s: %w", cfg.identity, err)
	}
	e := &Eager[T]{
		value:    value,
		identity: cfg.identity,
		observer: cfg.observer(),
	}
	notify(e.observer, Constructed, e.identity)
	return e, nil
}

// MustEager is NewEager for package-level variables.  It panics when
// construct fails.
func MustEager[T any](construct Constructor[T], options ...Option) *Eager[T] {
	e, err := NewEager(construct, options...)
	if err != nil {
		panic(err)
	}
	return e
}

// Get implements Accessor.  The error is always nil.
func (e *Eager[T]) Get() (T, error) {
	notify(e.observer, Returned, e.identity)
	return e.value, nil
}

// Description implements Accessor.
func (e *Eager[T]) Description() string {
	return fmt.Sprintf("Eager{%s}", e.identity)
}
