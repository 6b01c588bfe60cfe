// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import (
	"errors"
	"fmt"
)

var (
	// ErrPoisoned is returned after a constructor panicked or
	// exited its goroutine.  It is permanent.
	ErrPoisoned = errors.New("singleton: poisoned by an abandoned construction")

	// ErrReentrant is returned when a constructor calls Get on the
	// accessor it is constructing.
	ErrReentrant = errors.New("singleton: reentrant construction")
)

// PoisonedError describes the construction that poisoned an accessor.
type PoisonedError struct {
	Identity string
	// Panic is the recovered value, nil after runtime.Goexit.
	Panic any
}

func (e *PoisonedError) Error() string {
	if e.Panic == nil {
		return fmt.Sprintf("%v: %s: constructor exited", ErrPoisoned, e.Identity)
	}
	return fmt.Sprintf("%v: %s: constructor panicked: %v", ErrPoisoned, e.Identity, e.Panic)
}

func (e *PoisonedError) Unwrap() error {
	return ErrPoisoned
}

// guarded runs construct.  If construct panics or exits its goroutine,
// poison receives the recovered value (nil for Goexit) before the
// unwinding continues.
func guarded[T any](construct Constructor[T], poison func(any)) (value T, err error) {
	completed := false
	defer func() {
		if completed {
			return
		}
		r := recover()
		poison(r)
		if r != nil {
			panic(r)
		}
	}()
	value, err = construct()
	completed = true
	return value, err
}
