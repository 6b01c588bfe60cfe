// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import (
	"fmt"

	"go.opentelemetry.io/otel"
)

// Event is a step of the access protocol reported to an Observer.
type Event uint8

const (
	// FirstCheckMiss: the lock-free read found no instance.
	FirstCheckMiss Event = iota
	// GuardAcquired: the caller holds the guard.
	GuardAcquired
	// DoubleCheckMiss: there was still no instance under the guard.
	DoubleCheckMiss
	// Constructed: an instance was built and published.
	Constructed
	// Returned: an instance is being returned to the caller.
	Returned
)

var eventNames = [...]string{
	FirstCheckMiss:  "first-check-miss",
	GuardAcquired:   "guard-acquired",
	DoubleCheckMiss: "double-check-miss",
	Constructed:     "constructed",
	Returned:        "returned",
}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", uint8(e))
}

// Observer receives diagnostic events.  Notify must not block.  It is
// never called while a guard is held, so it may call Get.
type Observer interface {
	Notify(event Event, identity string)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(event Event, identity string)

// Notify implements Observer.
func (f ObserverFunc) Notify(event Event, identity string) {
	f(event, identity)
}

// NopObserver discards every event.
func NopObserver() Observer {
	return nopObserver{}
}

type nopObserver struct{}

func (nopObserver) Notify(Event, string) {}

// Observers combines observers; each is called in order.  Nil
// observers are skipped.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	switch len(m) {
	case 0:
		return nopObserver{}
	case 1:
		return m[0]
	}
	return m
}

type multiObserver []Observer

var _ Observer = multiObserver{}

func (m multiObserver) Notify(event Event, identity string) {
	for _, obs := range m {
		notify(obs, event, identity)
	}
}

// notify delivers one event.  A panicking observer is reported to the
// OTel error handler and does not reach the caller.
func notify(obs Observer, event Event, identity string) {
	defer func() {
		if r := recover(); r != nil {
			otel.Handle(fmt.Errorf("singleton observer panicked on %s(%s): %v", event, identity, r))
		}
	}()
	obs.Notify(event, identity)
}

// eventBuffer holds the events raised while the guard is held.
type eventBuffer struct {
	events [3]Event
	n      int
}

func (b *eventBuffer) add(e Event) {
	b.events[b.n] = e
	b.n++
}

func (b *eventBuffer) flush(obs Observer, identity string) {
	for _, e := range b.events[:b.n] {
		notify(obs, e, identity)
	}
}
