// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import "go.uber.org/zap"

var eventMessages = [...]string{
	FirstCheckMiss:  "instance is nil after first check",
	GuardAcquired:   "guard acquired",
	DoubleCheckMiss: "instance still nil after double check, constructing",
	Constructed:     "instance constructed",
	Returned:        "returning instance",
}

// NewLogObserver writes every event at debug level.
func NewLogObserver(logger *zap.Logger) Observer {
	return &logObserver{logger: logger}
}

type logObserver struct {
	logger *zap.Logger
}

func (o *logObserver) Notify(event Event, identity string) {
	msg := "singleton event"
	if int(event) < len(eventMessages) {
		msg = eventMessages[event]
	}
	o.logger.Debug(msg,
		zap.Stringer("event", event),
		zap.String("identity", identity),
	)
}
