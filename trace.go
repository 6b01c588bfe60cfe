// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package singleton

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	constructSpanName = "singleton.construct"

	identityKey = attribute.Key("singleton.identity")
	attemptKey  = attribute.Key("singleton.attempt")
	eventKey    = attribute.Key("singleton.event")
)

// startConstruction opens the span around one constructor call.
// Get takes no context, so the span is a root span.
func startConstruction(tracer trace.Tracer, identity string, attempt int64) trace.Span {
	_, span := tracer.Start(context.Background(), constructSpanName,
		trace.WithAttributes(
			identityKey.String(identity),
			attemptKey.Int64(attempt),
		),
	)
	return span
}

func endConstruction(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
