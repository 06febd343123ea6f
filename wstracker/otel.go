package wstracker

import (
	"go.opentelemetry.io/otel"
)

const tracerName = "upflare.tracker.wstracker"

var tracer = otel.Tracer(tracerName)
