package telemetry

import (
	"context"
	"testing"
)

func TestTracerWithoutSetup(t *testing.T) {
	tracer := Tracer("test")
	if tracer == nil {
		t.Fatal("expected a tracer")
	}
	_, span := tracer.Start(context.Background(), "test.span")
	defer span.End()
	if span.SpanContext().IsSampled() {
		t.Error("spans must not be sampled before Setup")
	}
}
