package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SetSpanStatus marks the current span as errored if err is non-nil, ok
// otherwise.
func SetSpanStatus(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// SpanFromContext returns the current span, or a no-op span if ctx carries
// none.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanEvent attaches a named event with attrs to the span in ctx.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

// CommandOperation builds the attribute set for a dispatched command span.
func CommandOperation(commandID, intent, actorKind string, branchPresent bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("bos.command.id", commandID),
		attribute.String("bos.command.intent", intent),
		attribute.String("bos.actor.kind", actorKind),
		attribute.Bool("bos.command.branch_present", branchPresent),
	}
}

// EventOperation builds the attribute set for an emitted event span.
func EventOperation(commandID, eventID, eventType string, accepted bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("bos.command.id", commandID),
		attribute.String("bos.event.id", eventID),
		attribute.String("bos.event.type", eventType),
		attribute.Bool("bos.event.accepted", accepted),
	}
}

// GuardOperation builds the attribute set for a single policy guard's
// evaluation within the pipeline.
func GuardOperation(guardName, intent, decision string, latencyMs float64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("bos.guard.name", guardName),
		attribute.String("bos.command.intent", intent),
		attribute.String("bos.guard.decision", decision),
		attribute.Float64("bos.guard.latency_ms", latencyMs),
	}
}

// ComplianceOperation builds the attribute set for a compliance rule
// evaluation.
func ComplianceOperation(jurisdiction, ruleSet, ruleID string, compliant bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("bos.compliance.jurisdiction", jurisdiction),
		attribute.String("bos.compliance.rule_set", ruleSet),
		attribute.String("bos.compliance.rule_id", ruleID),
		attribute.Bool("bos.compliance.compliant", compliant),
	}
}
