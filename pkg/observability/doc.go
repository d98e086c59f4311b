// Package observability provides OpenTelemetry tracing and metrics for the
// dispatcher, guards, and engines.
//
// # Setup
//
// Initialize a Provider at process startup:
//
//	p, err := observability.New(ctx, observability.DefaultConfig())
//	defer p.Shutdown(ctx)
//
// Start a span around a unit of work:
//
//	ctx, span := p.StartSpan(ctx, "dispatch")
//	defer span.End()
//
// # RED metrics
//
// TrackOperation records request count, error count, and duration in one
// call, following the Rate/Errors/Duration pattern:
//
//	ctx, done := p.TrackOperation(ctx, "dispatch.cash.session_open")
//	defer done(err)
//
// # Domain attributes
//
// CommandOperation, EventOperation, GuardOperation, and ComplianceOperation
// build the attribute sets attached to spans at each pipeline stage.
package observability
