// Package observability exports discovery traces and metrics over OTLP and
// aggregates component health.
//
// Export is configured by the observability branch and stays off until an
// endpoint is set:
//
//	observability:
//	  sample_rate: 0.5
//	  otlp:
//	    endpoint: localhost:4318
//	    insecure: true
//
//	cfg, err := observability.LoadConfig(tree)
//	tel, err := observability.Start(ctx, "orders", cfg)
//	defer tel.Shutdown(ctx)
//
// Spans carry the client type, binding and source of a resolution. Failed
// spans are tagged with the application error code:
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanResolve)
//	defer span.End()
//	observability.RecordError(ctx, err)
package observability
