package waitlist

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Spans are no-ops until config.SetupTracing installs a tracer provider.
var tracer = otel.Tracer("github.com/akeren/wallet-waitlist/domain/waitlist")

func (wr *waitlistRepository) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "waitlist."+operation, trace.WithAttributes(
		attribute.String("db.system", wr.db.Dialector.Name()),
		attribute.String("db.sql.table", tableName),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
