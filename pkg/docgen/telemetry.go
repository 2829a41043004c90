package docgen

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("uidocgen.docgen")
	meter  = otel.Meter("uidocgen.docgen")
)

var (
	parseTotal    metric.Int64Counter
	parseDuration metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		parseTotal, err = meter.Int64Counter(
			"docgen_parse_total",
			metric.WithDescription("Total number of files documented"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		parseDuration, err = meter.Float64Histogram(
			"docgen_parse_duration_seconds",
			metric.WithDescription("Duration of documenting one file"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startParseSpan(ctx context.Context, filename string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Generator.Parse",
		trace.WithAttributes(
			attribute.String("docgen.file", filename),
		),
	)
}

func setParseSpanResult(span trace.Span, dialect string, definitions int, err error) {
	span.SetAttributes(
		attribute.String("docgen.dialect", dialect),
		attribute.Int("docgen.definitions", definitions),
		attribute.Bool("docgen.success", err == nil),
	)
	if err != nil {
		span.RecordError(err)
	}
}

func recordParseMetrics(ctx context.Context, duration time.Duration, dialect string, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("dialect", dialect),
		attribute.Bool("success", success),
	)
	parseTotal.Add(ctx, 1, attrs)
	parseDuration.Record(ctx, duration.Seconds(), attrs)
}
