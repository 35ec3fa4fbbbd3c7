package authority

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InstallDevTracing registers a stdout span exporter as the global
// TracerProvider, writing human-readable spans to w, using the teacher's
// otel/exporters/stdout dependency. Nothing in this repository calls it
// (config.Settings.DevMode does not trigger it); without it, spans go to
// whatever TracerProvider the embedding host installs, or the no-op
// default.
func InstallDevTracing(w io.Writer) (shutdown func(context.Context) error, err error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
