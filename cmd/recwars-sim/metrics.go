package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

const serviceName = "recwars-sim"

// metricsExport writes the engine's metrics as JSON lines to a file.
type metricsExport struct {
	provider *sdkmetric.MeterProvider
	file     *os.File
}

// newMetricsExport exports every interval and once more on shutdown.
func newMetricsExport(path string, interval time.Duration) (*metricsExport, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics file: %w", err)
	}

	exp, err := stdoutmetric.New(stdoutmetric.WithWriter(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))),
	)
	return &metricsExport{provider: provider, file: f}, nil
}

// Shutdown flushes the last export and closes the file.
func (m *metricsExport) Shutdown(ctx context.Context) error {
	err := m.provider.Shutdown(ctx)
	return errors.Join(err, m.file.Close())
}
