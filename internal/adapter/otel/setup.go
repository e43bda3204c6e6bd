// Package otel wires OpenTelemetry metrics with a Prometheus exporter so the
// server can expose a scrape endpoint.
package otel

import (
	"context"
	"fmt"
	"net/http"

	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Setup installs a global MeterProvider backed by a Prometheus registry and
// returns the scrape handler plus a shutdown function.
func Setup() (http.Handler, func() error, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", "agentry"))
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	shutdown := func() error {
		return provider.Shutdown(context.Background())
	}
	return handler, shutdown, nil
}
