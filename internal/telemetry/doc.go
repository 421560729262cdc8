// Package telemetry wraps OpenTelemetry SDK initialization, providing
// centralized TracerProvider and MeterProvider setup for the scheduler.
// When telemetry is disabled it installs noop implementations and never
// connects to an external service.
package telemetry
