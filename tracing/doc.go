// Package tracing records OpenTelemetry spans for tasks handed to workers.
// Until Init or InitWithExporter is called the global no-op provider is in
// place and spans cost next to nothing.
package tracing
