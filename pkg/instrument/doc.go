// Package instrument provides ready-made form.Observer implementations:
// Prometheus metrics for validate/submit cycles and OpenTelemetry spans
// around them. Both are optional; a form without an observer has no
// observability cost.
package instrument
