/*
Package observability provides the Prometheus collectors of the intake engine.

Publishing, validation findings, submissions and routing calls are counted on
a private registry, exposed through Metrics.Handler for a /metrics endpoint.
A nil *Metrics is valid and records nothing.
*/
package observability
