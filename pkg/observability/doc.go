/*
Package observability turns session lifecycle events into structured logs and
Prometheus metrics, and serves the metrics next to a health probe.
*/
package observability
