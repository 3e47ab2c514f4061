// Package prometheus provides a Prometheus adapter for
// github.com/burggraf/reqheaders.
//
// The package exposes reqheaders options that install a Prometheus-backed
// Metrics implementation on an introspector, using either the default
// registerer or a caller-provided registerer.
package prometheus
