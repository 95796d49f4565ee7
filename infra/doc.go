// Package infra groups the technical adapters of the prediction
// service: the MQTT pose/prediction transport, metrics exporters, the
// zerolog logger and the Sentry monitor. Subpackages depend only on
// interfaces defined under core.
package infra
