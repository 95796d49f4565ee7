// Package sink defines the outbound boundary of the prediction engine.
package sink

import "github.com/dronenav/humanpred/core/model"

// Publisher delivers finished prediction outputs to the planning
// collaborator. Implementations decide the transport and encoding.
type Publisher interface {
	// PublishPrediction sends one tick's forecast. The output is
	// immutable; implementations must not retain or modify the slices.
	PublishPrediction(out model.PredictionOutput) error
}

// Nop discards all outputs. Used in tests and benchmarks.
type Nop struct{}

func (Nop) PublishPrediction(model.PredictionOutput) error { return nil }
