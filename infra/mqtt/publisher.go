package mqtt

import (
	"fmt"
	"sync"

	"github.com/dronenav/humanpred/core/model"
	coresink "github.com/dronenav/humanpred/core/sink"
)

// Publisher mirrors the core sink.Publisher interface.
type Publisher = coresink.Publisher

// MockPublisher records published predictions for tests.
type MockPublisher struct {
	Outputs []model.PredictionOutput
	FailIDs map[string]bool
	mu      sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailIDs: make(map[string]bool)}
}

// PublishPrediction records the output or returns an error if
// configured to fail for the human.
func (m *MockPublisher) PublishPrediction(out model.PredictionOutput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[out.HumanID] {
		return fmt.Errorf("publish failed")
	}
	m.Outputs = append(m.Outputs, out)
	return nil
}

// Published returns a copy of the recorded outputs.
func (m *MockPublisher) Published() []model.PredictionOutput {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]model.PredictionOutput, len(m.Outputs))
	copy(cp, m.Outputs)
	return cp
}
