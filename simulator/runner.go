package simulator

import (
	"context"
	"encoding/json"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/dronenav/humanpred/core/model"
	"github.com/dronenav/humanpred/infra/logger"
	"github.com/dronenav/humanpred/infra/mqtt"
	"github.com/dronenav/humanpred/internal/eventbus"
)

// Emitter receives the samples a walker generates.
type Emitter interface {
	Emit(model.Sample) error
}

// Runner replays a scenario at its configured rate until the context is
// canceled or the walk completes.
type Runner struct {
	Scenario *Scenario
	Emitter  Emitter

	log logger.Logger
}

// NewRunner builds a runner for the scenario.
func NewRunner(s *Scenario, em Emitter) *Runner {
	return &Runner{Scenario: s, Emitter: em, log: logger.New("simulator")}
}

// Run emits samples on the scenario interval. It returns nil once the
// full walk duration has elapsed.
func (r *Runner) Run(ctx context.Context) error {
	walker, err := r.Scenario.Walker()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(r.Scenario.Interval())
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(start)
			s := walker.Sample(r.Scenario.HumanID, elapsed, now)
			if err := r.Emitter.Emit(s); err != nil {
				r.log.Warnf("emit sample: %v", err)
			}
			if elapsed >= walker.Duration {
				return nil
			}
		}
	}
}

// BusEmitter feeds samples into an in-process typed bus, for tests and
// single-binary runs without a broker.
type BusEmitter struct {
	Bus *eventbus.TypedBus[model.Sample]
}

func (e BusEmitter) Emit(s model.Sample) error {
	e.Bus.Publish(s)
	return nil
}

// MQTTEmitter publishes samples on the pose topic of the simulated
// human.
type MQTTEmitter struct {
	cli   paho.Client
	topic string
}

// NewMQTTEmitter connects to the broker and prepares the pose topic.
func NewMQTTEmitter(broker, humanID string) (*MQTTEmitter, error) {
	opts := paho.NewClientOptions().AddBroker(broker).SetClientID("sim-" + humanID)
	opts.AutoReconnect = true
	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTEmitter{cli: cli, topic: mqtt.PoseTopic(humanID)}, nil
}

func (e *MQTTEmitter) Emit(s model.Sample) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	token := e.cli.Publish(e.topic, 0, false, payload)
	token.Wait()
	return token.Error()
}

// Close disconnects from the broker.
func (e *MQTTEmitter) Close() {
	e.cli.Disconnect(250)
}
