package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dronenav/humanpred/config"
	"github.com/dronenav/humanpred/core/engine"
	coremetrics "github.com/dronenav/humanpred/core/metrics"
	"github.com/dronenav/humanpred/core/monitoring"
	"github.com/dronenav/humanpred/infra/logger"
	"github.com/dronenav/humanpred/infra/metrics"
	sentrymon "github.com/dronenav/humanpred/infra/monitoring"
	"github.com/dronenav/humanpred/infra/mqtt"
	"github.com/dronenav/humanpred/internal/eventbus"
)

// Service wires the MQTT transport, metrics sinks and the prediction
// engine for one human instance.
type Service struct {
	Engine *engine.Engine

	client   *mqtt.PahoClient
	bus      eventbus.EventBus
	sink     coremetrics.MetricsSink
	log      logger.Logger
	promAddr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	cfg.Logging.Apply()
	logg := logger.New("service")

	mon, err := sentrymon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry monitor: %w", err)
	}
	monitoring.Init(mon)

	client, err := mqtt.NewPahoClient(cfg.MQTT, cfg.Engine.HumanID)
	if err != nil {
		return nil, fmt.Errorf("mqtt client: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		client.Disconnect()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	eng, err := engine.New(cfg.EngineConfig(), client, bus, sink, logg)
	if err != nil {
		client.Disconnect()
		bus.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Service{
		Engine:   eng,
		client:   client,
		bus:      bus,
		sink:     sink,
		log:      logg,
		promAddr: promListenAddr(cfg),
	}, nil
}

// promListenAddr extracts the listen address of a configured prometheus
// sink, if any.
func promListenAddr(cfg *config.Config) string {
	for _, s := range cfg.Metrics.Sinks {
		if s.Type != "prometheus" {
			continue
		}
		if addr, ok := s.Conf["listen"].(string); ok && addr != "" {
			return addr
		}
		return ":9090"
	}
	return ""
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.Engine.Run(ctx, s.client.Samples())
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.client.Disconnect()
	s.bus.Close()
	monitoring.Flush(2 * time.Second)
	return nil
}
