package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/dronenav/humanpred/core/model"
	"github.com/dronenav/humanpred/core/monitoring"
	"github.com/dronenav/humanpred/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Broker     string          `json:"broker"`
	ClientID   string          `json:"client_id"`
	Username   string          `json:"username"`
	Password   string          `json:"password"`
	UseTLS     bool            `json:"use_tls"`
	ClientCert string          `json:"client_cert"`
	ClientKey  string          `json:"client_key"`
	CABundle   string          `json:"ca_bundle"`
	AuthMethod string          `json:"auth_method"`
	QoS        map[string]byte `json:"qos"`
	LWTTopic   string          `json:"lwt_topic"`
	LWTPayload string          `json:"lwt_payload"`
	LWTQoS     byte            `json:"lwt_qos"`
	LWTRetain  bool            `json:"lwt_retain"`
	MaxRetries int             `json:"max_retries"`
	BackoffMS  int             `json:"backoff_ms"`
	TLSConfig  *tls.Config     `json:"-"`
}

// PoseTopic returns the topic carrying raw pose samples for a human.
func PoseTopic(humanID string) string {
	return fmt.Sprintf("human/%s/pose", humanID)
}

// PredictionTopic returns the topic predictions are published on.
func PredictionTopic(humanID string) string {
	return fmt.Sprintf("human/%s/prediction", humanID)
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

// PahoClient bridges the MQTT broker and one prediction engine: it
// feeds decoded pose samples into a bounded channel and publishes
// prediction outputs. When the channel is full the oldest sample is
// shed, so the tick loop always drains the freshest data.
type PahoClient struct {
	cli     pahoClient
	humanID string
	qos     map[string]byte
	samples chan model.Sample

	logger     logger.Logger
	maxRetries int
	backoff    time.Duration
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewPahoClient connects to the MQTT broker and subscribes to the pose
// topic of the given human.
func NewPahoClient(cfg Config, humanID string) (*PahoClient, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	log := logger.New("mqtt_client")
	pc := &PahoClient{
		humanID:    humanID,
		qos:        cfg.QoS,
		samples:    make(chan model.Sample, 64),
		logger:     log,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
	}

	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		qos := byte(0)
		if q, ok := pc.qos["pose"]; ok {
			qos = q
		}
		if token := c.Subscribe(PoseTopic(humanID), qos, pc.onPose); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	pc.cli = c
	return pc, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.AuthMethod == "username_password" || cfg.AuthMethod == "both" || cfg.AuthMethod == "" {
		if cfg.Username != "" {
			opts.SetUsername(cfg.Username)
		}
		if cfg.Password != "" {
			opts.SetPassword(cfg.Password)
		}
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}

// Samples exposes the decoded pose stream for the engine's tick loop.
func (p *PahoClient) Samples() <-chan model.Sample {
	return p.samples
}

func (p *PahoClient) onPose(_ paho.Client, msg paho.Message) {
	var s model.Sample
	if err := json.Unmarshal(msg.Payload(), &s); err != nil {
		p.logger.Errorf("failed to decode pose: %v", err)
		return
	}
	if s.HumanID == "" {
		s.HumanID = p.humanID
	}
	select {
	case p.samples <- s:
	default:
		select {
		case <-p.samples:
		default:
		}
		select {
		case p.samples <- s:
		default:
		}
	}
}

// PublishPrediction sends one prediction output to the planner topic,
// retrying with exponential backoff on transient publish failures.
func (p *PahoClient) PublishPrediction(out model.PredictionOutput) error {
	payload, err := json.Marshal(out)
	if err != nil {
		return err
	}
	topic := PredictionTopic(out.HumanID)
	qos := byte(0)
	if q, ok := p.qos["prediction"]; ok {
		qos = q
	}
	retries := p.maxRetries
	if retries <= 0 {
		retries = 3
	}
	backoff := p.backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	var publishErr error
	for attempt := 0; attempt <= retries; attempt++ {
		token := p.cli.Publish(topic, qos, false, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published prediction %s to %s", out.ID, topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		time.Sleep(backoff * time.Duration(1<<attempt))
	}
	monitoring.CaptureException(publishErr, map[string]string{
		"component": "mqtt_client",
		"human_id":  out.HumanID,
		"topic":     topic,
	})
	return publishErr
}

// Disconnect gracefully closes the MQTT connection.
func (p *PahoClient) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
