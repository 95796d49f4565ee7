package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/dronenav/humanpred/core/metrics"
	"github.com/dronenav/humanpred/infra/logger"
)

// InfluxSink writes prediction events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordTick writes one point per completed prediction tick.
func (s *InfluxSink) RecordTick(res []coremetrics.TickResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range res {
		p := write.NewPointWithMeasurement("prediction_tick").
			AddTag("human_id", r.HumanID).
			AddTag("session_id", r.SessionID).
			AddTag("published", strconv.FormatBool(r.Published)).
			AddTag("component", "prediction_engine").
			AddField("horizon", r.Horizon).
			AddField("duration_ms", round3(r.Duration.Seconds()*1000)).
			SetTime(r.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordSample writes a sample ingestion outcome.
func (s *InfluxSink) RecordSample(ev coremetrics.SampleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("sample_event").
		AddTag("human_id", ev.HumanID).
		AddTag("accepted", strconv.FormatBool(ev.Accepted)).
		AddTag("component", "state_tracker")
	if ev.Reason != "" {
		p = p.AddTag("reason", ev.Reason)
	}
	p = p.AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordBelief writes a snapshot of the rationality belief.
func (s *InfluxSink) RecordBelief(ev coremetrics.BeliefEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("belief_state").
		AddTag("human_id", ev.HumanID).
		AddTag("component", "rationality_estimator").
		AddField("mean", round3(ev.Mean))
	for i, pr := range ev.Probs {
		p = p.AddField("p"+strconv.Itoa(i), round3(pr))
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSession writes a session lifecycle transition.
func (s *InfluxSink) RecordSession(ev coremetrics.SessionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("session_event").
		AddTag("human_id", ev.HumanID).
		AddTag("session_id", ev.SessionID).
		AddTag("action", ev.Action).
		AddTag("component", "prediction_engine").
		AddField("count", 1).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
