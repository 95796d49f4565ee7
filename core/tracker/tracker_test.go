package tracker

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dronenav/humanpred/core/model"
)

func sample(id string, x, y float64, at time.Time) model.Sample {
	return model.Sample{HumanID: id, X: x, Y: y, Time: at}
}

func TestIngestFirstSample(t *testing.T) {
	tr := New(4)
	now := time.Now()
	st, err := tr.Ingest(sample("h1", 1, 2, now))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if st.Position != (model.Point{X: 1, Y: 2}) {
		t.Errorf("position: %v", st.Position)
	}
	if st.Velocity != (model.Point{}) {
		t.Errorf("first sample velocity should be zero: %v", st.Velocity)
	}
	if !tr.LastAccepted().Equal(now) {
		t.Errorf("last accepted: %v", tr.LastAccepted())
	}
}

func TestIngestVelocity(t *testing.T) {
	tr := New(10)
	now := time.Now()
	if _, err := tr.Ingest(sample("h1", 0, 0, now)); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	st, err := tr.Ingest(sample("h1", 2, 0, now.Add(time.Second)))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if math.Abs(st.Velocity.X-2) > 1e-12 || st.Velocity.Y != 0 {
		t.Errorf("velocity: %v", st.Velocity)
	}
	if math.Abs(st.Speed()-2) > 1e-12 {
		t.Errorf("speed: %v", st.Speed())
	}
}

func TestIngestOutOfOrder(t *testing.T) {
	tr := New(4)
	now := time.Now()
	if _, err := tr.Ingest(sample("h1", 0, 0, now)); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	cur, _ := tr.Current()

	for _, at := range []time.Time{now, now.Add(-time.Second)} {
		if _, err := tr.Ingest(sample("h1", 1, 1, at)); !errors.Is(err, ErrOutOfOrder) {
			t.Errorf("at %v: err = %v, want ErrOutOfOrder", at, err)
		}
	}
	// Rejection leaves the tracked state untouched.
	got, ok := tr.Current()
	if !ok || got != cur {
		t.Errorf("state changed after rejection: %+v", got)
	}
}

func TestIngestImplausible(t *testing.T) {
	tr := New(4)
	now := time.Now()
	if _, err := tr.Ingest(sample("h1", 0, 0, now)); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	// 50 m in one second is far beyond 4 m/s.
	if _, err := tr.Ingest(sample("h1", 50, 0, now.Add(time.Second))); !errors.Is(err, ErrImplausible) {
		t.Fatalf("err = %v, want ErrImplausible", err)
	}
	if !tr.LastAccepted().Equal(now) {
		t.Errorf("rejection advanced the accepted timestamp")
	}
	// A plausible follow-up is still accepted.
	if _, err := tr.Ingest(sample("h1", 2, 0, now.Add(time.Second))); err != nil {
		t.Errorf("plausible sample rejected: %v", err)
	}
}

func TestIngestSpeedCheckDisabled(t *testing.T) {
	tr := New(0)
	now := time.Now()
	if _, err := tr.Ingest(sample("h1", 0, 0, now)); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := tr.Ingest(sample("h1", 500, 0, now.Add(time.Second))); err != nil {
		t.Errorf("disabled bound rejected sample: %v", err)
	}
}

func TestReset(t *testing.T) {
	tr := New(4)
	if _, err := tr.Ingest(sample("h1", 1, 1, time.Now())); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	tr.Reset()
	if _, ok := tr.Current(); ok {
		t.Errorf("state survived reset")
	}
	if !tr.LastAccepted().IsZero() {
		t.Errorf("timestamp survived reset")
	}
	// After reset an older timestamp is acceptable again.
	if _, err := tr.Ingest(sample("h1", 1, 1, time.Now().Add(-time.Hour))); err != nil {
		t.Errorf("post-reset ingest: %v", err)
	}
}
