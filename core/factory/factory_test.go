package factory

import (
	"strings"
	"testing"
)

type fakeSink struct {
	URL    string
	Bucket string
}

type fakeSinkConf struct {
	URL    string `json:"url"`
	Bucket string `json:"bucket"`
}

func newFakeSink(conf map[string]any) (*fakeSink, error) {
	var c fakeSinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &fakeSink{URL: c.URL, Bucket: c.Bucket}, nil
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*fakeSink]()
	if err := reg.Register("fake", newFakeSink); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err := reg.Create(ModuleConfig{
		Type: "fake",
		Conf: map[string]any{"url": "http://localhost:8086", "bucket": "pred"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if s.URL != "http://localhost:8086" || s.Bucket != "pred" {
		t.Fatalf("decoded config mismatch: %+v", s)
	}
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry[int]()
	for _, n := range []string{"zeta", "alpha", "mid"} {
		if err := reg.Register(n, func(map[string]any) (int, error) { return 0, nil }); err != nil {
			t.Fatalf("register %s: %v", n, err)
		}
	}
	got := reg.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("", func(map[string]any) (int, error) { return 0, nil }); err == nil {
		t.Fatal("expected empty name error")
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	_, err := reg.Create(ModuleConfig{Type: "y"})
	if err == nil {
		t.Fatal("expected unknown type error")
	}
	if !strings.Contains(err.Error(), "x") {
		t.Fatalf("error should list known types, got %v", err)
	}
}
