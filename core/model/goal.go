package model

import "fmt"

// Goal is a candidate destination the human may be walking toward. The
// goal set is fixed for the lifetime of a tracking session.
type Goal struct {
	ID       string  `json:"id"`
	Location Point   `json:"location"`
	Prior    float64 `json:"prior"`
}

// NormalizeGoals validates a goal set and rescales the priors so they
// sum to 1. Goals with missing IDs or negative priors are rejected.
func NormalizeGoals(goals []Goal) ([]Goal, error) {
	if len(goals) == 0 {
		return nil, fmt.Errorf("goal set must not be empty")
	}
	sum := 0.0
	for _, g := range goals {
		if g.ID == "" {
			return nil, fmt.Errorf("goal with empty id")
		}
		if g.Prior < 0 {
			return nil, fmt.Errorf("goal %s: negative prior %v", g.ID, g.Prior)
		}
		sum += g.Prior
	}
	if sum <= 0 {
		return nil, fmt.Errorf("goal priors sum to zero")
	}
	out := make([]Goal, len(goals))
	for i, g := range goals {
		g.Prior /= sum
		out[i] = g
	}
	return out, nil
}
