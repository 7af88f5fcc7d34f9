package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Action is a trade recommendation label.
type Action int

// Canonical label order. Classifier outputs, argmax tie-breaks and
// Distribution indexing all follow it.
const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

// Actions lists every label in canonical order.
var Actions = [...]Action{ActionHold, ActionBuy, ActionSell}

func (a Action) String() string {
	switch a {
	case ActionHold:
		return "hold"
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction maps a label string to an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hold":
		return ActionHold, nil
	case "buy":
		return ActionBuy, nil
	case "sell":
		return ActionSell, nil
	default:
		return 0, fmt.Errorf("%w: unknown label %q", ErrLabelMismatch, s)
	}
}

func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Action) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseAction(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Distribution holds one probability per Action, indexed by Action.
// Every label is always present; only final distributions are
// guaranteed to be normalised.
type Distribution [len(Actions)]float64

// PriorDistribution is the smoothing state a fresh orchestrator starts from.
var PriorDistribution = Distribution{ActionHold: 0.34, ActionBuy: 0.33, ActionSell: 0.33}

// Get returns the probability of a.
func (d Distribution) Get(a Action) float64 { return d[a] }

// Sum adds all probabilities.
func (d Distribution) Sum() float64 {
	s := 0.0
	for _, p := range d {
		s += p
	}
	return s
}

// Normalized divides every value by the sum. A zero sum is treated as 1.0
// so an all-zero distribution stays all-zero instead of turning into NaN.
func (d Distribution) Normalized() Distribution {
	total := d.Sum()
	if total == 0 {
		total = 1.0
	}
	var out Distribution
	for i, p := range d {
		out[i] = p / total
	}
	return out
}

// ArgMax returns the most probable action; ties go to the earliest label
// in canonical order.
func (d Distribution) ArgMax() Action {
	best := Actions[0]
	for _, a := range Actions[1:] {
		if d[a] > d[best] {
			best = a
		}
	}
	return best
}

// Map returns the label-keyed form used at the JSON boundary.
func (d Distribution) Map() map[string]float64 {
	m := make(map[string]float64, len(Actions))
	for _, a := range Actions {
		m[a.String()] = d[a]
	}
	return m
}

// DistributionFromMap converts a label-keyed map into a Distribution. The
// label set must match {hold, buy, sell} exactly.
func DistributionFromMap(m map[string]float64) (Distribution, error) {
	var d Distribution
	if len(m) != len(Actions) {
		return d, fmt.Errorf("%w: want %d labels, got %d", ErrLabelMismatch, len(Actions), len(m))
	}
	var seen [len(Actions)]bool
	for k, v := range m {
		a, err := ParseAction(k)
		if err != nil {
			return d, err
		}
		if seen[a] {
			return d, fmt.Errorf("%w: duplicate label %q", ErrLabelMismatch, k)
		}
		seen[a] = true
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return d, fmt.Errorf("%w: probability for %s is %v", ErrInvalidInput, a, v)
		}
		d[a] = v
	}
	return d, nil
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

func (d *Distribution) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	v, err := DistributionFromMap(m)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
