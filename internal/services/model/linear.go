package model

import (
	"context"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"FinSight/internal/domain/models"
	domsvc "FinSight/internal/domain/service"
)

// LinearClassifier is an in-process multinomial logistic model: one weight
// row and bias per class, softmax over the logits.
type LinearClassifier struct {
	Weights [3][5]float64
	Bias    [3]float64
}

// DefaultLinearClassifier returns weights fitted to the labelling rule of the
// synthetic reference dataset: score = 2m - 1.5v - 0.01(pe-15) + 0.5s + 0.5l,
// buy above roughly 0.19, sell below roughly -0.10, hold in between.
func DefaultLinearClassifier() *LinearClassifier {
	score := [5]float64{2, -1.5, -0.01, 0.5, 0.5}
	const gain = 12.0
	var m LinearClassifier
	for j, w := range score {
		m.Weights[models.ActionBuy][j] = gain * w
		m.Weights[models.ActionSell][j] = -gain * w
	}
	m.Bias[models.ActionBuy] = gain * (0.15 - 0.19)
	m.Bias[models.ActionSell] = -gain * (0.15 + 0.10)
	return &m
}

// PredictProba never fails; the error is part of the Classifier contract.
func (m *LinearClassifier) PredictProba(_ context.Context, x [5]float64) ([3]float64, error) {
	var logits [3]float64
	maxLogit := math.Inf(-1)
	for k := range logits {
		z := m.Bias[k]
		for j := range x {
			z += m.Weights[k][j] * x[j]
		}
		logits[k] = z
		maxLogit = math.Max(maxLogit, z)
	}
	var out [3]float64
	sum := 0.0
	for k, z := range logits {
		out[k] = math.Exp(z - maxLogit)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
	return out, nil
}

// linearFile is the YAML layout of a linear model file.
//
//	weights:
//	  hold: [0, 0, 0, 0, 0]
//	  buy:  [24, -18, -0.12, 6, 6]
//	  sell: [-24, 18, 0.12, -6, -6]
//	bias: {hold: 0, buy: -0.48, sell: -3.0}
type linearFile struct {
	Weights map[string][]float64 `yaml:"weights"`
	Bias    map[string]float64   `yaml:"bias"`
}

// LoadLinearClassifier reads a linear model file.
func LoadLinearClassifier(path string) (*LinearClassifier, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var lf linearFile
	if err := yaml.Unmarshal(b, &lf); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return lf.classifier()
}

func (lf linearFile) classifier() (*LinearClassifier, error) {
	if len(lf.Weights) != len(models.Actions) {
		return nil, fmt.Errorf("%w: model defines %d weight rows", models.ErrLabelMismatch, len(lf.Weights))
	}
	var m LinearClassifier
	for label, row := range lf.Weights {
		a, err := models.ParseAction(label)
		if err != nil {
			return nil, err
		}
		if len(row) != 5 {
			return nil, fmt.Errorf("%w: %s has %d weights, want 5", models.ErrInvalidInput, a, len(row))
		}
		copy(m.Weights[a][:], row)
	}
	for label, b := range lf.Bias {
		a, err := models.ParseAction(label)
		if err != nil {
			return nil, err
		}
		m.Bias[a] = b
	}
	return &m, nil
}

var _ domsvc.Classifier = (*LinearClassifier)(nil)
