package repository

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	"FinSight/internal/services/dataset"
)

// CSVAssetSource serves samples from a dataset file loaded into memory.
type CSVAssetSource struct {
	rows     []models.LabeledAsset
	byTicker map[string]int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCSVAssetSource loads the dataset at path.
func NewCSVAssetSource(path string, seed int64) (*CSVAssetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	rows, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return NewMemoryAssetSource(rows, seed), nil
}

// NewMemoryAssetSource serves samples from rows already in memory.
func NewMemoryAssetSource(rows []models.LabeledAsset, seed int64) *CSVAssetSource {
	idx := make(map[string]int, len(rows))
	for i, r := range rows {
		idx[r.Ticker] = i
	}
	return &CSVAssetSource{
		rows:     rows,
		byTicker: idx,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

var _ domrepo.AssetSource = (*CSVAssetSource)(nil)

func (s *CSVAssetSource) Sample(_ context.Context) (models.AssetSample, error) {
	if len(s.rows) == 0 {
		return models.AssetSample{}, fmt.Errorf("%w: dataset is empty", models.ErrNotFound)
	}
	s.mu.Lock()
	i := s.rng.Intn(len(s.rows))
	s.mu.Unlock()
	return s.rows[i].AssetSample, nil
}

func (s *CSVAssetSource) Lookup(_ context.Context, ticker string) (models.AssetSample, error) {
	i, ok := s.byTicker[ticker]
	if !ok {
		return models.AssetSample{}, fmt.Errorf("%w: ticker %q", models.ErrNotFound, ticker)
	}
	return s.rows[i].AssetSample, nil
}

// Len is the number of rows served.
func (s *CSVAssetSource) Len() int { return len(s.rows) }
