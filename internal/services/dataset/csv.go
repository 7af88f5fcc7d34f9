package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"FinSight/internal/domain/models"
)

// Header is the column layout of the dataset file.
var Header = []string{"ticker", "momentum", "volatility", "pe_ratio", "sector_signal", "liquidity", "action"}

// WriteCSV writes rows with Header. Actions are written as their index
// (0 hold, 1 buy, 2 sell).
func WriteCSV(w io.Writer, rows []models.LabeledAsset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		f := r.Features
		rec := []string{
			r.Ticker,
			formatFloat(f.Momentum),
			formatFloat(f.Volatility),
			formatFloat(f.PERatio),
			strconv.Itoa(f.SectorSignal),
			formatFloat(f.Liquidity),
			strconv.Itoa(int(r.Action)),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a dataset file. Columns are matched by header name; the
// action column is optional and accepts an index or a label.
func ReadCSV(r io.Reader) ([]models.LabeledAsset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty dataset", models.ErrInvalidInput)
		}
		return nil, err
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range Header[:6] {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: dataset is missing column %q", models.ErrInvalidInput, name)
		}
	}

	var out []models.LabeledAsset
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRow(rec []string, col map[string]int) (models.LabeledAsset, error) {
	var row models.LabeledAsset
	var err error
	floats := []struct {
		name string
		dst  *float64
	}{
		{"momentum", &row.Features.Momentum},
		{"volatility", &row.Features.Volatility},
		{"pe_ratio", &row.Features.PERatio},
		{"liquidity", &row.Features.Liquidity},
	}
	for _, f := range floats {
		if *f.dst, err = strconv.ParseFloat(rec[col[f.name]], 64); err != nil {
			return row, fmt.Errorf("%w: %s: %v", models.ErrInvalidInput, f.name, err)
		}
	}
	// pandas may write integer columns as floats
	sector, err := strconv.ParseFloat(rec[col["sector_signal"]], 64)
	if err != nil {
		return row, fmt.Errorf("%w: sector_signal: %v", models.ErrInvalidInput, err)
	}
	row.Features.SectorSignal = int(sector)
	row.Ticker = rec[col["ticker"]]

	if i, ok := col["action"]; ok {
		row.Action, err = parseAction(rec[i])
		if err != nil {
			return row, err
		}
	}
	if err := row.Features.Validate(); err != nil {
		return row, err
	}
	return row, nil
}

func parseAction(s string) (models.Action, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(models.Actions) {
			return 0, fmt.Errorf("%w: action index %d", models.ErrLabelMismatch, n)
		}
		return models.Action(n), nil
	}
	return models.ParseAction(s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
