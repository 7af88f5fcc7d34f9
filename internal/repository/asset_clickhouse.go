package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"FinSight/internal/domain/models"
	domrepo "FinSight/internal/domain/repository"
	applogger "FinSight/pkg/logger"
)

const assetColumns = "ticker, momentum, volatility, pe_ratio, sector_signal, liquidity, action"

// AssetsSchema returns the DDL for the reference dataset table.
func AssetsSchema(table string) []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ticker        String,
            momentum      Float64,
            volatility    Float64,
            pe_ratio      Float64,
            sector_signal Int8,
            liquidity     Float64,
            action        UInt8
        ) ENGINE = ReplacingMergeTree
        ORDER BY ticker`, table)}
}

// CHAssetSource implements AssetSource backed by a ClickHouse table.
type CHAssetSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHAssetSource(db *sql.DB, table string, l *applogger.Logger) *CHAssetSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &CHAssetSource{db: db, table: table, l: l}
}

var _ domrepo.AssetSource = (*CHAssetSource)(nil)

func (s *CHAssetSource) Sample(ctx context.Context) (models.AssetSample, error) {
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY rand() LIMIT 1", assetColumns, s.table)
	return s.queryOne(ctx, "sample", q)
}

func (s *CHAssetSource) Lookup(ctx context.Context, ticker string) (models.AssetSample, error) {
	q := fmt.Sprintf("SELECT %s FROM %s FINAL WHERE ticker = ? LIMIT 1", assetColumns, s.table)
	return s.queryOne(ctx, "lookup", q, ticker)
}

func (s *CHAssetSource) queryOne(ctx context.Context, op, q string, args ...interface{}) (models.AssetSample, error) {
	var (
		row    models.LabeledAsset
		sector int8
		action uint8
	)
	f := &row.Features
	err := s.db.QueryRowContext(ctx, q, args...).
		Scan(&row.Ticker, &f.Momentum, &f.Volatility, &f.PERatio, &sector, &f.Liquidity, &action)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AssetSample{}, fmt.Errorf("%w: no asset for %s", models.ErrNotFound, op)
	}
	if err != nil {
		s.l.Error("clickhouse asset query error",
			applogger.String("table", s.table),
			applogger.String("op", op),
			applogger.Error(err),
		)
		return models.AssetSample{}, fmt.Errorf("asset %s: %w", op, err)
	}
	f.SectorSignal = int(sector)
	return row.AssetSample, nil
}

// InsertAssets writes rows using multi-row VALUES in chunks.
func (s *CHAssetSource) InsertAssets(ctx context.Context, rows []models.LabeledAsset) error {
	const chunkSize = 500
	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, r := range rows[start:end] {
			f := r.Features
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, r.Ticker, f.Momentum, f.Volatility, f.PERatio,
				int8(f.SectorSignal), f.Liquidity, uint8(r.Action))
		}
		q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, assetColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert assets: %w", err)
		}
	}
	return nil
}
