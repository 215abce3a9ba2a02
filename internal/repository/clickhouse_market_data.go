package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockScan/internal/domain/models"
	domrepo "StockScan/internal/domain/repository"
	pkgch "StockScan/pkg/clickhouse"
	applogger "StockScan/pkg/logger"
)

// CHMarketData implements MarketData backed by ClickHouse candle tables.
// Used when the scanner runs next to an ingestion pipeline that already
// lands OHLCV bars in ClickHouse.
type CHMarketData struct {
	client *pkgch.Client
	db     *sql.DB
	l      *applogger.Logger
}

func NewCHMarketData(ch *pkgch.Client) *CHMarketData {
	return &CHMarketData{client: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHMarketData) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHMarketData) Fetch(ctx context.Context, symbol string, interval domrepo.Interval, n int) (*models.PriceSeries, error) {
	start := time.Now()
	table, err := tableForInterval(interval)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT open, high, low, close, vol
        FROM %s
        WHERE symbol = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse fetch query error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.String("interval", string(interval)),
				applogger.Error(err),
			)
		}
		return nil, &models.DataFetchError{Source: "clickhouse", Symbol: symbol, Err: err}
	}
	defer rows.Close()

	series := &models.PriceSeries{
		Open:   make([]float64, 0, n),
		High:   make([]float64, 0, n),
		Low:    make([]float64, 0, n),
		Close:  make([]float64, 0, n),
		Volume: make([]float64, 0, n),
	}
	for rows.Next() {
		var o, h, l, c, v float64
		if err := rows.Scan(&o, &h, &l, &c, &v); err != nil {
			return nil, &models.DataFetchError{Source: "clickhouse", Symbol: symbol, Err: err}
		}
		series.Open = append(series.Open, o)
		series.High = append(series.High, h)
		series.Low = append(series.Low, l)
		series.Close = append(series.Close, c)
		series.Volume = append(series.Volume, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &models.DataFetchError{Source: "clickhouse", Symbol: symbol, Err: err}
	}
	reverseSeries(series)

	if s.l != nil {
		s.l.Info("clickhouse fetch ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.String("interval", string(interval)),
			applogger.Int("bars", series.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CHMarketData) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHMarketData) Close() error {
	return s.client.Close()
}

// reverseSeries flips DESC query output back to chronological order.
func reverseSeries(ps *models.PriceSeries) {
	for i, j := 0, ps.Len()-1; i < j; i, j = i+1, j-1 {
		ps.Open[i], ps.Open[j] = ps.Open[j], ps.Open[i]
		ps.High[i], ps.High[j] = ps.High[j], ps.High[i]
		ps.Low[i], ps.Low[j] = ps.Low[j], ps.Low[i]
		ps.Close[i], ps.Close[j] = ps.Close[j], ps.Close[i]
		ps.Volume[i], ps.Volume[j] = ps.Volume[j], ps.Volume[i]
	}
}

func tableForInterval(iv domrepo.Interval) (string, error) {
	switch iv {
	case domrepo.IV15m:
		return "stockscan.candles_15m", nil
	case domrepo.IV1h:
		return "stockscan.candles_1h", nil
	case domrepo.IV1d:
		return "stockscan.candles_1d", nil
	case domrepo.IV1wk:
		// weekly bars are aggregated from daily at query time elsewhere;
		// serve daily here and let the caller request a larger n
		return "stockscan.candles_1d", nil
	default:
		return "", fmt.Errorf("unsupported interval: %s", iv)
	}
}
