package repository

import (
	"context"
	"fmt"

	"StockScan/internal/domain/models"
	domrepo "StockScan/internal/domain/repository"
	"StockScan/internal/service/ratelimit"
	pkghttp "StockScan/pkg/http"
	applogger "StockScan/pkg/logger"
)

// chartResponse mirrors the v8 chart payload of Yahoo-style quote APIs.
// Quote arrays can contain nulls for halted or missing bars.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// HTTPMarketData implements MarketData against a chart HTTP API.
type HTTPMarketData struct {
	client  *pkghttp.Client
	limiter *ratelimit.Limiter
	baseURL string
	rps     float64
	l       *applogger.Logger
}

type HTTPMarketDataOption func(*HTTPMarketData)

func WithRequestsPerSecond(rps float64) HTTPMarketDataOption {
	return func(m *HTTPMarketData) {
		if rps > 0 {
			m.rps = rps
		}
	}
}

func WithMarketDataLogger(l *applogger.Logger) HTTPMarketDataOption {
	return func(m *HTTPMarketData) { m.l = l }
}

func NewHTTPMarketData(client *pkghttp.Client, baseURL string, opts ...HTTPMarketDataOption) *HTTPMarketData {
	m := &HTTPMarketData{
		client:  client,
		limiter: ratelimit.New(),
		baseURL: baseURL,
		rps:     4,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *HTTPMarketData) Fetch(ctx context.Context, symbol string, interval domrepo.Interval, n int) (*models.PriceSeries, error) {
	// One bucket for the whole upstream, refilled at the configured rate.
	if err := m.limiter.Wait(ctx, "chart", m.rps, m.rps); err != nil {
		return nil, err
	}

	var resp chartResponse
	err := m.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", m.baseURL, symbol),
		QueryParams: map[string][]string{
			"interval": {string(interval)},
			"range":    {rangeForBars(interval, n)},
		},
	}, &resp)
	if err != nil {
		return nil, &models.DataFetchError{Source: "http", Symbol: symbol, Err: err}
	}
	if resp.Chart.Error != nil {
		return nil, &models.DataFetchError{
			Source: "http",
			Symbol: symbol,
			Err:    fmt.Errorf("%s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description),
		}
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, &models.DataFetchError{Source: "http", Symbol: symbol, Err: fmt.Errorf("empty chart result")}
	}

	q := resp.Chart.Result[0].Indicators.Quote[0]
	series := &models.PriceSeries{}
	for i := range q.Close {
		// Drop bars with any missing field so the arrays stay aligned.
		if i >= len(q.Open) || i >= len(q.High) || i >= len(q.Low) || i >= len(q.Volume) {
			break
		}
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil || q.Volume[i] == nil {
			continue
		}
		series.Open = append(series.Open, *q.Open[i])
		series.High = append(series.High, *q.High[i])
		series.Low = append(series.Low, *q.Low[i])
		series.Close = append(series.Close, *q.Close[i])
		series.Volume = append(series.Volume, *q.Volume[i])
	}
	if series.Len() > n {
		trimToLatest(series, n)
	}

	if m.l != nil {
		m.l.Debug("chart fetch ok",
			applogger.String("symbol", symbol),
			applogger.String("interval", string(interval)),
			applogger.Int("bars", series.Len()),
		)
	}
	return series, nil
}

func (m *HTTPMarketData) Health(ctx context.Context) error {
	resp, err := m.client.SendRequest(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    m.baseURL + "/v8/finance/chart/SPY",
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {"5d"},
		},
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("chart api status %d", resp.StatusCode)
	}
	return nil
}

func (m *HTTPMarketData) Close() error { return nil }

// trimToLatest keeps only the newest n bars.
func trimToLatest(ps *models.PriceSeries, n int) {
	cut := ps.Len() - n
	ps.Open = ps.Open[cut:]
	ps.High = ps.High[cut:]
	ps.Low = ps.Low[cut:]
	ps.Close = ps.Close[cut:]
	ps.Volume = ps.Volume[cut:]
}

// rangeForBars maps a bar count to the smallest chart range covering it.
func rangeForBars(iv domrepo.Interval, n int) string {
	switch iv {
	case domrepo.IV15m, domrepo.IV1h:
		if n <= 150 {
			return "1mo"
		}
		return "3mo"
	case domrepo.IV1wk:
		if n <= 104 {
			return "2y"
		}
		return "5y"
	default:
		switch {
		case n <= 20:
			return "1mo"
		case n <= 60:
			return "3mo"
		case n <= 120:
			return "6mo"
		case n <= 250:
			return "1y"
		default:
			return "2y"
		}
	}
}
