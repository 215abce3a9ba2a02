package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "StockScan/internal/domain/models"
	drepo "StockScan/internal/domain/repository"
	"StockScan/internal/service/dedup"
	"StockScan/internal/service/dhan"
	"StockScan/internal/usecase"
	"StockScan/pkg/cache"
	xhttp "StockScan/pkg/http"
	xlogger "StockScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubMarket struct{}

func (stubMarket) Fetch(_ context.Context, symbol string, _ drepo.Interval, _ int) (*models.PriceSeries, error) {
	n := 80
	s := &models.PriceSeries{
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		base := 100 + float64(i)
		s.Open[i] = base - 0.5
		s.Close[i] = base
		s.High[i] = base + 1
		s.Low[i] = base - 2
		s.Volume[i] = 1000
	}
	return s, nil
}

func (stubMarket) Health(context.Context) error { return nil }
func (stubMarket) Close() error                 { return nil }

type stubQueue struct {
	types []string
}

func (q *stubQueue) PublishMessage(_ context.Context, msgType string, _ interface{}) error {
	q.types = append(q.types, msgType)
	return nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*echo.Echo, *stubQueue) {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })

	guard := dedup.NewGuard(mc, nil, time.Hour)
	scanner := usecase.NewScanUseCase(stubMarket{}, mc, guard, nil, nil, log)
	broker := dhan.New(xhttp.NewClient(), "https://api.dhan.co")
	orders := usecase.NewOrderUseCase(broker, mc, nil, log)
	admin := usecase.NewCacheAdminUseCase(mc, log)
	jobs := &stubQueue{}

	e := echo.New()
	NewScannerHandler(log, scanner, orders, admin, jobs).RegisterRoutes(e)
	return e, jobs
}

func doJSON(e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestDataEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodGet, "/api/data?symbol=NSE:INFY&n=50", "")
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, body=%s", env.Status, string(env.Data))
	}
	var resp struct {
		Symbol string             `json:"symbol"`
		Bars   int                `json:"bars"`
		Cached bool               `json:"cached"`
		Series models.PriceSeries `json:"series"`
	}
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Symbol != "NSE:INFY" || resp.Bars != 80 || resp.Cached {
		t.Fatalf("data response = %+v", resp)
	}
	if len(resp.Series.Close) != resp.Bars {
		t.Fatalf("series length %d != bars %d", len(resp.Series.Close), resp.Bars)
	}

	// Second read comes from the series cache.
	_, env = doJSON(e, http.MethodGet, "/api/data?symbol=NSE:INFY&n=50", "")
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Cached {
		t.Fatalf("expected cached second read")
	}

	_, env = doJSON(e, http.MethodGet, "/api/data", "")
	if env.Status != http.StatusBadRequest {
		t.Fatalf("missing symbol accepted: %d", env.Status)
	}
}

func TestScanEndpoint(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodPost, "/api/scan", `{"symbols":["NSE:INFY"]}`)
	if env.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, body=%s", env.Status, string(env.Data))
	}
	var resp models.ScanResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Symbol != "NSE:INFY" {
		t.Fatalf("results = %+v", resp.Results)
	}
	if !resp.Results[0].BuySignal {
		t.Fatalf("expected buy signal, got %+v", resp.Results[0])
	}
}

func TestScanEndpointValidation(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodPost, "/api/scan", `{}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("missing symbols accepted: %d", env.Status)
	}

	_, env = doJSON(e, http.MethodPost, "/api/scan", `{"symbols":["NSE:INFY"],"n":3}`)
	if env.Status != http.StatusBadRequest {
		t.Fatalf("n below minimum accepted: %d", env.Status)
	}
}

func TestScanAsyncEndpoint(t *testing.T) {
	e, jobs := newTestServer(t)

	_, env := doJSON(e, http.MethodPost, "/api/scan/async", `{"symbols":["NSE:INFY","NSE:TCS"]}`)
	if env.Status != http.StatusAccepted {
		t.Fatalf("envelope status = %d", env.Status)
	}
	if len(jobs.types) != 1 || jobs.types[0] != usecase.ScanJobType {
		t.Fatalf("enqueued types = %v", jobs.types)
	}
}

func TestOrderEndpoints(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodPost, "/api/order",
		`{"symbol":"NSE:INFY","entry":100,"sl":97,"tp":106,"quantity":5}`)
	if env.Status != http.StatusCreated {
		t.Fatalf("envelope status = %d, data=%s", env.Status, string(env.Data))
	}
	var order models.Order
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(order.OrderID, "paper-") {
		t.Fatalf("order id = %q", order.OrderID)
	}

	_, env = doJSON(e, http.MethodGet, "/api/order/status/"+order.OrderID, "")
	if env.Status != http.StatusOK {
		t.Fatalf("status lookup = %d", env.Status)
	}
	var got models.Order
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != models.OrderFilled {
		t.Fatalf("paper order status = %s", got.Status)
	}
}

func TestOrderEndpointRejectsInvertedStops(t *testing.T) {
	e, _ := newTestServer(t)

	rec, _ := doJSON(e, http.MethodPost, "/api/order",
		`{"symbol":"NSE:INFY","entry":100,"sl":110,"tp":106,"quantity":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("transport status = %d", rec.Code)
	}
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Status == http.StatusCreated {
		t.Fatalf("inverted stop accepted")
	}
}

func TestHealthAndCacheAdmin(t *testing.T) {
	e, _ := newTestServer(t)

	_, env := doJSON(e, http.MethodGet, "/health", "")
	if env.Status != http.StatusOK {
		t.Fatalf("health = %d", env.Status)
	}
	var health struct {
		Status string       `json:"status"`
		Cache  cache.Health `json:"cache"`
	}
	if err := json.Unmarshal(env.Data, &health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Cache.Backend != "memory" || !health.Cache.FallbackActive {
		t.Fatalf("cache health = %+v", health.Cache)
	}

	// Populate and clear scan series entries.
	if _, e2 := doJSON(e, http.MethodPost, "/api/scan", `{"symbols":["NSE:INFY"]}`); e2.Status != http.StatusOK {
		t.Fatalf("scan failed: %d", e2.Status)
	}
	_, env = doJSON(e, http.MethodPost, "/admin/cache/clear", `{"pattern":"scandata:*"}`)
	if env.Status != http.StatusOK {
		t.Fatalf("clear = %d", env.Status)
	}
	var cleared struct {
		Deleted int `json:"deleted"`
	}
	if err := json.Unmarshal(env.Data, &cleared); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cleared.Deleted != 1 {
		t.Fatalf("deleted = %d, want 1", cleared.Deleted)
	}
}
