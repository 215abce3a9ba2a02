package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serveOnce(t *testing.T, e *echo.Echo, path string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
}

func counterValue(route, status string) float64 {
	return testutil.ToFloat64(httpRequestsTotal.WithLabelValues(route, http.MethodGet, status))
}

func TestMetricsCountsHandlerErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "down")
	})
	e.GET("/bare", func(c echo.Context) error {
		return errors.New("unclassified")
	})

	before503 := counterValue("/boom", "503")
	before200 := counterValue("/boom", "200")
	serveOnce(t, e, "/boom")
	if got := counterValue("/boom", "503"); got != before503+1 {
		t.Fatalf("503 count = %v, want %v", got, before503+1)
	}
	if got := counterValue("/boom", "200"); got != before200 {
		t.Fatalf("error response counted as 200")
	}

	before500 := counterValue("/bare", "500")
	serveOnce(t, e, "/bare")
	if got := counterValue("/bare", "500"); got != before500+1 {
		t.Fatalf("500 count = %v, want %v", got, before500+1)
	}
}

func TestMetricsCountsSuccessStatus(t *testing.T) {
	e := echo.New()
	e.Use(Metrics())
	e.GET("/ok", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	before := counterValue("/ok", "204")
	serveOnce(t, e, "/ok")
	if got := counterValue("/ok", "204"); got != before+1 {
		t.Fatalf("204 count = %v, want %v", got, before+1)
	}
}
