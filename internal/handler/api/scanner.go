package api

import (
	"errors"
	"net/http"

	models "StockScan/internal/domain/models"
	domrepo "StockScan/internal/domain/repository"
	"StockScan/internal/usecase"
	"StockScan/pkg/cache"
	xhttp "StockScan/pkg/http"
	xlogger "StockScan/pkg/logger"
	"StockScan/pkg/queue"

	"github.com/labstack/echo/v4"
)

// ScannerHandler exposes the scan, order and cache-admin endpoints.
type ScannerHandler struct {
	logger  *xlogger.Logger
	scanner *usecase.ScanUseCase
	orders  *usecase.OrderUseCase
	admin   *usecase.CacheAdminUseCase
	jobs    queue.QueueService
}

func NewScannerHandler(
	logger *xlogger.Logger,
	scanner *usecase.ScanUseCase,
	orders *usecase.OrderUseCase,
	admin *usecase.CacheAdminUseCase,
	jobs queue.QueueService,
) *ScannerHandler {
	return &ScannerHandler{
		logger:  logger,
		scanner: scanner,
		orders:  orders,
		admin:   admin,
		jobs:    jobs,
	}
}

func (h *ScannerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/data", h.Data)
	g.POST("/scan", h.Scan)
	g.POST("/scan/async", h.ScanAsync)
	g.POST("/order", h.PlaceOrder)
	g.GET("/order/status/:id", h.OrderStatus)

	admin := e.Group("/admin")
	admin.GET("/cache/health", h.CacheHealth)
	admin.POST("/cache/clear", h.CacheClear)

	e.GET("/health", h.Health)
}

// Data returns the raw OHLCV series for one symbol.
func (h *ScannerHandler) Data(c echo.Context) error {
	req := &models.DataRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	series, cached, err := h.scanner.Series(c.Request().Context(),
		req.Symbol, domrepo.NormalizeInterval(req.Interval), req.N)
	if err != nil {
		h.logger.Error("data fetch error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"symbol": models.NormalizeSymbol(req.Symbol),
		"bars":   series.Len(),
		"cached": cached,
		"series": series,
	})
}

func (h *ScannerHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	resp, err := h.scanner.Scan(c.Request().Context(), usecase.ScanParams{
		Symbols:  req.Symbols,
		Interval: domrepo.NormalizeInterval(req.Interval),
		Bars:     req.N,
	})
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, resp)
}

// ScanAsync enqueues the scan and returns immediately. Results land in
// the cache and on the signals topic as with a synchronous scan.
func (h *ScannerHandler) ScanAsync(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if h.jobs == nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{
			"error": "async scanning is not configured",
		})
	}

	payload := usecase.ScanJobPayload{
		Symbols:  req.Symbols,
		Interval: req.Interval,
		Bars:     req.N,
	}
	if err := h.jobs.PublishMessage(c.Request().Context(), usecase.ScanJobType, payload); err != nil {
		h.logger.Error("scan enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]interface{}{
		"queued":  true,
		"symbols": len(req.Symbols),
	})
}

func (h *ScannerHandler) PlaceOrder(c echo.Context) error {
	req := &models.OrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), usecase.PlaceOrderParams{
		Symbol:        req.Symbol,
		EntryPrice:    req.Entry,
		Quantity:      req.Quantity,
		TargetPrice:   req.TakeProfit,
		StopLossPrice: req.StopLoss,
	})
	if err != nil {
		h.logger.Error("place order error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return errorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, order)
}

func (h *ScannerHandler) OrderStatus(c echo.Context) error {
	req := &models.OrderStatusRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	order, err := h.orders.GetOrderStatus(c.Request().Context(), req.OrderID)
	if err != nil {
		h.logger.Error("order status error",
			xlogger.String("order_id", req.OrderID),
			xlogger.Error(err),
		)
		return errorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, order)
}

// errorResponse maps domain validation failures to a 400 envelope;
// everything else goes through the app error path.
func errorResponse(c echo.Context, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		appErr := xhttp.BadRequestError(verr.Message)
		appErr.Field = verr.Field
		return xhttp.BadRequestResponse(c, []*xhttp.AppError{appErr})
	}
	return xhttp.AppErrorResponse(c, err)
}

// Health reports overall service health from the cache backend state.
func (h *ScannerHandler) Health(c echo.Context) error {
	health := h.admin.Health(c.Request().Context())
	status := http.StatusOK
	if health.Status == cache.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	return xhttp.DataResponse(c, status, map[string]interface{}{
		"status": health.Status,
		"cache":  health,
	})
}

func (h *ScannerHandler) CacheHealth(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.admin.Health(c.Request().Context()))
}

func (h *ScannerHandler) CacheClear(c echo.Context) error {
	req := &models.CacheClearRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	deleted, err := h.admin.Clear(c.Request().Context(), req.Pattern)
	if err != nil {
		h.logger.Error("cache clear error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"deleted": deleted,
		"pattern": req.Pattern,
	})
}
