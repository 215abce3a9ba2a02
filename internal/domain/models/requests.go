package models

// Request DTOs for the scanner HTTP endpoints. Defined in domain for
// consistency and reuse.

type ScanRequest struct {
	Symbols  []string `json:"symbols" validate:"required,min=1,max=100,dive,required"`
	Interval string   `json:"interval" default:"1d" validate:"oneof=15m 1h 1d 1wk"`
	N        int      `json:"n" default:"100" validate:"gte=10,lte=5000"`
}

type DataRequest struct {
	Symbol   string `query:"symbol" validate:"required"`
	Interval string `query:"interval" default:"1d" validate:"oneof=15m 1h 1d 1wk"`
	N        int    `query:"n" default:"100" validate:"gte=10,lte=5000"`
}

type OrderRequest struct {
	Symbol     string  `json:"symbol" validate:"required"`
	Entry      float64 `json:"entry" validate:"required,gt=0"`
	StopLoss   float64 `json:"sl" validate:"required,gt=0"`
	TakeProfit float64 `json:"tp" validate:"required,gt=0"`
	Quantity   int     `json:"quantity" default:"1" validate:"gte=1,lte=1000000"`
}

type OrderStatusRequest struct {
	OrderID string `param:"id" validate:"required,max=50"`
}

type CacheClearRequest struct {
	Pattern string `json:"pattern"`
}
