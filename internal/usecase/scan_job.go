package usecase

import (
	"context"
	"fmt"

	drepo "StockScan/internal/domain/repository"
	"StockScan/pkg/queue"
)

// ScanJobType is the queue message type async scan requests are tagged with.
const ScanJobType = "scan.request"

// ScanJobPayload is the queue payload for one async scan request.
type ScanJobPayload struct {
	Symbols  []string `json:"symbols"`
	Interval string   `json:"interval"`
	Bars     int      `json:"bars"`
}

// ScanJob runs queued scan requests on the worker side of the Redis queue.
type ScanJob struct {
	scanner *ScanUseCase
}

func NewScanJob(scanner *ScanUseCase) *ScanJob {
	return &ScanJob{scanner: scanner}
}

func (j *ScanJob) Name() string { return "scan_job" }
func (j *ScanJob) Type() string { return ScanJobType }

func (j *ScanJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ScanJobPayload](payload)
	if err != nil {
		return fmt.Errorf("scan job payload: %w", err)
	}
	if len(p.Symbols) == 0 {
		return fmt.Errorf("scan job has no symbols")
	}
	_, err = j.scanner.Scan(ctx, ScanParams{
		Symbols:  p.Symbols,
		Interval: drepo.NormalizeInterval(p.Interval),
		Bars:     p.Bars,
	})
	return err
}
