package core

// monitor.go runs a background low-stock check.
//
// Each pass computes the global analytics report and, for every group whose
// available quantity is below the threshold, logs a warning and publishes a
// stock.low event. A failed pass is logged and the loop carries on.

import (
	"context"
	"log/slog"
	"time"
)

// MonitorConfig holds configuration for the stock monitor.
type MonitorConfig struct {
	Interval   time.Duration // How often to run (default: 15m)
	LowStockML int64         // Warn below this many millilitres
}

// StartStockMonitor runs a check immediately, then every cfg.Interval,
// until ctx is cancelled.
func (s *Service) StartStockMonitor(ctx context.Context, cfg MonitorConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}

	slog.Info("stock monitor started",
		"interval", cfg.Interval.String(),
		"low_stock_ml", cfg.LowStockML,
	)

	s.runStockCheck(ctx, cfg)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("stock monitor stopped")
			return
		case <-ticker.C:
			s.runStockCheck(ctx, cfg)
		}
	}
}

// runStockCheck performs one pass and returns the groups found low.
func (s *Service) runStockCheck(ctx context.Context, cfg MonitorConfig) []BloodGroupRow {
	start := time.Now()

	rows, err := s.BloodGroupReport(ctx)
	if err != nil {
		slog.Error("stock check failed", "error", err)
		return nil
	}

	var low []BloodGroupRow
	for _, row := range rows {
		if row.Available >= cfg.LowStockML {
			continue
		}
		low = append(low, row)

		slog.Warn("low blood stock",
			"blood_group", row.BloodGroup,
			"available_ml", row.Available,
			"threshold_ml", cfg.LowStockML,
		)
		stock := row
		s.publish(ctx, Event{
			Type:      EventStockLow,
			Key:       string(row.BloodGroup),
			Stock:     &stock,
			Threshold: cfg.LowStockML,
			Timestamp: s.now(),
		})
	}

	slog.Debug("stock check completed",
		"low_groups", len(low),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return low
}
