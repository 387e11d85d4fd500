package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BloodGroupRow is one line of the analytics report.
type BloodGroupRow = Availability

// BloodGroupReport returns unscoped totals for all eight groups in
// BloodGroups order. Groups are aggregated concurrently; any failure
// fails the whole report.
func (s *Service) BloodGroupReport(ctx context.Context) ([]BloodGroupRow, error) {
	rows := make([]BloodGroupRow, len(BloodGroups))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range BloodGroups {
		g.Go(func() error {
			row, err := s.Available(gctx, Global(), group)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}
