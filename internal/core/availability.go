package core

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Available derives the stock of group within scope. Both sums run
// concurrently; either failing fails the call. A negative result is
// reported as-is.
func (s *Service) Available(ctx context.Context, scope Scope, group BloodGroup) (Availability, error) {
	var totalIn, totalOut int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.SumQuantity(gctx, SumQuery{Scope: scope, BloodGroup: group, Direction: DirectionIn})
		totalIn = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.SumQuantity(gctx, SumQuery{Scope: scope, BloodGroup: group, Direction: DirectionOut})
		totalOut = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Availability{}, wrapStorage("sum quantity", err)
	}

	return newAvailability(group, totalIn, totalOut), nil
}

// AvailableForOrganisation is Available scoped to orgID with a raw group name.
func (s *Service) AvailableForOrganisation(ctx context.Context, orgID, group string) (Availability, error) {
	if strings.TrimSpace(orgID) == "" {
		return Availability{}, validationf("organisation id is required")
	}
	bg, err := ParseBloodGroup(group)
	if err != nil {
		return Availability{}, err
	}
	return s.Available(ctx, ForOrganisation(orgID), bg)
}
