package core

import (
	"context"
	"errors"
	"strings"
)

// ListOrganisationLedger returns orgID's records, expanded, newest first.
func (s *Service) ListOrganisationLedger(ctx context.Context, orgID string) ([]ExpandedRecord, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, validationf("organisation id is required")
	}
	return s.ListFilteredLedger(ctx, RecordFilter{Organisation: orgID})
}

// ListFilteredLedger returns records matching f with every reference
// expanded, newest first.
func (s *Service) ListFilteredLedger(ctx context.Context, f RecordFilter) ([]ExpandedRecord, error) {
	f, err := f.Normalize()
	if err != nil {
		return nil, err
	}

	recs, err := s.store.FindRecords(ctx, f, 0)
	if err != nil {
		return nil, wrapStorage("find records", err)
	}
	return s.expand(ctx, recs)
}

// RecentLedger returns the newest records across every organisation,
// capped at the configured limit.
func (s *Service) RecentLedger(ctx context.Context) ([]InventoryRecord, error) {
	recs, err := s.store.FindRecords(ctx, RecordFilter{}, s.recentLimit)
	if err != nil {
		return nil, wrapStorage("find recent records", err)
	}
	return recs, nil
}

// ListDonors returns every account referenced as donar anywhere in the ledger.
func (s *Service) ListDonors(ctx context.Context) ([]User, error) {
	return s.referencedUsers(ctx, RefDonor, RecordFilter{})
}

// ListHospitals returns every account referenced as hospital anywhere in the ledger.
func (s *Service) ListHospitals(ctx context.Context) ([]User, error) {
	return s.referencedUsers(ctx, RefHospital, RecordFilter{})
}

// ListCounterpartyOrganisations returns the organisations a donor gave to
// or a hospital received from. Other roles get ErrUnauthorized.
func (s *Service) ListCounterpartyOrganisations(ctx context.Context, userID string) ([]User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotFound
	}
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage("find user", err)
	}

	var f RecordFilter
	switch u.Role {
	case RoleDonor:
		f = RecordFilter{Donor: u.ID, InventoryType: DirectionIn}
	case RoleHospital:
		f = RecordFilter{Hospital: u.ID, InventoryType: DirectionOut}
	default:
		return nil, ErrUnauthorized
	}
	return s.referencedUsers(ctx, RefOrganisation, f)
}

func (s *Service) referencedUsers(ctx context.Context, field RefField, f RecordFilter) ([]User, error) {
	ids, err := s.store.DistinctRefs(ctx, field, f)
	if err != nil {
		return nil, wrapStorage("distinct "+string(field), err)
	}
	if len(ids) == 0 {
		return []User{}, nil
	}
	users, err := s.store.UsersByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, wrapStorage("find users", err)
	}
	return users, nil
}

// expand resolves the references of recs with one directory lookup.
func (s *Service) expand(ctx context.Context, recs []InventoryRecord) ([]ExpandedRecord, error) {
	out := make([]ExpandedRecord, 0, len(recs))
	if len(recs) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.Organisation)
		if r.Donor != "" {
			ids = append(ids, r.Donor)
		}
		if r.Hospital != "" {
			ids = append(ids, r.Hospital)
		}
	}

	users, err := s.store.UsersByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, wrapStorage("expand references", err)
	}
	byID := make(map[string]*User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	for _, r := range recs {
		out = append(out, ExpandedRecord{
			ID:            r.ID,
			InventoryType: r.InventoryType,
			BloodGroup:    r.BloodGroup,
			Quantity:      r.Quantity,
			Email:         r.Email,
			Organisation:  byID[r.Organisation],
			Donor:         byID[r.Donor],
			Hospital:      byID[r.Hospital],
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

// dedupe drops empty and repeated ids, keeping first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
