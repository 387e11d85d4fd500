// Package memory provides an in-process core.Store for tests and local runs.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// Store keeps users and ledger records in memory.
type Store struct {
	mu      sync.RWMutex
	users   map[string]core.User
	byEmail map[string]string
	records []core.InventoryRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]core.User),
		byEmail: make(map[string]string),
	}
}

// Verify interface compliance
var _ core.Store = (*Store)(nil)

// CreateUser inserts u, rejecting a taken id or email.
func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return fmt.Errorf("email %s: %w", u.Email, core.ErrConflict)
	}
	if _, ok := s.users[u.ID]; ok {
		return fmt.Errorf("user id %s: %w", u.ID, core.ErrConflict)
	}
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID
	return nil
}

// UserByID returns the user with id.
func (s *Store) UserByID(_ context.Context, id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return u, nil
}

// UserByEmail returns the user registered with email.
func (s *Store) UserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return core.User{}, core.ErrNotFound
	}
	return s.users[id], nil
}

// UsersByIDs returns the users that exist, in the order requested.
func (s *Store) UsersByIDs(_ context.Context, ids []string) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// UsersByRole returns users of role, newest first.
func (s *Store) UsersByRole(_ context.Context, role core.Role) ([]core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []core.User{}
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AppendRecord checks stock and appends rec under one write lock.
func (s *Store) AppendRecord(_ context.Context, rec core.InventoryRecord, check *core.StockCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if check != nil {
		var totalIn, totalOut int64
		for _, r := range s.records {
			if r.Organisation != check.Organisation || r.BloodGroup != check.BloodGroup {
				continue
			}
			if r.InventoryType == core.DirectionIn {
				totalIn += r.Quantity
			} else {
				totalOut += r.Quantity
			}
		}
		if available := totalIn - totalOut; check.Quantity > available {
			return &core.InsufficientStockError{
				BloodGroup: check.BloodGroup,
				Available:  available,
				Requested:  check.Quantity,
			}
		}
	}

	s.records = append(s.records, rec)
	return nil
}

// SumQuantity totals matching records.
func (s *Store) SumQuantity(_ context.Context, q core.SumQuery) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, r := range s.records {
		if r.BloodGroup != q.BloodGroup || r.InventoryType != q.Direction {
			continue
		}
		if !q.Scope.IsGlobal() && r.Organisation != q.Scope.Organisation {
			continue
		}
		total += r.Quantity
	}
	return total, nil
}

// FindRecords returns matching records newest first.
func (s *Store) FindRecords(_ context.Context, f core.RecordFilter, limit int) ([]core.InventoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk backwards so equal timestamps keep newest-appended first.
	out := []core.InventoryRecord{}
	for i := len(s.records) - 1; i >= 0; i-- {
		if f.Matches(s.records[i]) {
			out = append(out, s.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DistinctRefs returns distinct non-empty values of field among matching records.
func (s *Store) DistinctRefs(_ context.Context, field core.RefField, f core.RecordFilter) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range s.records {
		if !f.Matches(r) {
			continue
		}
		var v string
		switch field {
		case core.RefOrganisation:
			v = r.Organisation
		case core.RefDonor:
			v = r.Donor
		case core.RefHospital:
			v = r.Hospital
		default:
			return nil, fmt.Errorf("unknown reference field %q", field)
		}
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Len returns the number of ledger records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
