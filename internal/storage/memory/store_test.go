package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func record(id string, dir core.Direction, qty int64, org string, at time.Time) core.InventoryRecord {
	return core.InventoryRecord{
		ID:            id,
		InventoryType: dir,
		BloodGroup:    core.GroupOPos,
		Quantity:      qty,
		Email:         "staff@org.test",
		Organisation:  org,
		CreatedAt:     at,
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.CreateUser(ctx, core.User{ID: "u1", Email: "a@test"}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	err := s.CreateUser(ctx, core.User{ID: "u2", Email: "a@test"})
	if !errors.Is(err, core.ErrConflict) {
		t.Fatalf("CreateUser() duplicate email error = %v, want ErrConflict", err)
	}
}

func TestUserLookups(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.CreateUser(ctx, core.User{ID: "u1", Email: "a@test", Role: core.RoleDonor, CreatedAt: t0})
	_ = s.CreateUser(ctx, core.User{ID: "u2", Email: "b@test", Role: core.RoleDonor, CreatedAt: t0.Add(time.Hour)})
	_ = s.CreateUser(ctx, core.User{ID: "u3", Email: "c@test", Role: core.RoleHospital, CreatedAt: t0})

	if _, err := s.UserByID(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UserByID(missing) error = %v, want ErrNotFound", err)
	}
	u, err := s.UserByEmail(ctx, "b@test")
	if err != nil || u.ID != "u2" {
		t.Errorf("UserByEmail(b@test) = %v, %v; want u2", u.ID, err)
	}

	users, _ := s.UsersByIDs(ctx, []string{"u3", "gone", "u1"})
	if len(users) != 2 || users[0].ID != "u3" || users[1].ID != "u1" {
		t.Errorf("UsersByIDs() = %+v, want [u3 u1]", users)
	}

	donors, _ := s.UsersByRole(ctx, core.RoleDonor)
	if len(donors) != 2 || donors[0].ID != "u2" {
		t.Errorf("UsersByRole(donar) = %+v, want newest (u2) first", donors)
	}
}

func TestAppendRecord_StockCheck(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.AppendRecord(ctx, record("r1", core.DirectionIn, 500, "orgA", t0), nil)
	_ = s.AppendRecord(ctx, record("r2", core.DirectionIn, 900, "orgB", t0), nil)

	check := &core.StockCheck{Organisation: "orgA", BloodGroup: core.GroupOPos, Quantity: 600}
	err := s.AppendRecord(ctx, record("r3", core.DirectionOut, 600, "orgA", t0), check)

	var ise *core.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("AppendRecord() error = %v, want InsufficientStockError", err)
	}
	if ise.Available != 500 {
		t.Errorf("Available = %d, want 500", ise.Available)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (nothing written)", s.Len())
	}

	check.Quantity = 500
	if err := s.AppendRecord(ctx, record("r4", core.DirectionOut, 500, "orgA", t0), check); err != nil {
		t.Fatalf("AppendRecord() exact withdrawal error = %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestAppendRecord_StockCheckReportsNegativeBalance(t *testing.T) {
	s := New()
	ctx := context.Background()
	// Unchecked withdrawal drives orgA below zero.
	_ = s.AppendRecord(ctx, record("r1", core.DirectionOut, 50, "orgA", t0), nil)

	check := &core.StockCheck{Organisation: "orgA", BloodGroup: core.GroupOPos, Quantity: 10}
	err := s.AppendRecord(ctx, record("r2", core.DirectionOut, 10, "orgA", t0), check)

	var ise *core.InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("AppendRecord() error = %v, want InsufficientStockError", err)
	}
	if ise.Available != -50 {
		t.Errorf("Available = %d, want -50", ise.Available)
	}
	if got, want := ise.Message(), "Only -50 ML of O+ is available"; got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}
}

func TestSumQuantity_Scope(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.AppendRecord(ctx, record("r1", core.DirectionIn, 100, "orgA", t0), nil)
	_ = s.AppendRecord(ctx, record("r2", core.DirectionIn, 250, "orgB", t0), nil)
	_ = s.AppendRecord(ctx, record("r3", core.DirectionOut, 40, "orgA", t0), nil)

	tests := []struct {
		name string
		q    core.SumQuery
		want int64
	}{
		{"global in", core.SumQuery{Scope: core.Global(), BloodGroup: core.GroupOPos, Direction: core.DirectionIn}, 350},
		{"scoped in", core.SumQuery{Scope: core.ForOrganisation("orgA"), BloodGroup: core.GroupOPos, Direction: core.DirectionIn}, 100},
		{"scoped out", core.SumQuery{Scope: core.ForOrganisation("orgA"), BloodGroup: core.GroupOPos, Direction: core.DirectionOut}, 40},
		{"other group", core.SumQuery{Scope: core.Global(), BloodGroup: core.GroupABNeg, Direction: core.DirectionIn}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.SumQuantity(ctx, tt.q)
			if err != nil {
				t.Fatalf("SumQuantity() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SumQuantity() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindRecords_NewestFirstWithLimit(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.AppendRecord(ctx, record("old", core.DirectionIn, 1, "orgA", t0), nil)
	_ = s.AppendRecord(ctx, record("new", core.DirectionIn, 1, "orgA", t0.Add(2*time.Hour)), nil)
	_ = s.AppendRecord(ctx, record("mid", core.DirectionIn, 1, "orgB", t0.Add(time.Hour)), nil)

	all, _ := s.FindRecords(ctx, core.RecordFilter{}, 0)
	if len(all) != 3 || all[0].ID != "new" || all[1].ID != "mid" || all[2].ID != "old" {
		t.Errorf("FindRecords() order = %v, want [new mid old]", ids(all))
	}

	capped, _ := s.FindRecords(ctx, core.RecordFilter{}, 2)
	if len(capped) != 2 {
		t.Errorf("FindRecords(limit 2) len = %d, want 2", len(capped))
	}

	orgA, _ := s.FindRecords(ctx, core.RecordFilter{Organisation: "orgA"}, 0)
	if len(orgA) != 2 {
		t.Errorf("FindRecords(orgA) len = %d, want 2", len(orgA))
	}
}

func TestDistinctRefs(t *testing.T) {
	s := New()
	ctx := context.Background()
	in := func(id, donor string) core.InventoryRecord {
		r := record(id, core.DirectionIn, 10, "orgA", t0)
		r.Donor = donor
		return r
	}
	_ = s.AppendRecord(ctx, in("r1", "d1"), nil)
	_ = s.AppendRecord(ctx, in("r2", "d1"), nil)
	_ = s.AppendRecord(ctx, in("r3", "d2"), nil)
	_ = s.AppendRecord(ctx, record("r4", core.DirectionIn, 10, "orgB", t0), nil)

	donors, err := s.DistinctRefs(ctx, core.RefDonor, core.RecordFilter{})
	if err != nil {
		t.Fatalf("DistinctRefs() error = %v", err)
	}
	if len(donors) != 2 {
		t.Errorf("DistinctRefs(donar) = %v, want 2 distinct ids", donors)
	}

	orgs, _ := s.DistinctRefs(ctx, core.RefOrganisation, core.RecordFilter{Donor: "d1"})
	if len(orgs) != 1 || orgs[0] != "orgA" {
		t.Errorf("DistinctRefs(organisation, donar=d1) = %v, want [orgA]", orgs)
	}
}

func ids(recs []core.InventoryRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
