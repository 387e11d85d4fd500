package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/BloodBank/internal/core"
	"github.com/JonMunkholm/BloodBank/internal/storage/memory"
)

// failingStore fails every sum for one blood group.
type failingStore struct {
	*memory.Store
	group core.BloodGroup
}

func (s failingStore) SumQuantity(ctx context.Context, q core.SumQuery) (int64, error) {
	if q.BloodGroup == s.group {
		return 0, errors.New("connection reset by peer")
	}
	return s.Store.SumQuantity(ctx, q)
}

func TestBloodGroupReport_FixedOrderWithZeros(t *testing.T) {
	f := newFixture(t, core.Options{})
	f.record(t, f.donor, core.DirectionIn, core.GroupABNeg, 300, f.org.ID)
	f.record(t, f.donor, core.DirectionIn, core.GroupABNeg, 200, f.org2.ID)
	f.record(t, f.hospital, core.DirectionOut, core.GroupABNeg, 120, f.org.ID)

	rows, err := f.svc.BloodGroupReport(context.Background())
	if err != nil {
		t.Fatalf("BloodGroupReport() error = %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("len(rows) = %d, want 8", len(rows))
	}

	for i, want := range core.BloodGroups {
		if rows[i].BloodGroup != want {
			t.Errorf("rows[%d].BloodGroup = %s, want %s", i, rows[i].BloodGroup, want)
		}
		if want == core.GroupABNeg {
			continue
		}
		if rows[i].TotalIn != 0 || rows[i].TotalOut != 0 || rows[i].Available != 0 {
			t.Errorf("rows[%d] = %+v, want zeros", i, rows[i])
		}
	}

	last := rows[7]
	if last.TotalIn != 500 || last.TotalOut != 120 || last.Available != 380 {
		t.Errorf("AB- row = %+v, want in=500 out=120 avail=380", last)
	}
}

func TestBloodGroupReport_AllOrNothing(t *testing.T) {
	store := failingStore{Store: memory.New(), group: core.GroupBNeg}
	svc := core.NewService(store, core.Options{})

	rows, err := svc.BloodGroupReport(context.Background())
	if err == nil {
		t.Fatal("BloodGroupReport() expected error")
	}
	if rows != nil {
		t.Errorf("rows = %+v, want nil on failure", rows)
	}
	if !core.IsStorage(err) {
		t.Errorf("error = %v, want *StorageError", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	f := newFixture(t, core.Options{})
	ctx := context.Background()

	if err := f.svc.RequireAdmin(ctx, f.admin.ID); err != nil {
		t.Errorf("RequireAdmin(admin) error = %v", err)
	}
	for name, id := range map[string]string{
		"empty":        "",
		"unknown":      "no-such-user",
		"donor":        f.donor.ID,
		"organisation": f.org.ID,
	} {
		if err := f.svc.RequireAdmin(ctx, id); !errors.Is(err, core.ErrUnauthorized) {
			t.Errorf("RequireAdmin(%s) error = %v, want ErrUnauthorized", name, err)
		}
	}
}

func TestStockMonitor_FlagsLowGroups(t *testing.T) {
	f := newFixture(t, core.Options{})
	for _, g := range core.BloodGroups {
		f.record(t, f.donor, core.DirectionIn, g, 2000, f.org.ID)
	}
	f.record(t, f.hospital, core.DirectionOut, core.GroupONeg, 1500, f.org.ID)

	low := core.RunStockCheck(f.svc, context.Background(), core.MonitorConfig{LowStockML: 1000})
	if len(low) != 1 || low[0].BloodGroup != core.GroupONeg {
		t.Fatalf("low groups = %+v, want [O-]", low)
	}

	evs := f.events.ofType(core.EventStockLow)
	if len(evs) != 1 {
		t.Fatalf("published %d stock.low events, want 1", len(evs))
	}
	if evs[0].Stock == nil || evs[0].Stock.Available != 500 || evs[0].Threshold != 1000 {
		t.Errorf("stock.low event = %+v", evs[0])
	}
}

func TestStockMonitor_StopsOnCancel(t *testing.T) {
	f := newFixture(t, core.Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.svc.StartStockMonitor(ctx, core.MonitorConfig{LowStockML: 1})
		close(done)
	}()
	cancel()
	<-done
}
