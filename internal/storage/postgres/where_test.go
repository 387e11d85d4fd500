package postgres

import (
	"testing"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

func TestWhereBuilder(t *testing.T) {
	tests := []struct {
		name       string
		filter     core.RecordFilter
		wantClause string
		wantArgs   []any
	}{
		{
			name:       "empty filter",
			filter:     core.RecordFilter{},
			wantClause: "",
		},
		{
			name:       "single field",
			filter:     core.RecordFilter{BloodGroup: core.GroupAPos},
			wantClause: " WHERE blood_group = $1",
			wantArgs:   []any{"A+"},
		},
		{
			name:       "several fields keep column order",
			filter:     core.RecordFilter{InventoryType: core.DirectionOut, Hospital: "h1", Email: "e@test"},
			wantClause: " WHERE inventory_type = $1 AND hospital_id = $2 AND email = $3",
			wantArgs:   []any{"out", "h1", "e@test"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := recordFilterWhere(tt.filter).Build()
			if clause != tt.wantClause {
				t.Errorf("clause = %q, want %q", clause, tt.wantClause)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestWhereBuilder_RawAndNextIndex(t *testing.T) {
	wb := recordFilterWhere(core.RecordFilter{Donor: "d1"})
	wb.AddRaw("organisation_id IS NOT NULL")

	clause, _ := wb.Build()
	if clause != " WHERE donar_id = $1 AND organisation_id IS NOT NULL" {
		t.Errorf("clause = %q", clause)
	}
	if wb.NextArgIndex() != 2 {
		t.Errorf("NextArgIndex() = %d, want 2", wb.NextArgIndex())
	}
}
