package core

import (
	"errors"
	"testing"
)

func TestAttributionTable_Complete(t *testing.T) {
	for _, p := range []AttributionPolicy{PolicyScoped, PolicyObserved} {
		for _, r := range []Role{RoleAdmin, RoleDonor, RoleHospital, RoleOrganisation} {
			for _, d := range []Direction{DirectionIn, DirectionOut} {
				if _, err := ruleFor(p, r, d); err != nil {
					t.Errorf("ruleFor(%s, %s, %s) error = %v", p, r, d, err)
				}
			}
		}
	}
}

func TestAttributionRule_Apply(t *testing.T) {
	const ctxOrg = "org-ctx"

	tests := []struct {
		name         string
		policy       AttributionPolicy
		role         Role
		dir          Direction
		wantOrg      string
		wantDonor    string
		wantHospital string
		wantCheck    string // "" means unchecked
	}{
		{"observed org in", PolicyObserved, RoleOrganisation, DirectionIn, "actor", "", "", ""},
		{"observed org out", PolicyObserved, RoleOrganisation, DirectionOut, "actor", "", "", ""},
		{"observed hospital out", PolicyObserved, RoleHospital, DirectionOut, "actor", "", "", ""},
		{"observed donor in", PolicyObserved, RoleDonor, DirectionIn, "actor", "actor", "", ""},
		{"observed donor out", PolicyObserved, RoleDonor, DirectionOut, "actor", "", "actor", ctxOrg},
		{"observed admin out", PolicyObserved, RoleAdmin, DirectionOut, "actor", "", "actor", ctxOrg},

		{"scoped org in", PolicyScoped, RoleOrganisation, DirectionIn, "actor", "", "", ""},
		{"scoped org out", PolicyScoped, RoleOrganisation, DirectionOut, "actor", "", "", "actor"},
		{"scoped hospital in", PolicyScoped, RoleHospital, DirectionIn, "actor", "", "", ""},
		{"scoped hospital out", PolicyScoped, RoleHospital, DirectionOut, ctxOrg, "", "actor", ctxOrg},
		{"scoped donor in", PolicyScoped, RoleDonor, DirectionIn, ctxOrg, "actor", "", ""},
		{"scoped donor out", PolicyScoped, RoleDonor, DirectionOut, ctxOrg, "", "actor", ctxOrg},
		{"scoped admin in", PolicyScoped, RoleAdmin, DirectionIn, ctxOrg, "actor", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := ruleFor(tt.policy, tt.role, tt.dir)
			if err != nil {
				t.Fatalf("ruleFor() error = %v", err)
			}
			rec := InventoryRecord{InventoryType: tt.dir, BloodGroup: GroupANeg, Quantity: 50}
			check, err := rule.apply(User{ID: "actor", Role: tt.role}, ctxOrg, &rec)
			if err != nil {
				t.Fatalf("apply() error = %v", err)
			}

			if rec.Organisation != tt.wantOrg {
				t.Errorf("Organisation = %q, want %q", rec.Organisation, tt.wantOrg)
			}
			if rec.Donor != tt.wantDonor {
				t.Errorf("Donor = %q, want %q", rec.Donor, tt.wantDonor)
			}
			if rec.Hospital != tt.wantHospital {
				t.Errorf("Hospital = %q, want %q", rec.Hospital, tt.wantHospital)
			}

			switch {
			case tt.wantCheck == "" && check != nil:
				t.Errorf("check = %+v, want none", check)
			case tt.wantCheck != "" && check == nil:
				t.Errorf("check = nil, want scope %q", tt.wantCheck)
			case check != nil:
				if check.Organisation != tt.wantCheck || check.Quantity != 50 || check.BloodGroup != GroupANeg {
					t.Errorf("check = %+v, want {%s A- 50}", check, tt.wantCheck)
				}
			}
		})
	}
}

func TestAttributionRule_MissingContext(t *testing.T) {
	rule, _ := ruleFor(PolicyScoped, RoleDonor, DirectionIn)
	rec := InventoryRecord{InventoryType: DirectionIn}

	_, err := rule.apply(User{ID: "actor", Role: RoleDonor}, "", &rec)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("apply() error = %v, want ErrValidation", err)
	}
}

func TestParseAttributionPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    AttributionPolicy
		wantErr bool
	}{
		{"", PolicyScoped, false},
		{"scoped", PolicyScoped, false},
		{"OBSERVED", PolicyObserved, false},
		{"legacy", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAttributionPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAttributionPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseAttributionPolicy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
