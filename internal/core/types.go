package core

import (
	"fmt"
	"strings"
	"time"
)

// Role is the kind of account in the user directory.
type Role string

// The wire spelling "donar" is kept for compatibility with existing clients.
const (
	RoleAdmin        Role = "admin"
	RoleDonor        Role = "donar"
	RoleHospital     Role = "hospital"
	RoleOrganisation Role = "organisation"
)

var roleAliases = map[string]Role{
	"admin":        RoleAdmin,
	"donar":        RoleDonor,
	"donor":        RoleDonor,
	"hospital":     RoleHospital,
	"organisation": RoleOrganisation,
	"organization": RoleOrganisation,
}

// ParseRole normalises a role name, accepting common alternate spellings.
func ParseRole(s string) (Role, error) {
	if r, ok := roleAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: invalid role %q", ErrValidation, s)
}

// Direction is the movement direction of a ledger record.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// ParseDirection validates an inventory type.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionIn, DirectionOut:
		return d, nil
	}
	return "", fmt.Errorf("%w: invalid inventory type %q", ErrValidation, s)
}

// BloodGroup is one of the eight ABO/Rh groups.
type BloodGroup string

const (
	GroupOPos  BloodGroup = "O+"
	GroupONeg  BloodGroup = "O-"
	GroupAPos  BloodGroup = "A+"
	GroupANeg  BloodGroup = "A-"
	GroupBPos  BloodGroup = "B+"
	GroupBNeg  BloodGroup = "B-"
	GroupABPos BloodGroup = "AB+"
	GroupABNeg BloodGroup = "AB-"
)

// BloodGroups lists every group in report order.
var BloodGroups = []BloodGroup{
	GroupOPos, GroupONeg,
	GroupAPos, GroupANeg,
	GroupBPos, GroupBNeg,
	GroupABPos, GroupABNeg,
}

// ParseBloodGroup validates a blood group, ignoring case and surrounding space.
func ParseBloodGroup(s string) (BloodGroup, error) {
	g := BloodGroup(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range BloodGroups {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: invalid blood group %q", ErrValidation, s)
}

// User is an account in the user directory.
type User struct {
	ID               string    `json:"_id"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	Name             string    `json:"name,omitempty"`
	OrganisationName string    `json:"organisationName,omitempty"`
	HospitalName     string    `json:"hospitalName,omitempty"`
	Website          string    `json:"website,omitempty"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// InventoryRecord is one immutable blood movement.
// Donor and Hospital are empty when not applicable; all three references
// are weak and may name accounts that no longer resolve.
type InventoryRecord struct {
	ID            string     `json:"_id"`
	InventoryType Direction  `json:"inventoryType"`
	BloodGroup    BloodGroup `json:"bloodGroup"`
	Quantity      int64      `json:"quantity"`
	Email         string     `json:"email"`
	Organisation  string     `json:"organisation"`
	Donor         string     `json:"donar,omitempty"`
	Hospital      string     `json:"hospital,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ExpandedRecord is an InventoryRecord with its references resolved.
type ExpandedRecord struct {
	ID            string     `json:"_id"`
	InventoryType Direction  `json:"inventoryType"`
	BloodGroup    BloodGroup `json:"bloodGroup"`
	Quantity      int64      `json:"quantity"`
	Email         string     `json:"email"`
	Organisation  *User      `json:"organisation"`
	Donor         *User      `json:"donar"`
	Hospital      *User      `json:"hospital"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Scope restricts an availability computation to one organisation.
// The zero value is unscoped.
type Scope struct {
	Organisation string
}

// Global is the unscoped scope used by analytics.
func Global() Scope { return Scope{} }

// ForOrganisation scopes a computation to a single organisation.
func ForOrganisation(id string) Scope { return Scope{Organisation: id} }

// IsGlobal reports whether the scope spans every organisation.
func (s Scope) IsGlobal() bool { return s.Organisation == "" }

// SumQuery selects the records summed by Store.SumQuantity.
type SumQuery struct {
	Scope      Scope
	BloodGroup BloodGroup
	Direction  Direction
}

// StockCheck asks the store to verify, atomically with an append, that
// the organisation holds at least Quantity of BloodGroup.
type StockCheck struct {
	Organisation string
	BloodGroup   BloodGroup
	Quantity     int64
}

// RefField names a reference column of the ledger.
type RefField string

const (
	RefOrganisation RefField = "organisation"
	RefDonor        RefField = "donar"
	RefHospital     RefField = "hospital"
)

// RecordFilter selects ledger records. Empty fields match everything.
type RecordFilter struct {
	InventoryType Direction  `json:"inventoryType,omitempty"`
	BloodGroup    BloodGroup `json:"bloodGroup,omitempty"`
	Organisation  string     `json:"organisation,omitempty"`
	Donor         string     `json:"donar,omitempty"`
	Hospital      string     `json:"hospital,omitempty"`
	Email         string     `json:"email,omitempty"`
}

// Normalize validates enum fields and canonicalises their spelling.
func (f RecordFilter) Normalize() (RecordFilter, error) {
	if f.InventoryType != "" {
		d, err := ParseDirection(string(f.InventoryType))
		if err != nil {
			return f, err
		}
		f.InventoryType = d
	}
	if f.BloodGroup != "" {
		g, err := ParseBloodGroup(string(f.BloodGroup))
		if err != nil {
			return f, err
		}
		f.BloodGroup = g
	}
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	return f, nil
}

// Matches reports whether rec satisfies the filter.
func (f RecordFilter) Matches(rec InventoryRecord) bool {
	switch {
	case f.InventoryType != "" && rec.InventoryType != f.InventoryType:
		return false
	case f.BloodGroup != "" && rec.BloodGroup != f.BloodGroup:
		return false
	case f.Organisation != "" && rec.Organisation != f.Organisation:
		return false
	case f.Donor != "" && rec.Donor != f.Donor:
		return false
	case f.Hospital != "" && rec.Hospital != f.Hospital:
		return false
	case f.Email != "" && rec.Email != f.Email:
		return false
	}
	return true
}

// Availability is the derived stock of one blood group within a scope.
// It doubles as an analytics report row.
type Availability struct {
	BloodGroup BloodGroup `json:"bloodGroup"`
	TotalIn    int64      `json:"totalIn"`
	TotalOut   int64      `json:"totalOut"`
	Available  int64      `json:"availabeBlood"`
}

func newAvailability(group BloodGroup, totalIn, totalOut int64) Availability {
	return Availability{
		BloodGroup: group,
		TotalIn:    totalIn,
		TotalOut:   totalOut,
		Available:  totalIn - totalOut,
	}
}
