package postgres

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// whereBuilder assembles a parameterised WHERE clause. Empty values are skipped.
type whereBuilder struct {
	conds []string
	args  []any
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{}
}

// Add appends "column = $n" when value is non-empty.
func (b *whereBuilder) Add(column, value string) {
	if value == "" {
		return
	}
	b.args = append(b.args, value)
	b.conds = append(b.conds, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// AddRaw appends a condition without arguments.
func (b *whereBuilder) AddRaw(cond string) {
	b.conds = append(b.conds, cond)
}

// NextArgIndex is the placeholder number for the next argument.
func (b *whereBuilder) NextArgIndex() int {
	return len(b.args) + 1
}

// Build returns " WHERE ..." (or "") and the arguments.
func (b *whereBuilder) Build() (string, []any) {
	if len(b.conds) == 0 {
		return "", b.args
	}
	return " WHERE " + strings.Join(b.conds, " AND "), b.args
}

// recordFilterWhere maps a ledger filter onto inventory_records columns.
func recordFilterWhere(f core.RecordFilter) *whereBuilder {
	wb := newWhereBuilder()
	wb.Add("inventory_type", string(f.InventoryType))
	wb.Add("blood_group", string(f.BloodGroup))
	wb.Add("organisation_id", f.Organisation)
	wb.Add("donar_id", f.Donor)
	wb.Add("hospital_id", f.Hospital)
	wb.Add("email", f.Email)
	return wb
}

var refColumns = map[core.RefField]string{
	core.RefOrganisation: "organisation_id",
	core.RefDonor:        "donar_id",
	core.RefHospital:     "hospital_id",
}
