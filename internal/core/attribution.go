package core

import (
	"fmt"
	"strings"
)

// AttributionPolicy selects how a recorded transaction is attributed.
//
// PolicyObserved reproduces the legacy behaviour: the record is always
// filed under the acting account, and only donor- or admin-initiated
// withdrawals are checked, against the organisation named by the client.
//
// PolicyScoped files every record under the organisation whose stock it
// moves, so stock checks and later availability sums agree.
type AttributionPolicy string

const (
	PolicyScoped   AttributionPolicy = "scoped"
	PolicyObserved AttributionPolicy = "observed"
)

// ParseAttributionPolicy validates a policy name.
func ParseAttributionPolicy(s string) (AttributionPolicy, error) {
	switch p := AttributionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyScoped, PolicyObserved:
		return p, nil
	case "":
		return PolicyScoped, nil
	}
	return "", fmt.Errorf("%w: unknown attribution policy %q", ErrValidation, s)
}

// actorClass groups roles that share attribution rules.
type actorClass int

const (
	classOrganisation actorClass = iota
	classHospital
	classOther // donors and admins
)

func classOf(r Role) actorClass {
	switch r {
	case RoleOrganisation:
		return classOrganisation
	case RoleHospital:
		return classHospital
	}
	return classOther
}

// source tells where a reference id comes from.
type source int

const (
	none source = iota
	fromActor
	fromContext
)

// attributionRule fills the references of a record and names the scope of
// its stock check.
type attributionRule struct {
	organisation source
	donor        source
	hospital     source
	checkScope   source // none means the withdrawal is unchecked
}

type ruleKey struct {
	policy AttributionPolicy
	class  actorClass
	dir    Direction
}

var attributionTable = map[ruleKey]attributionRule{
	{PolicyObserved, classOrganisation, DirectionIn}:  {organisation: fromActor},
	{PolicyObserved, classOrganisation, DirectionOut}: {organisation: fromActor},
	{PolicyObserved, classHospital, DirectionIn}:      {organisation: fromActor},
	{PolicyObserved, classHospital, DirectionOut}:     {organisation: fromActor},
	{PolicyObserved, classOther, DirectionIn}:         {organisation: fromActor, donor: fromActor},
	{PolicyObserved, classOther, DirectionOut}:        {organisation: fromActor, hospital: fromActor, checkScope: fromContext},

	{PolicyScoped, classOrganisation, DirectionIn}:  {organisation: fromActor},
	{PolicyScoped, classOrganisation, DirectionOut}: {organisation: fromActor, checkScope: fromActor},
	{PolicyScoped, classHospital, DirectionIn}:      {organisation: fromActor},
	{PolicyScoped, classHospital, DirectionOut}:     {organisation: fromContext, hospital: fromActor, checkScope: fromContext},
	{PolicyScoped, classOther, DirectionIn}:         {organisation: fromContext, donor: fromActor},
	{PolicyScoped, classOther, DirectionOut}:        {organisation: fromContext, hospital: fromActor, checkScope: fromContext},
}

func ruleFor(policy AttributionPolicy, role Role, dir Direction) (attributionRule, error) {
	rule, ok := attributionTable[ruleKey{policy, classOf(role), dir}]
	if !ok {
		return attributionRule{}, fmt.Errorf("%w: no attribution rule for policy %q", ErrValidation, policy)
	}
	return rule, nil
}

// apply fills rec's references and returns the stock check to run, if any.
func (r attributionRule) apply(actor User, contextOrg string, rec *InventoryRecord) (*StockCheck, error) {
	resolve := func(src source, field string) (string, error) {
		switch src {
		case fromActor:
			return actor.ID, nil
		case fromContext:
			if contextOrg == "" {
				return "", validationf("%s: organisation id (userId) is required", field)
			}
			return contextOrg, nil
		}
		return "", nil
	}

	var err error
	if rec.Organisation, err = resolve(r.organisation, "organisation"); err != nil {
		return nil, err
	}
	if rec.Donor, err = resolve(r.donor, "donar"); err != nil {
		return nil, err
	}
	if rec.Hospital, err = resolve(r.hospital, "hospital"); err != nil {
		return nil, err
	}

	if r.checkScope == none || rec.InventoryType != DirectionOut {
		return nil, nil
	}
	scope, err := resolve(r.checkScope, "stock check")
	if err != nil {
		return nil, err
	}
	return &StockCheck{
		Organisation: scope,
		BloodGroup:   rec.BloodGroup,
		Quantity:     rec.Quantity,
	}, nil
}
