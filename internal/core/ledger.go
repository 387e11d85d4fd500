package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/BloodBank/internal/logging"
)

// TransactionRequest is a request to record one blood movement.
type TransactionRequest struct {
	Email          string // acting user
	Role           string // role of the portal submitting the request; logged only
	InventoryType  string
	BloodGroup     string
	Quantity       int64
	OrganisationID string // organisation context, the caller's userId
	IdempotencyKey string
}

type validTransaction struct {
	email     string
	role      Role // portal role; attribution uses the account's stored role
	direction Direction
	group     BloodGroup
	quantity  int64
}

func (r TransactionRequest) validate(maxQuantity int64) (validTransaction, error) {
	var (
		v    validTransaction
		errs []string
	)

	v.email = strings.ToLower(strings.TrimSpace(r.Email))
	if v.email == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(r.Role) != "" {
		role, err := ParseRole(r.Role)
		if err != nil {
			errs = append(errs, "invalid role "+r.Role)
		}
		v.role = role
	}
	dir, err := ParseDirection(r.InventoryType)
	if err != nil {
		errs = append(errs, "inventoryType must be in or out")
	}
	v.direction = dir
	group, err := ParseBloodGroup(r.BloodGroup)
	if err != nil {
		errs = append(errs, "invalid bloodGroup "+r.BloodGroup)
	}
	v.group = group
	switch {
	case r.Quantity <= 0:
		errs = append(errs, "quantity must be greater than zero")
	case r.Quantity > maxQuantity:
		errs = append(errs, fmt.Sprintf("quantity must not exceed %d ML", maxQuantity))
	}
	v.quantity = r.Quantity

	if len(errs) > 0 {
		return v, validationf("%s", strings.Join(errs, "; "))
	}
	return v, nil
}

// RecordTransaction validates, attributes and appends one ledger record.
//
// Withdrawals are checked against available stock inside the store's
// conditional append; an over-withdrawal returns *InsufficientStockError
// and writes nothing.
func (s *Service) RecordTransaction(ctx context.Context, req TransactionRequest) (rec InventoryRecord, err error) {
	v, err := req.validate(s.maxQuantity)
	if err != nil {
		return InventoryRecord{}, err
	}

	if req.IdempotencyKey != "" {
		claimKey := "inventory:" + req.OrganisationID + ":" + req.IdempotencyKey
		ok, cerr := s.claims.Claim(ctx, claimKey)
		if cerr != nil {
			return InventoryRecord{}, wrapStorage("claim idempotency key", cerr)
		}
		if !ok {
			return InventoryRecord{}, ErrDuplicateCall
		}
		defer func() {
			if err == nil {
				return
			}
			if rerr := s.claims.Release(context.WithoutCancel(ctx), claimKey); rerr != nil {
				logging.FromContext(ctx).Warn("failed to release idempotency key",
					"key", claimKey, "error", rerr)
			}
		}()
	}

	actor, err := s.store.UserByEmail(ctx, v.email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return InventoryRecord{}, ErrNotFound
		}
		return InventoryRecord{}, wrapStorage("find user by email", err)
	}

	rule, err := ruleFor(s.policy, actor.Role, v.direction)
	if err != nil {
		return InventoryRecord{}, err
	}

	rec = InventoryRecord{
		ID:            s.newID(),
		InventoryType: v.direction,
		BloodGroup:    v.group,
		Quantity:      v.quantity,
		Email:         v.email,
		CreatedAt:     s.now(),
	}
	check, err := rule.apply(actor, req.OrganisationID, &rec)
	if err != nil {
		return InventoryRecord{}, err
	}

	if err := s.store.AppendRecord(ctx, rec, check); err != nil {
		return InventoryRecord{}, wrapStorage("append record", err)
	}

	logging.FromContext(ctx).Info("ledger record created",
		"record_id", rec.ID,
		"inventory_type", rec.InventoryType,
		"blood_group", rec.BloodGroup,
		"quantity", rec.Quantity,
		"organisation", rec.Organisation,
		"portal_role", v.role,
		"policy", s.policy,
	)

	s.publish(ctx, Event{
		Type:      EventInventoryRecorded,
		Key:       rec.Organisation,
		Record:    &rec,
		Source:    GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
		Timestamp: rec.CreatedAt,
	})

	return rec, nil
}

// publish delivers ev, logging instead of failing.
func (s *Service) publish(ctx context.Context, ev Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Warn("failed to publish event",
			"type", ev.Type, "key", ev.Key, "error", err)
	}
}
