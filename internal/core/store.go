package core

import (
	"context"
	"time"
)

// UserStore is the user directory.
type UserStore interface {
	// CreateUser inserts u. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, u User) error
	// UserByID returns ErrNotFound when no account has the id.
	UserByID(ctx context.Context, id string) (User, error)
	// UserByEmail matches the lowercased email exactly.
	UserByEmail(ctx context.Context, email string) (User, error)
	// UsersByIDs returns the accounts that exist; unknown ids are skipped.
	UsersByIDs(ctx context.Context, ids []string) ([]User, error)
	// UsersByRole returns accounts of one role, newest first.
	UsersByRole(ctx context.Context, role Role) ([]User, error)
}

// LedgerStore persists inventory records.
type LedgerStore interface {
	// AppendRecord inserts rec. When check is non-nil the store first
	// computes the availability of check.BloodGroup within
	// check.Organisation and returns *InsufficientStockError if it is below
	// check.Quantity. Check and insert are serialised per
	// (organisation, blood group).
	AppendRecord(ctx context.Context, rec InventoryRecord, check *StockCheck) error
	// SumQuantity totals the quantities of matching records; 0 when none.
	SumQuantity(ctx context.Context, q SumQuery) (int64, error)
	// FindRecords returns matching records newest first. limit <= 0 means no cap.
	FindRecords(ctx context.Context, f RecordFilter, limit int) ([]InventoryRecord, error)
	// DistinctRefs returns the distinct non-empty values of field among
	// records matching f.
	DistinctRefs(ctx context.Context, field RefField, f RecordFilter) ([]string, error)
}

// Store is everything the service needs from persistence.
type Store interface {
	UserStore
	LedgerStore
}

// Event types published after state changes.
const (
	EventInventoryRecorded = "inventory.recorded"
	EventStockLow          = "stock.low"
)

// Event is a ledger notification. Key selects the partition.
type Event struct {
	Type      string           `json:"type"`
	Key       string           `json:"-"`
	Record    *InventoryRecord `json:"record,omitempty"`
	Stock     *Availability    `json:"stock,omitempty"`
	Threshold int64            `json:"threshold,omitempty"`
	Source    string           `json:"source,omitempty"`
	UserAgent string           `json:"userAgent,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// EventPublisher delivers events. Failures are logged by the caller and
// never undo the ledger write.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// ClaimStore deduplicates client retries by idempotency key.
type ClaimStore interface {
	// Claim returns false if key was already claimed and not released.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees key after a failed attempt so the client can retry.
	Release(ctx context.Context, key string) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

type noopClaims struct{}

func (noopClaims) Claim(context.Context, string) (bool, error) { return true, nil }
func (noopClaims) Release(context.Context, string) error       { return nil }
