package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultRecentLimit caps the recent-activity listing.
	DefaultRecentLimit = 1000

	// DefaultMaxQuantity caps one record, in ML. It keeps stock sums far
	// from int64 overflow.
	DefaultMaxQuantity int64 = 1_000_000
)

// Service provides the ledger, availability, listing and analytics operations.
type Service struct {
	store       Store
	events      EventPublisher
	claims      ClaimStore
	policy      AttributionPolicy
	recentLimit int
	maxQuantity int64

	now   func() time.Time
	newID func() string
}

// Options configures optional collaborators. Zero values select defaults:
// no event delivery, no idempotency, scoped attribution, default limits.
type Options struct {
	Events      EventPublisher
	Claims      ClaimStore
	Policy      AttributionPolicy
	RecentLimit int
	MaxQuantity int64
}

// NewService creates a new Service instance.
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:       store,
		events:      opts.Events,
		claims:      opts.Claims,
		policy:      opts.Policy,
		recentLimit: opts.RecentLimit,
		maxQuantity: opts.MaxQuantity,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       func() string { return uuid.New().String() },
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if s.claims == nil {
		s.claims = noopClaims{}
	}
	if s.policy == "" {
		s.policy = PolicyScoped
	}
	if s.recentLimit <= 0 {
		s.recentLimit = DefaultRecentLimit
	}
	if s.maxQuantity <= 0 {
		s.maxQuantity = DefaultMaxQuantity
	}
	return s
}

// Policy returns the attribution policy in effect.
func (s *Service) Policy() AttributionPolicy {
	return s.policy
}
