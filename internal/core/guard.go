package core

import (
	"context"
	"errors"
	"strings"
)

// RequireAdmin returns nil only when userID names an admin account.
// Storage failures are returned wrapped; every other rejection is
// ErrUnauthorized.
func (s *Service) RequireAdmin(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUnauthorized
	}
	u, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUnauthorized
		}
		return wrapStorage("find user", err)
	}
	if u.Role != RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}
