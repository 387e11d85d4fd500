package core

import (
	"context"
	"errors"
	"strings"
)

// RegisterRequest creates an account in the user directory.
type RegisterRequest struct {
	Role             string `json:"role"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	OrganisationName string `json:"organisationName"`
	HospitalName     string `json:"hospitalName"`
	Website          string `json:"website"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
}

func (r RegisterRequest) validate() (Role, error) {
	role, err := ParseRole(r.Role)
	if err != nil {
		return "", err
	}

	var missing []string
	if strings.TrimSpace(r.Email) == "" {
		missing = append(missing, "email")
	}
	switch role {
	case RoleAdmin, RoleDonor:
		if strings.TrimSpace(r.Name) == "" {
			missing = append(missing, "name")
		}
	case RoleOrganisation:
		if strings.TrimSpace(r.OrganisationName) == "" {
			missing = append(missing, "organisationName")
		}
	case RoleHospital:
		if strings.TrimSpace(r.HospitalName) == "" {
			missing = append(missing, "hospitalName")
		}
	}
	if len(missing) > 0 {
		return "", validationf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return role, nil
}

// RegisterUser adds an account. A taken email returns ErrConflict.
func (s *Service) RegisterUser(ctx context.Context, req RegisterRequest) (User, error) {
	role, err := req.validate()
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:               s.newID(),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Role:             role,
		Name:             strings.TrimSpace(req.Name),
		OrganisationName: strings.TrimSpace(req.OrganisationName),
		HospitalName:     strings.TrimSpace(req.HospitalName),
		Website:          strings.TrimSpace(req.Website),
		Address:          strings.TrimSpace(req.Address),
		Phone:            strings.TrimSpace(req.Phone),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return User{}, wrapStorage("create user", err)
	}
	return u, nil
}

// CurrentUser returns the account with id.
func (s *Service) CurrentUser(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrNotFound
	}
	u, err := s.store.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, wrapStorage("find user", err)
	}
	return u, nil
}

// ListUsersByRole returns accounts of one role, newest first.
func (s *Service) ListUsersByRole(ctx context.Context, role Role) ([]User, error) {
	users, err := s.store.UsersByRole(ctx, role)
	if err != nil {
		return nil, wrapStorage("list users", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}
