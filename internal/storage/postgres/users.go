package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

const userColumns = `id, email, role, name, organisation_name, hospital_name,
	website, address, phone, created_at, updated_at`

func scanUser(row pgx.Row) (core.User, error) {
	var (
		u    core.User
		role string
	)
	err := row.Scan(&u.ID, &u.Email, &role, &u.Name, &u.OrganisationName, &u.HospitalName,
		&u.Website, &u.Address, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	u.Role = core.Role(role)
	return u, err
}

// CreateUser inserts u. A taken email maps to core.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Email, string(u.Role), u.Name, u.OrganisationName, u.HospitalName,
		u.Website, u.Address, u.Phone, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", u.Email, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) userWhere(ctx context.Context, clause string, arg any) (core.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+clause, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// UserByID returns the user with id.
func (s *Store) UserByID(ctx context.Context, id string) (core.User, error) {
	return s.userWhere(ctx, `id = $1`, id)
}

// UserByEmail returns the user registered with email.
func (s *Store) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.userWhere(ctx, `email = $1`, email)
}

// UsersByIDs returns the users that exist among ids.
func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]core.User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY created_at DESC`, ids)
}

// UsersByRole returns users of role, newest first.
func (s *Store) UsersByRole(ctx context.Context, role core.Role) ([]core.User, error) {
	return s.listUsers(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at DESC, id`, string(role))
}

func (s *Store) listUsers(ctx context.Context, query string, arg any) ([]core.User, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []core.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
