package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JonMunkholm/BloodBank/internal/core"
)

// CreateUser inserts u. A taken email maps to core.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.users.InsertOne(ctx, toUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("email %s: %w", u.Email, core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) findUser(ctx context.Context, filter bson.D) (core.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.user(), nil
}

// UserByID returns the user with id.
func (s *Store) UserByID(ctx context.Context, id string) (core.User, error) {
	return s.findUser(ctx, bson.D{{Key: "_id", Value: id}})
}

// UserByEmail returns the user registered with email.
func (s *Store) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.findUser(ctx, bson.D{{Key: "email", Value: email}})
}

// UsersByIDs returns the users that exist among ids.
func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]core.User, error) {
	return s.listUsers(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

// UsersByRole returns users of role, newest first.
func (s *Store) UsersByRole(ctx context.Context, role core.Role) ([]core.User, error) {
	return s.listUsers(ctx, bson.D{{Key: "role", Value: string(role)}})
}

func (s *Store) listUsers(ctx context.Context, filter bson.D) ([]core.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.users.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]core.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.user())
	}
	return users, nil
}
