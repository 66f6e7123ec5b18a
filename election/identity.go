package election

import (
	"context"
	"errors"

	"github.com/Alen-Aazim/noble-voting/database"
	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/sirupsen/logrus"
)

// DefaultAdmin is served when no readable users collection exists.
var DefaultAdmin = User{Username: "admin", Password: "admin", Role: RoleAdmin}

// Identity verifies credentials and manages accounts.
type Identity struct {
	store *database.Store
}

func NewIdentity(store *database.Store) *Identity {
	return &Identity{store: store}
}

// users returns the account list, falling back to the bootstrap admin when the
// collection is missing or corrupt.
func users(tx *database.Tx) ([]User, error) {
	var list []User
	err := tx.Find(database.Users, &list)
	switch {
	case errors.Is(err, database.ErrNoDocument):
		return []User{DefaultAdmin}, nil
	case errors.Is(err, database.ErrCorrupt):
		logging.Logger.WithFields(logrus.Fields{"error": err, "module": "identity", "method": "users"}).Warn("users collection unreadable, using default admin")
		return []User{DefaultAdmin}, nil
	case err != nil:
		return nil, err
	}
	return list, nil
}

// Authenticate returns the account matching both username and password. An
// unknown user and a wrong password fail the same way.
func (s *Identity) Authenticate(ctx context.Context, username, password string) (User, error) {
	var found User
	err := s.store.View(ctx, func(tx *database.Tx) error {
		list, err := users(tx)
		if err != nil {
			return err
		}
		for _, u := range list {
			if u.Username == username && u.Password == password {
				found = u
				return nil
			}
		}
		return ErrInvalidCredentials
	})
	return found, err
}

func (s *Identity) List(ctx context.Context) ([]User, error) {
	var list []User
	err := s.store.View(ctx, func(tx *database.Tx) error {
		var err error
		list, err = users(tx)
		return err
	})
	return list, err
}

// Create adds an account. An empty role means RoleUser.
func (s *Identity) Create(ctx context.Context, username, password string, role Role) error {
	if role == "" {
		role = RoleUser
	}
	if role != RoleUser && role != RoleAdmin {
		return ErrInvalidRole
	}

	err := s.store.Update(ctx, func(tx *database.Tx) error {
		list, err := users(tx)
		if err != nil {
			return err
		}
		for _, u := range list {
			if u.Username == username {
				return ErrDuplicateUsername
			}
		}
		tx.Put(database.Users, append(list, User{Username: username, Password: password, Role: role}))
		return nil
	})
	if err != nil {
		return err
	}

	logging.Module("identity", "Create").WithField("username", username).Info("user created")
	return nil
}

// Delete removes every account named username. Unknown names are a no-op.
func (s *Identity) Delete(ctx context.Context, username string) error {
	return s.store.Update(ctx, func(tx *database.Tx) error {
		list, err := users(tx)
		if err != nil {
			return err
		}
		kept := make([]User, 0, len(list))
		for _, u := range list {
			if u.Username != username {
				kept = append(kept, u)
			}
		}
		tx.Put(database.Users, kept)
		return nil
	})
}
