// Package session persists the single logged-in user in a local key-value store.
//
// The store never reports errors to its caller. A record that cannot be read
// or parsed is treated as "logged out", and a corrupt record is deleted.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mhpenta/nanogen/kvstore"
	"github.com/mhpenta/nanogen/sl"
)

// Key is the well-known key the user record is stored under.
const Key = "nanogen_user"

// User identifies whoever is logged in. There is no server-side validation.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl"`
}

// Store reads and writes the user record under Key.
type Store struct {
	kv  kvstore.Store
	log *slog.Logger
}

// NewStore returns a Store over kv. A nil log falls back to slog.Default.
func NewStore(kv kvstore.Store, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		kv:  kv,
		log: log.With(sl.Module("session")),
	}
}

// Load returns the persisted user, or ok=false when there is none.
func (s *Store) Load(ctx context.Context) (User, bool) {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		s.log.Error("reading session", sl.Err(err))
		return User{}, false
	}
	if !ok {
		return User{}, false
	}

	user, err := decode(raw)
	if err != nil {
		s.log.Warn("discarding corrupt session record", sl.Err(err))
		s.Clear(ctx)
		return User{}, false
	}
	return user, true
}

// Save overwrites the persisted user.
func (s *Store) Save(ctx context.Context, user User) {
	b, err := json.Marshal(user)
	if err != nil {
		s.log.Error("encoding session", sl.Err(err))
		return
	}
	if err := s.kv.Set(ctx, Key, string(b)); err != nil {
		s.log.Error("writing session", sl.Err(err))
	}
}

// Clear removes the persisted user.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, Key); err != nil {
		s.log.Error("clearing session", sl.Err(err))
	}
}

func decode(raw string) (User, error) {
	var user *User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return User{}, fmt.Errorf("decode session: %w", err)
	}
	if user == nil {
		return User{}, errors.New("decode session: null record")
	}
	return *user, nil
}
