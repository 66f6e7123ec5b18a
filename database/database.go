package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/sirupsen/logrus"
)

const (
	Users      = "users"
	Parties    = "parties"
	Candidates = "candidates"
	Votes      = "votes"
	Session    = "session"
)

// ErrNoDocument is returned by a Backend when a collection was never written.
var ErrNoDocument = errors.New("database: no document for collection")

// Backend persists whole collections. Read decodes the stored records into
// dest, a pointer to a slice.
type Backend interface {
	Read(ctx context.Context, name string, dest interface{}) error
	Write(ctx context.Context, name string, records interface{}) error
	Remove(ctx context.Context, name string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Store serializes every transaction against a Backend. Update transactions
// are exclusive, so a read-check-write inside one can not interleave with
// another writer.
type Store struct {
	mu      sync.RWMutex
	backend Backend
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// View runs fn with a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&Tx{ctx: ctx, backend: s.backend, readOnly: true})
}

// Update runs fn and commits everything it staged with Put. Nothing is
// written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{ctx: ctx, backend: s.backend, staged: make(map[string]interface{})}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.Close(ctx)
}

// Tx is a view of the store for the duration of one View or Update call.
type Tx struct {
	ctx      context.Context
	backend  Backend
	readOnly bool
	order    []string
	staged   map[string]interface{}
}

// Find loads a collection into dest. Records staged earlier in the same
// transaction win over the persisted ones. A collection that was never
// written yields ErrNoDocument.
func (tx *Tx) Find(name string, dest interface{}) error {
	if records, ok := tx.staged[name]; ok {
		return copyRecords(records, dest)
	}
	return tx.backend.Read(tx.ctx, name, dest)
}

// Put stages records as the new content of a collection.
func (tx *Tx) Put(name string, records interface{}) {
	if tx.readOnly {
		panic("database: Put called on a read-only transaction")
	}
	if _, ok := tx.staged[name]; !ok {
		tx.order = append(tx.order, name)
	}
	tx.staged[name] = records
}

// snapshot is the state of a collection before commit touched it.
type snapshot struct {
	name    string
	records []map[string]interface{}
	absent  bool
}

func (tx *Tx) commit() error {
	if len(tx.order) == 0 {
		return nil
	}

	previous := make([]snapshot, 0, len(tx.order))
	for _, name := range tx.order {
		snap := snapshot{name: name}
		err := tx.backend.Read(tx.ctx, name, &snap.records)
		switch {
		// an undecodable collection can not be restored, only dropped
		case errors.Is(err, ErrNoDocument), errors.Is(err, ErrCorrupt):
			snap.absent = true
		case err != nil:
			return fmt.Errorf("snapshot %s: %w", name, err)
		}
		previous = append(previous, snap)
	}

	for i, name := range tx.order {
		if err := tx.backend.Write(tx.ctx, name, tx.staged[name]); err != nil {
			tx.rollback(previous[:i])
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// rollback restores collections already overwritten by a failed commit.
func (tx *Tx) rollback(written []snapshot) {
	for i := len(written) - 1; i >= 0; i-- {
		snap := written[i]
		var err error
		if snap.absent {
			err = tx.backend.Remove(tx.ctx, snap.name)
		} else {
			err = tx.backend.Write(tx.ctx, snap.name, snap.records)
		}
		if err != nil {
			logging.Logger.WithFields(logrus.Fields{"error": err, "collection": snap.name, "module": "database", "method": "rollback"}).Error("could not restore collection")
		}
	}
}
