package election

import (
	"context"

	"github.com/Alen-Aazim/noble-voting/database"
	"github.com/Alen-Aazim/noble-voting/logging"
)

// Gate is the voting session switch. No record means voting is closed.
type Gate struct {
	store *database.Store
}

func NewGate(store *database.Store) *Gate {
	return &Gate{store: store}
}

func session(tx *database.Tx) (Session, error) {
	var records []Session
	if err := find(tx, database.Session, &records); err != nil {
		return Session{}, err
	}
	if len(records) == 0 {
		return Session{Active: false}, nil
	}
	return records[0], nil
}

func (g *Gate) Get(ctx context.Context) (Session, error) {
	var s Session
	err := g.store.View(ctx, func(tx *database.Tx) error {
		var err error
		s, err = session(tx)
		return err
	})
	return s, err
}

// Set overwrites the session record.
func (g *Gate) Set(ctx context.Context, active bool) error {
	err := g.store.Update(ctx, func(tx *database.Tx) error {
		tx.Put(database.Session, []Session{{Active: active}})
		return nil
	})
	if err != nil {
		return err
	}

	logging.Module("gate", "Set").WithField("active", active).Info("voting session changed")
	return nil
}
