package election

import (
	"context"

	"github.com/Alen-Aazim/noble-voting/database"
	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/sirupsen/logrus"
)

// Catalog manages parties and their candidates. Neither duplicate party names
// nor candidates of unknown parties are rejected.
type Catalog struct {
	store *database.Store
}

func NewCatalog(store *database.Store) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) Parties(ctx context.Context) ([]Party, error) {
	parties := []Party{}
	err := c.store.View(ctx, func(tx *database.Tx) error {
		return find(tx, database.Parties, &parties)
	})
	return parties, err
}

func (c *Catalog) Candidates(ctx context.Context) ([]Candidate, error) {
	candidates := []Candidate{}
	err := c.store.View(ctx, func(tx *database.Tx) error {
		return find(tx, database.Candidates, &candidates)
	})
	return candidates, err
}

func (c *Catalog) AddParty(ctx context.Context, name string) error {
	return c.store.Update(ctx, func(tx *database.Tx) error {
		var parties []Party
		if err := find(tx, database.Parties, &parties); err != nil {
			return err
		}
		tx.Put(database.Parties, append(parties, Party{Name: name}))
		return nil
	})
}

// DeleteParty removes the party and every candidate running for it. Both
// collections are committed together.
func (c *Catalog) DeleteParty(ctx context.Context, name string) error {
	var removed int
	err := c.store.Update(ctx, func(tx *database.Tx) error {
		var parties []Party
		if err := find(tx, database.Parties, &parties); err != nil {
			return err
		}
		var candidates []Candidate
		if err := find(tx, database.Candidates, &candidates); err != nil {
			return err
		}

		keptParties := make([]Party, 0, len(parties))
		for _, p := range parties {
			if p.Name != name {
				keptParties = append(keptParties, p)
			}
		}
		keptCandidates := make([]Candidate, 0, len(candidates))
		for _, cand := range candidates {
			if cand.Party != name {
				keptCandidates = append(keptCandidates, cand)
			}
		}
		removed = len(candidates) - len(keptCandidates)

		tx.Put(database.Parties, keptParties)
		tx.Put(database.Candidates, keptCandidates)
		return nil
	})
	if err != nil {
		return err
	}

	logging.Logger.WithFields(logrus.Fields{"party": name, "candidates": removed, "module": "catalog", "method": "DeleteParty"}).Info("party deleted")
	return nil
}

func (c *Catalog) AddCandidate(ctx context.Context, name, party string) error {
	return c.store.Update(ctx, func(tx *database.Tx) error {
		var candidates []Candidate
		if err := find(tx, database.Candidates, &candidates); err != nil {
			return err
		}
		tx.Put(database.Candidates, append(candidates, Candidate{Name: name, Party: party}))
		return nil
	})
}

// DeleteCandidate removes the candidate only; votes already cast for it stay.
func (c *Catalog) DeleteCandidate(ctx context.Context, name string) error {
	return c.store.Update(ctx, func(tx *database.Tx) error {
		var candidates []Candidate
		if err := find(tx, database.Candidates, &candidates); err != nil {
			return err
		}
		kept := make([]Candidate, 0, len(candidates))
		for _, cand := range candidates {
			if cand.Name != name {
				kept = append(kept, cand)
			}
		}
		tx.Put(database.Candidates, kept)
		return nil
	})
}

// PartiesWithCandidates returns one entry per party record, in store order.
func (c *Catalog) PartiesWithCandidates(ctx context.Context) ([]PartyWithCandidates, error) {
	var result []PartyWithCandidates
	err := c.store.View(ctx, func(tx *database.Tx) error {
		var parties []Party
		if err := find(tx, database.Parties, &parties); err != nil {
			return err
		}
		var candidates []Candidate
		if err := find(tx, database.Candidates, &candidates); err != nil {
			return err
		}

		result = make([]PartyWithCandidates, 0, len(parties))
		for _, p := range parties {
			entry := PartyWithCandidates{Name: p.Name, Candidates: []Candidate{}}
			for _, cand := range candidates {
				if cand.Party == p.Name {
					entry.Candidates = append(entry.Candidates, cand)
				}
			}
			result = append(result, entry)
		}
		return nil
	})
	return result, err
}
