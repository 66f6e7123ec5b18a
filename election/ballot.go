package election

import (
	"context"

	"github.com/Alen-Aazim/noble-voting/database"
	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/sirupsen/logrus"
)

// Ballot records votes. A username holds at most one vote until Reset.
type Ballot struct {
	store *database.Store
}

func NewBallot(store *database.Store) *Ballot {
	return &Ballot{store: store}
}

// Cast records a vote for candidate on behalf of username. The checks run in
// this order inside one exclusive transaction: session open, no earlier vote
// by username, candidate exists.
func (b *Ballot) Cast(ctx context.Context, username, candidate string) error {
	var vote Vote
	err := b.store.Update(ctx, func(tx *database.Tx) error {
		s, err := session(tx)
		if err != nil {
			return err
		}
		if !s.Active {
			return ErrVotingClosed
		}

		var votes []Vote
		if err := find(tx, database.Votes, &votes); err != nil {
			return err
		}
		for _, v := range votes {
			if v.Username == username {
				return ErrAlreadyVoted
			}
		}

		var candidates []Candidate
		if err := find(tx, database.Candidates, &candidates); err != nil {
			return err
		}
		var chosen *Candidate
		for i := range candidates {
			if candidates[i].Name == candidate {
				chosen = &candidates[i]
				break
			}
		}
		if chosen == nil {
			return ErrInvalidCandidate
		}

		vote = Vote{Username: username, Candidate: chosen.Name, Party: chosen.Party}
		tx.Put(database.Votes, append(votes, vote))
		return nil
	})
	if err != nil {
		return err
	}

	logging.Logger.WithFields(logrus.Fields{"username": vote.Username, "candidate": vote.Candidate, "party": vote.Party, "module": "ballot", "method": "Cast"}).Info("vote recorded")
	return nil
}

// Voters returns every recorded vote in cast order.
func (b *Ballot) Voters(ctx context.Context) ([]Vote, error) {
	votes := []Vote{}
	err := b.store.View(ctx, func(tx *database.Tx) error {
		return find(tx, database.Votes, &votes)
	})
	return votes, err
}

// Reset discards every vote, letting all users vote again.
func (b *Ballot) Reset(ctx context.Context) error {
	err := b.store.Update(ctx, func(tx *database.Tx) error {
		tx.Put(database.Votes, []Vote{})
		return nil
	})
	if err != nil {
		return err
	}

	logging.Module("ballot", "Reset").Warn("all votes reset")
	return nil
}
