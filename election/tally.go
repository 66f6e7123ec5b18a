package election

import (
	"context"

	"github.com/Alen-Aazim/noble-voting/database"
)

type Results struct {
	TotalVoters    int            `json:"totalVoters"`
	CandidateVotes map[string]int `json:"candidateVotes"`
	PartyVotes     map[string]int `json:"partyVotes"`
	Winner         *string        `json:"winner"`
	PartyWinner    *string        `json:"partyWinner"`
}

// Tally aggregates the recorded votes on demand.
type Tally struct {
	store *database.Store
}

func NewTally(store *database.Store) *Tally {
	return &Tally{store: store}
}

func (t *Tally) Compute(ctx context.Context) (Results, error) {
	var votes []Vote
	err := t.store.View(ctx, func(tx *database.Tx) error {
		return find(tx, database.Votes, &votes)
	})
	if err != nil {
		return Results{}, err
	}
	return Count(votes), nil
}

// Count tallies votes per candidate and per party. A winner needs strictly
// more votes than everyone ranked before it, so an exact tie goes to the key
// that received its first vote earliest. Winners are nil without votes.
func Count(votes []Vote) Results {
	candidates := newCounter()
	parties := newCounter()
	for _, v := range votes {
		candidates.add(v.Candidate)
		parties.add(v.Party)
	}

	return Results{
		TotalVoters:    len(votes),
		CandidateVotes: candidates.counts,
		PartyVotes:     parties.counts,
		Winner:         candidates.leader(),
		PartyWinner:    parties.leader(),
	}
}

// counter counts keys and remembers the order they first appeared in.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) leader() *string {
	var best *string
	for i, key := range c.order {
		if best == nil || c.counts[key] > c.counts[*best] {
			best = &c.order[i]
		}
	}
	return best
}
