// Package election implements the voting rules on top of the document store:
// accounts, the party and candidate catalog, the voting session, ballots and
// the tally.
package election

import (
	"errors"
	"fmt"

	"github.com/Alen-Aazim/noble-voting/database"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrInvalidCandidate   = errors.New("invalid candidate")
	ErrVotingClosed       = errors.New("voting is not active")
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	Username string `json:"username" bson:"username"`
	Password string `json:"password" bson:"password"`
	Role     Role   `json:"role" bson:"role"`
}

type Party struct {
	Name string `json:"name" bson:"name"`
}

type Candidate struct {
	Name  string `json:"name" bson:"name"`
	Party string `json:"party" bson:"party"`
}

// PartyWithCandidates groups a party with the candidates that run for it.
type PartyWithCandidates struct {
	Name       string      `json:"name"`
	Candidates []Candidate `json:"candidates"`
}

type Session struct {
	Active bool `json:"active" bson:"active"`
}

// Vote is immutable once cast. Party is the candidate's party at cast time.
type Vote struct {
	Username  string `json:"username" bson:"username"`
	Candidate string `json:"candidate" bson:"candidate"`
	Party     string `json:"party" bson:"party"`
}

// find loads a collection, treating one that was never written as empty.
func find(tx *database.Tx, name string, dest interface{}) error {
	err := tx.Find(name, dest)
	if errors.Is(err, database.ErrNoDocument) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}
	return nil
}
