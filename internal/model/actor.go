package model

import "github.com/google/uuid"

// Actor is the authenticated caller. Its ID is also the data scope: products,
// stores and change records are only visible to the user that owns them.
type Actor struct {
	ID       uuid.UUID
	Username string
	Email    string
}

func (a Actor) Scope() uuid.UUID { return a.ID }
