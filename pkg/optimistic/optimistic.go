// Package optimistic implements two-phase optimistic updates: a tentative
// state is shown immediately, then either confirmed with the server's value
// or rolled back to the state it replaced.
package optimistic

import (
	"context"
	"errors"
)

// ErrSettled is returned when a mutation is confirmed or rolled back twice.
var ErrSettled = errors.New("optimistic: mutation already settled")

// Phase of a mutation.
type Phase int

const (
	Pending Phase = iota
	Confirmed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Mutation is an immutable record of one optimistic change.
type Mutation[S any] struct {
	prev      S
	tentative S
	phase     Phase
}

// Apply starts a mutation replacing prev with tentative.
func Apply[S any](prev, tentative S) Mutation[S] {
	return Mutation[S]{prev: prev, tentative: tentative, phase: Pending}
}

// Current is the state to display for the mutation.
func (m Mutation[S]) Current() S {
	if m.phase == RolledBack {
		return m.prev
	}
	return m.tentative
}

func (m Mutation[S]) Phase() Phase { return m.phase }

// Confirm settles the mutation with the server's state.
func (m Mutation[S]) Confirm(server S) (S, Mutation[S], error) {
	if m.phase != Pending {
		return m.Current(), m, ErrSettled
	}
	m.tentative = server
	m.phase = Confirmed
	return server, m, nil
}

// Rollback settles the mutation by restoring the previous state.
func (m Mutation[S]) Rollback() (S, Mutation[S], error) {
	if m.phase != Pending {
		return m.Current(), m, ErrSettled
	}
	m.phase = RolledBack
	return m.prev, m, nil
}

// Run applies tentative, publishes it, then calls commit. On success the
// committed state is published; on failure prev is published again and the
// commit error returned.
func Run[S any](ctx context.Context, prev, tentative S, commit func(context.Context, S) (S, error), publish func(S)) (S, error) {
	m := Apply(prev, tentative)
	publish(m.Current())

	server, err := commit(ctx, tentative)
	if err != nil {
		restored, _, _ := m.Rollback()
		publish(restored)
		return restored, err
	}

	confirmed, _, _ := m.Confirm(server)
	publish(confirmed)
	return confirmed, nil
}
