package notify

import (
	"context"
	"time"
)

type ChangeType string

const (
	ChangeCreated ChangeType = "note.created"
	ChangeAmended ChangeType = "note.amended"
	ChangeRetired ChangeType = "note.retired"
)

// Change es la notificación que se emite tras cada escritura confirmada.
type Change struct {
	Type      ChangeType `json:"type"`
	NoteID    string     `json:"note_id"`
	OwnerRef  string     `json:"owner_ref"`
	AmendsRef string     `json:"amends_ref,omitempty"`
	ActorID   string     `json:"actor_id,omitempty"`
	At        time.Time  `json:"at"`
}

// Publisher publica cambios. Es best-effort: el dominio no falla si esto falla.
type Publisher interface {
	Publish(ctx context.Context, c Change) error
}

// Nop no publica nada.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }
