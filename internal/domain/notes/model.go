package notes

import (
	"encoding/json"
	"time"
)

// Actor es la identidad autenticada que ejecuta la operación.
type Actor struct {
	ID string
}

// Links agrupa las referencias secundarias opcionales (cuenta, solicitud).
type Links struct {
	AccountRef     *string
	ApplicationRef *string
}

type Classification struct {
	Category  Category
	Direction Direction
	Priority  Priority
	Sentiment Sentiment
}

// Body es el contenido de la nota: texto plano o documento estructurado.
type Body struct {
	Format BodyFormat
	Text   string
	Doc    json.RawMessage
}

// Note es una entrada inmutable del historial de contacto con un cliente.
// Solo Status cambia después de crearse, y solo hacia amended.
type Note struct {
	ID       string
	OwnerRef string
	Links    Links

	Classification Classification

	Subject string
	Body    Body

	AuthorRef string

	// AmendsRef apunta a la versión que esta nota corrige.
	AmendsRef *string

	Status    Status
	CreatedAt time.Time
}

// HasHistory indica si la nota corrige a otra (hay versiones previas que hidratar).
func (n Note) HasHistory() bool {
	return n.AmendsRef != nil && *n.AmendsRef != ""
}

func strPtr(s string) *string {
	return &s
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
