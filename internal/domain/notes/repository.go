package notes

import (
	"context"
	"math"
	"strings"
	"time"
)

// Repository es el Record Store. Insert asigna ID y CreatedAt si vienen vacíos.
// UpdateFields solo escribe los campos de MutableFields.
type Repository interface {
	Insert(ctx context.Context, n Note) (Note, error)
	GetByID(ctx context.Context, id string) (Note, error)
	UpdateFields(ctx context.Context, id string, f MutableFields) (Note, error)
	List(ctx context.Context, filter ListFilter, page Page) (ListResult, error)
}

// MutableFields es todo lo que un store puede modificar de una nota existente.
type MutableFields struct {
	Status Status
}

// RefMatch es el filtro de tres estados para referencias secundarias.
type RefMatch int

const (
	RefAny RefMatch = iota
	RefEquals
	RefAbsent
)

type RefFilter struct {
	Match RefMatch
	Value string
}

func (f RefFilter) matches(ref *string) bool {
	switch f.Match {
	case RefEquals:
		return ref != nil && *ref == f.Value
	case RefAbsent:
		return ref == nil || *ref == ""
	default:
		return true
	}
}

// ListFilter siempre está acotado a un OwnerRef. Los demás predicados son opcionales (AND).
type ListFilter struct {
	OwnerRef    string
	Category    Category
	Account     RefFilter
	Application RefFilter
	Status      Status
	From        *time.Time
	To          *time.Time
	Query       string
}

// Matches evalúa el filtro en memoria (stores sin motor de consultas).
func (f ListFilter) Matches(n Note) bool {
	if n.OwnerRef != f.OwnerRef {
		return false
	}
	if f.Category != "" && n.Classification.Category != f.Category {
		return false
	}
	if !f.Account.matches(n.Links.AccountRef) || !f.Application.matches(n.Links.ApplicationRef) {
		return false
	}
	if f.Status != "" && n.Status != f.Status {
		return false
	}
	if f.From != nil && n.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && n.CreatedAt.After(*f.To) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		q = strings.ToLower(q)
		// subject y body por separado, igual que el LIKE de los stores SQL
		if !strings.Contains(strings.ToLower(n.Subject), q) &&
			!strings.Contains(strings.ToLower(n.Body.Text), q) {
			return false
		}
	}
	return true
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPageNumber acota Number para que Number*MaxPageSize no desborde int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Page es paginación por número (1-based), no por cursor.
type Page struct {
	Number int
	Size   int
}

// Normalize aplica defaults y límites.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

type ListResult struct {
	Items      []Note
	TotalCount int
}
