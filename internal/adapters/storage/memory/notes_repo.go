package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"contact-notes/internal/domain/notes"

	"github.com/google/uuid"
)

type noteRepo struct {
	mu   sync.RWMutex
	byID map[string]notes.Note
	now  func() time.Time
}

func NewNoteRepo() notes.Repository {
	return &noteRepo{
		byID: make(map[string]notes.Note),
		now:  time.Now,
	}
}

func (r *noteRepo) Insert(ctx context.Context, n notes.Note) (notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return notes.Note{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.now().UTC()
	}
	if _, exists := r.byID[n.ID]; exists {
		return notes.Note{}, errors.New("note already exists")
	}

	r.byID[n.ID] = cloneNote(n)
	return cloneNote(n), nil
}

func (r *noteRepo) GetByID(ctx context.Context, id string) (notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return notes.Note{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return notes.Note{}, fmt.Errorf("note %s: %w", id, notes.ErrNotFound)
	}
	return cloneNote(n), nil
}

// UpdateFields solo toca status: el resto de la nota no se puede modificar.
func (r *noteRepo) UpdateFields(ctx context.Context, id string, f notes.MutableFields) (notes.Note, error) {
	if err := ctx.Err(); err != nil {
		return notes.Note{}, err
	}

	id = strings.TrimSpace(id)

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return notes.Note{}, fmt.Errorf("note %s: %w", id, notes.ErrNotFound)
	}
	if f.Status != "" {
		n.Status = f.Status
	}
	r.byID[id] = n
	return cloneNote(n), nil
}

func (r *noteRepo) List(ctx context.Context, filter notes.ListFilter, page notes.Page) (notes.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return notes.ListResult{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notes.Note, 0)
	for _, n := range r.byID {
		if !filter.Matches(n) {
			continue
		}
		out = append(out, cloneNote(n))
	}

	// created_at desc (más reciente primero); id desc desempata
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	page = page.Normalize()
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}

	return notes.ListResult{Items: out[start:end], TotalCount: total}, nil
}

// cloneNote evita que los callers compartan punteros con el mapa interno.
func cloneNote(n notes.Note) notes.Note {
	n.Links.AccountRef = cloneStr(n.Links.AccountRef)
	n.Links.ApplicationRef = cloneStr(n.Links.ApplicationRef)
	n.AmendsRef = cloneStr(n.AmendsRef)
	if n.Body.Doc != nil {
		n.Body.Doc = append([]byte(nil), n.Body.Doc...)
	}
	return n
}

func cloneStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
