package notes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Note
	seq  int
	base time.Time

	insertErr error
	// updateErr devuelve un error por llamada; nil = dejar pasar.
	updateErr   func(id string) error
	blockUpdate bool

	updateCalls int
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID: map[string]Note{},
		base: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) Insert(ctx context.Context, n Note) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.insertErr != nil {
		return Note{}, r.insertErr
	}
	r.seq++
	if n.ID == "" {
		n.ID = fmt.Sprintf("n-%d", r.seq)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.base.Add(time.Duration(r.seq) * time.Minute)
	}
	if _, ok := r.byID[n.ID]; ok {
		return Note{}, errors.New("repo: already exists")
	}
	r.byID[n.ID] = n
	return n, nil
}

// put guarda tal cual (datos malformados para tests de cadena).
func (r *testRepo) put(n Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[n.ID] = n
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.byID[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return n, nil
}

func (r *testRepo) UpdateFields(ctx context.Context, id string, f MutableFields) (Note, error) {
	if r.blockUpdate {
		<-ctx.Done()
		return Note{}, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.updateCalls++
	if r.updateErr != nil {
		if err := r.updateErr(id); err != nil {
			return Note{}, err
		}
	}
	n, ok := r.byID[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	n.Status = f.Status
	r.byID[id] = n
	return n, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter, page Page) (ListResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Note, 0)
	for _, n := range r.byID {
		if filter.Matches(n) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
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
	return ListResult{Items: out[start:end], TotalCount: total}, nil
}

func (r *testRepo) status(id string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].Status
}

// failOnce hace fallar la primera llamada con err y deja pasar las siguientes.
func failOnce(err error) func(string) error {
	var mu sync.Mutex
	done := false
	return func(string) error {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return nil
		}
		done = true
		return err
	}
}

var testActor = Actor{ID: "agent-7"}

func validInput(owner, subject string) CreateInput {
	return CreateInput{
		OwnerRef: owner,
		Category: CategoryCall,
		Subject:  subject,
		Body:     Body{Format: BodyFormatText, Text: "Customer called about the statement."},
	}
}
