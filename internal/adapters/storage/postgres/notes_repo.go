package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-notes/internal/adapters/storage/sqlquery"
	"contact-notes/internal/domain/notes"

	"github.com/google/uuid"
)

type NotesRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewNotesRepo(db *sql.DB) *NotesRepo {
	return &NotesRepo{db: db, now: time.Now}
}

func (r *NotesRepo) Insert(ctx context.Context, n notes.Note) (notes.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		// TIMESTAMPTZ guarda microsegundos
		n.CreatedAt = r.now().UTC().Truncate(time.Microsecond)
	}

	q := sqlquery.Insert(sqlquery.Postgres, n)
	if _, err := r.db.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return notes.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (r *NotesRepo) GetByID(ctx context.Context, id string) (notes.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notes.Note{}, notes.ErrNotFound
	}

	q := sqlquery.SelectByID(sqlquery.Postgres, id)
	n, err := sqlquery.ScanNote(r.db.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notes.Note{}, notes.ErrNotFound
		}
		return notes.Note{}, err
	}
	return n, nil
}

func (r *NotesRepo) UpdateFields(ctx context.Context, id string, f notes.MutableFields) (notes.Note, error) {
	q := sqlquery.UpdateFields(sqlquery.Postgres, id, f)
	res, err := r.db.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return notes.Note{}, fmt.Errorf("update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notes.Note{}, notes.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *NotesRepo) List(ctx context.Context, filter notes.ListFilter, page notes.Page) (notes.ListResult, error) {
	return sqlquery.ListNotes(ctx, r.db, sqlquery.Postgres, filter, page)
}
