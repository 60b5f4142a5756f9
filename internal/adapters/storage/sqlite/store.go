// Package sqlite es el Record Store embebido: un archivo local, sin servidor.
// Lo usan notesctl y los despliegues de un solo nodo.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-notes/internal/adapters/storage/sqlquery"
	"contact-notes/internal/domain/notes"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open crea o abre la base en path (":memory:" para tests).
// Aplica pragmas y schema; es idempotente.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// un solo writer; con :memory: además cada conexión sería otra base
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, n notes.Note) (notes.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now().UTC()
	}

	q := sqlquery.Insert(sqlquery.SQLite, n)
	if _, err := s.db.ExecContext(ctx, q.SQL, q.Args...); err != nil {
		return notes.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (notes.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return notes.Note{}, notes.ErrNotFound
	}

	q := sqlquery.SelectByID(sqlquery.SQLite, id)
	n, err := sqlquery.ScanNote(s.db.QueryRowContext(ctx, q.SQL, q.Args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notes.Note{}, notes.ErrNotFound
		}
		return notes.Note{}, err
	}
	return n, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, f notes.MutableFields) (notes.Note, error) {
	q := sqlquery.UpdateFields(sqlquery.SQLite, id, f)
	res, err := s.db.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return notes.Note{}, fmt.Errorf("update note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notes.Note{}, notes.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Store) List(ctx context.Context, filter notes.ListFilter, page notes.Page) (notes.ListResult, error) {
	return sqlquery.ListNotes(ctx, s.db, sqlquery.SQLite, filter, page)
}
