package sqlquery

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"contact-notes/internal/domain/notes"
)

// ListNotes ejecuta conteo + página sobre cualquier *sql.DB.
func ListNotes(ctx context.Context, db *sql.DB, d Dialect, filter notes.ListFilter, page notes.Page) (notes.ListResult, error) {
	if strings.TrimSpace(filter.OwnerRef) == "" {
		return notes.ListResult{Items: []notes.Note{}}, nil
	}

	countQ, itemsQ := List(d, filter, page)

	var total int
	if err := db.QueryRowContext(ctx, countQ.SQL, countQ.Args...).Scan(&total); err != nil {
		return notes.ListResult{}, fmt.Errorf("count notes: %w", err)
	}

	rows, err := db.QueryContext(ctx, itemsQ.SQL, itemsQ.Args...)
	if err != nil {
		return notes.ListResult{}, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := make([]notes.Note, 0)
	for rows.Next() {
		n, err := ScanNote(rows)
		if err != nil {
			return notes.ListResult{}, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return notes.ListResult{}, err
	}

	return notes.ListResult{Items: out, TotalCount: total}, nil
}
