// Package sqlquery arma el SQL de contact_notes para los stores relacionales.
// Postgres y SQLite comparten columnas, filtros y orden; solo cambian
// placeholders y la codificación de created_at.
package sqlquery

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"contact-notes/internal/domain/notes"
)

const Table = "contact_notes"

var columns = []string{
	"id", "owner_ref", "account_ref", "application_ref",
	"category", "direction", "priority", "sentiment",
	"subject", "body_format", "body_text", "body_doc",
	"author_ref", "amends_ref", "status", "created_at",
}

// Dialect es lo que difiere entre motores.
type Dialect interface {
	Placeholder(n int) string
	Time(t time.Time) any
}

type postgresDialect struct{}

func (postgresDialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }
func (postgresDialect) Time(t time.Time) any     { return t.UTC() }

// sqliteTimeLayout tiene ancho fijo: el orden lexicográfico coincide con el cronológico.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

type sqliteDialect struct{}

func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) Time(t time.Time) any  { return t.UTC().Format(sqliteTimeLayout) }

var (
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

type Query struct {
	SQL  string
	Args []any
}

type builder struct {
	d     Dialect
	where []string
	args  []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return b.d.Placeholder(len(b.args))
}

func (b *builder) and(clause string) {
	b.where = append(b.where, clause)
}

func Insert(d Dialect, n notes.Note) Query {
	b := &builder{d: d}
	vals := []any{
		n.ID, n.OwnerRef, nullable(n.Links.AccountRef), nullable(n.Links.ApplicationRef),
		string(n.Classification.Category), string(n.Classification.Direction),
		string(n.Classification.Priority), string(n.Classification.Sentiment),
		n.Subject, string(n.Body.Format), n.Body.Text, nullableDoc(n.Body.Doc),
		n.AuthorRef, nullable(n.AmendsRef), string(n.Status), d.Time(n.CreatedAt),
	}
	ph := make([]string, 0, len(vals))
	for _, v := range vals {
		ph = append(ph, b.arg(v))
	}
	return Query{
		SQL:  "INSERT INTO " + Table + " (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(ph, ", ") + ")",
		Args: b.args,
	}
}

func SelectByID(d Dialect, id string) Query {
	b := &builder{d: d}
	return Query{
		SQL:  "SELECT " + strings.Join(columns, ", ") + " FROM " + Table + " WHERE id = " + b.arg(id),
		Args: b.args,
	}
}

// UpdateFields solo genera SET para status; no hay otra columna mutable.
func UpdateFields(d Dialect, id string, f notes.MutableFields) Query {
	b := &builder{d: d}
	set := "status = " + b.arg(string(f.Status))
	return Query{
		SQL:  "UPDATE " + Table + " SET " + set + " WHERE id = " + b.arg(id),
		Args: b.args,
	}
}

// List devuelve la consulta de conteo y la de la página pedida.
func List(d Dialect, f notes.ListFilter, page notes.Page) (count Query, items Query) {
	b := &builder{d: d}

	b.and("owner_ref = " + b.arg(f.OwnerRef))
	if f.Category != "" {
		b.and("category = " + b.arg(string(f.Category)))
	}
	refClause(b, "account_ref", f.Account)
	refClause(b, "application_ref", f.Application)
	if f.Status != "" {
		b.and("status = " + b.arg(string(f.Status)))
	}
	if f.From != nil {
		b.and("created_at >= " + b.arg(d.Time(*f.From)))
	}
	if f.To != nil {
		b.and("created_at <= " + b.arg(d.Time(*f.To)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
		b.and("(LOWER(subject) LIKE " + b.arg(pattern) + " ESCAPE '\\' OR LOWER(body_text) LIKE " + b.arg(pattern) + " ESCAPE '\\')")
	}

	where := " WHERE " + strings.Join(b.where, " AND ")
	count = Query{
		SQL:  "SELECT COUNT(*) FROM " + Table + where,
		Args: append([]any(nil), b.args...),
	}

	page = page.Normalize()
	limit := b.arg(page.Size)
	offset := b.arg(page.Offset())
	items = Query{
		SQL:  "SELECT " + strings.Join(columns, ", ") + " FROM " + Table + where + " ORDER BY created_at DESC, id DESC LIMIT " + limit + " OFFSET " + offset,
		Args: b.args,
	}
	return count, items
}

func refClause(b *builder, col string, f notes.RefFilter) {
	switch f.Match {
	case notes.RefEquals:
		b.and(col + " = " + b.arg(f.Value))
	case notes.RefAbsent:
		b.and("(" + col + " IS NULL OR " + col + " = '')")
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullable(p *string) any {
	if p == nil || *p == "" {
		return nil
	}
	return *p
}

func nullableDoc(doc json.RawMessage) any {
	if len(doc) == 0 {
		return nil
	}
	return string(doc)
}

// Scanner cubre *sql.Row y *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanNote lee una fila en el orden de columns.
func ScanNote(s Scanner) (notes.Note, error) {
	var (
		n                                    notes.Note
		account, application, doc, amendsRef sql.NullString
		category, direction, priority        string
		sentiment, format, status            string
		created                              timeValue
	)
	if err := s.Scan(
		&n.ID, &n.OwnerRef, &account, &application,
		&category, &direction, &priority, &sentiment,
		&n.Subject, &format, &n.Body.Text, &doc,
		&n.AuthorRef, &amendsRef, &status, &created,
	); err != nil {
		return notes.Note{}, err
	}

	n.Links.AccountRef = fromNull(account)
	n.Links.ApplicationRef = fromNull(application)
	n.AmendsRef = fromNull(amendsRef)
	n.Classification = notes.Classification{
		Category:  notes.Category(category),
		Direction: notes.Direction(direction),
		Priority:  notes.Priority(priority),
		Sentiment: notes.Sentiment(sentiment),
	}
	n.Body.Format = notes.BodyFormat(format)
	if doc.Valid && doc.String != "" {
		n.Body.Doc = json.RawMessage(doc.String)
	}
	n.Status = notes.Status(status)
	n.CreatedAt = created.t
	return n, nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

// timeValue acepta created_at como time.Time (pgx) o texto (sqlite).
type timeValue struct {
	t time.Time
}

func (v *timeValue) Scan(src any) error {
	switch x := src.(type) {
	case time.Time:
		v.t = x.UTC()
		return nil
	case string:
		return v.parse(x)
	case []byte:
		return v.parse(string(x))
	case nil:
		return fmt.Errorf("created_at is null")
	default:
		return fmt.Errorf("created_at: unsupported type %T", src)
	}
}

func (v *timeValue) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}
	v.t = t.UTC()
	return nil
}
