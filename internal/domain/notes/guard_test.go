package notes

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrepareCreate_StampsSystemFields(t *testing.T) {
	g := NewGuard()

	n, err := g.PrepareCreate(Actor{ID: " agent-1 "}, CreateInput{
		OwnerRef:   "cust-1",
		AccountRef: strPtr("  "),
		Category:   CategoryEmail,
		Subject:    "  Follow-up  ",
		Body:       Body{Text: "sent statement"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.AuthorRef != "agent-1" {
		t.Fatalf("expected author from actor, got %q", n.AuthorRef)
	}
	if n.Status != StatusActive {
		t.Fatalf("expected active, got %q", n.Status)
	}
	if n.Subject != "Follow-up" {
		t.Fatalf("expected trimmed subject, got %q", n.Subject)
	}
	if n.Body.Format != BodyFormatText {
		t.Fatalf("expected default text format, got %q", n.Body.Format)
	}
	if n.Links.AccountRef != nil {
		t.Fatalf("blank account ref should be dropped")
	}
	if n.ID != "" || !n.CreatedAt.IsZero() {
		t.Fatalf("id/created_at belong to the store")
	}
}

func TestPrepareCreate_Unauthenticated(t *testing.T) {
	_, err := NewGuard().PrepareCreate(Actor{}, validInput("cust-1", "Call"))
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPrepareCreate_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*CreateInput)
		field string
	}{
		{"missing owner", func(in *CreateInput) { in.OwnerRef = "" }, "owner_ref"},
		{"missing category", func(in *CreateInput) { in.Category = "" }, "category"},
		{"unknown category", func(in *CreateInput) { in.Category = "fax" }, "category"},
		{"bad direction", func(in *CreateInput) { in.Direction = "sideways" }, "direction"},
		{"missing subject", func(in *CreateInput) { in.Subject = "   " }, "subject"},
		{"subject too long", func(in *CreateInput) { in.Subject = strings.Repeat("ñ", MaxSubjectLen+1) }, "subject"},
		{"empty text body", func(in *CreateInput) { in.Body = Body{Format: BodyFormatText} }, "body.text"},
		{"unknown body format", func(in *CreateInput) { in.Body.Format = "html" }, "body.format"},
		{"rich body not doc", func(in *CreateInput) {
			in.Body = Body{Format: BodyFormatRich, Doc: json.RawMessage(`{"type":"paragraph"}`)}
		}, "body.doc"},
		{"rich body without content", func(in *CreateInput) {
			in.Body = Body{Format: BodyFormatRich, Doc: json.RawMessage(`{"type":"doc","content":null}`)}
		}, "body.doc"},
		{"rich node without type", func(in *CreateInput) {
			in.Body = Body{Format: BodyFormatRich, Doc: json.RawMessage(`{"type":"doc","content":[{"text":"x"}]}`)}
		}, "body.doc"},
	}

	g := NewGuard()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput("cust-1", "Call")
			tc.mut(&in)

			_, err := g.PrepareCreate(testActor, in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected field %q, got %v", tc.field, err)
			}
		})
	}
}

func TestPrepareCreate_SubjectAtLimitUsesRunes(t *testing.T) {
	in := validInput("cust-1", strings.Repeat("é", MaxSubjectLen))
	if _, err := NewGuard().PrepareCreate(testActor, in); err != nil {
		t.Fatalf("subject of %d runes should pass: %v", MaxSubjectLen, err)
	}
}

func TestPrepareCreate_RichBody(t *testing.T) {
	in := validInput("cust-1", "Visit")
	in.Body = Body{
		Format: BodyFormatRich,
		Doc:    json.RawMessage(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"ok"}]}]}`),
	}
	if _, err := NewGuard().PrepareCreate(testActor, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPatchFromJSON(t *testing.T) {
	raw := map[string]json.RawMessage{
		"status":  json.RawMessage(`"amended"`),
		"subject": json.RawMessage(`"rewritten"`),
		"id":      json.RawMessage(`"other"`),
	}
	p, err := PatchFromJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status == nil || *p.Status != StatusAmended {
		t.Fatalf("expected status amended, got %v", p.Status)
	}
	if strings.Join(p.Dropped, ",") != "id,subject" {
		t.Fatalf("unexpected dropped fields: %v", p.Dropped)
	}

	for _, bad := range []string{`null`, `1`, `{"v":"amended"}`} {
		_, err := PatchFromJSON(map[string]json.RawMessage{"status": json.RawMessage(bad)})
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("status %s: expected ErrInvalidStateTransition, got %v", bad, err)
		}
	}
}

func TestCheckUpdate(t *testing.T) {
	g := NewGuard()
	active := Note{ID: "n-1", Status: StatusActive}
	amended := Note{ID: "n-1", Status: StatusAmended}

	st := StatusAmended
	if target, write, err := g.CheckUpdate(active, Patch{Status: &st}); err != nil || !write || target != StatusAmended {
		t.Fatalf("active->amended should write: %v %v %v", target, write, err)
	}
	if _, write, err := g.CheckUpdate(amended, Patch{Status: &st}); err != nil || write {
		t.Fatalf("amended->amended should be a no-op: %v %v", write, err)
	}
	if _, write, err := g.CheckUpdate(active, Patch{}); err != nil || write {
		t.Fatalf("empty patch should be a no-op: %v %v", write, err)
	}

	back := StatusActive
	if _, _, err := g.CheckUpdate(amended, Patch{Status: &back}); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("amended->active must fail, got %v", err)
	}
}
