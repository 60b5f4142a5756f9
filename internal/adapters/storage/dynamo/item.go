package dynamo

import (
	"encoding/json"
	"fmt"
	"time"

	"contact-notes/internal/domain/notes"
)

// timeLayout tiene ancho fijo para que created_at ordene como sort key del GSI.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// noteItem es la forma persistida en la tabla.
type noteItem struct {
	ID             string  `dynamodbav:"id"`
	OwnerRef       string  `dynamodbav:"owner_ref"`
	AccountRef     *string `dynamodbav:"account_ref,omitempty"`
	ApplicationRef *string `dynamodbav:"application_ref,omitempty"`
	Category       string  `dynamodbav:"category"`
	Direction      string  `dynamodbav:"direction,omitempty"`
	Priority       string  `dynamodbav:"priority,omitempty"`
	Sentiment      string  `dynamodbav:"sentiment,omitempty"`
	Subject        string  `dynamodbav:"subject"`
	BodyFormat     string  `dynamodbav:"body_format"`
	BodyText       string  `dynamodbav:"body_text,omitempty"`
	BodyDoc        string  `dynamodbav:"body_doc,omitempty"`
	AuthorRef      string  `dynamodbav:"author_ref"`
	AmendsRef      *string `dynamodbav:"amends_ref,omitempty"`
	Status         string  `dynamodbav:"status"`
	CreatedAt      string  `dynamodbav:"created_at"`
}

func toItem(n notes.Note) noteItem {
	return noteItem{
		ID:             n.ID,
		OwnerRef:       n.OwnerRef,
		AccountRef:     blankToNil(n.Links.AccountRef),
		ApplicationRef: blankToNil(n.Links.ApplicationRef),
		Category:       string(n.Classification.Category),
		Direction:      string(n.Classification.Direction),
		Priority:       string(n.Classification.Priority),
		Sentiment:      string(n.Classification.Sentiment),
		Subject:        n.Subject,
		BodyFormat:     string(n.Body.Format),
		BodyText:       n.Body.Text,
		BodyDoc:        string(n.Body.Doc),
		AuthorRef:      n.AuthorRef,
		AmendsRef:      blankToNil(n.AmendsRef),
		Status:         string(n.Status),
		CreatedAt:      formatTime(n.CreatedAt),
	}
}

func (it noteItem) toNote() (notes.Note, error) {
	created, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return notes.Note{}, fmt.Errorf("note %s created_at: %w", it.ID, err)
	}

	n := notes.Note{
		ID:       it.ID,
		OwnerRef: it.OwnerRef,
		Links: notes.Links{
			AccountRef:     blankToNil(it.AccountRef),
			ApplicationRef: blankToNil(it.ApplicationRef),
		},
		Classification: notes.Classification{
			Category:  notes.Category(it.Category),
			Direction: notes.Direction(it.Direction),
			Priority:  notes.Priority(it.Priority),
			Sentiment: notes.Sentiment(it.Sentiment),
		},
		Subject:   it.Subject,
		Body:      notes.Body{Format: notes.BodyFormat(it.BodyFormat), Text: it.BodyText},
		AuthorRef: it.AuthorRef,
		AmendsRef: blankToNil(it.AmendsRef),
		Status:    notes.Status(it.Status),
		CreatedAt: created.UTC(),
	}
	if it.BodyDoc != "" {
		n.Body.Doc = json.RawMessage(it.BodyDoc)
	}
	return n, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func blankToNil(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	v := *p
	return &v
}
