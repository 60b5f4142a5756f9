package notes

import (
	"context"
	"encoding/json"
	"strings"

	"contact-notes/internal/ports/metrics"
	"contact-notes/internal/ports/notify"
)

type AmendResult struct {
	NewRecordID string
	Note        Note
}

// Amend corrige una nota en dos pasos sin transacción:
//  1. crea la nota nueva con amendsRef = originalID
//  2. retira la original (status = amended)
//
// Si falla 1 no hay efectos. Si falla 2 la nota nueva queda creada (no se hace
// rollback) y se devuelve *PartialAmendmentError con ambos ids; el caller
// reintenta solo el paso 2 con RetryRetire. Amend no reintenta por su cuenta.
func (s *Service) Amend(ctx context.Context, actor Actor, originalID string, in CreateInput) (AmendResult, error) {
	originalID = strings.TrimSpace(originalID)
	if originalID == "" {
		return AmendResult{}, ErrInvalidInput
	}
	if strings.TrimSpace(actor.ID) == "" {
		return AmendResult{}, ErrUnauthenticated
	}

	original, err := s.get(ctx, originalID)
	if err != nil {
		return AmendResult{}, err
	}
	if original.Status == StatusAmended {
		return AmendResult{}, ErrAlreadyAmended
	}

	owner := strings.TrimSpace(in.OwnerRef)
	if owner == "" {
		in.OwnerRef = original.OwnerRef
	} else if owner != original.OwnerRef {
		return AmendResult{}, invalidField("owner_ref", "must match the amended note")
	}
	in.AmendsRef = strPtr(original.ID)

	n, err := s.guard.PrepareCreate(actor, in)
	if err != nil {
		return AmendResult{}, err
	}

	// Paso 1: create.
	created, err := s.insert(ctx, actor, n)
	if err != nil {
		return AmendResult{}, err
	}

	// Paso 2: retire. Un timeout acá cuenta como fallo del retiro.
	if _, err := s.update(ctx, original.ID, MutableFields{Status: StatusAmended}); err != nil {
		s.log.Error("amend: retire step failed", map[string]any{
			"original_id": original.ID,
			"new_id":      created.ID,
			"err":         err.Error(),
		})
		s.incr(ctx, metrics.PartialAmendments, nil)
		return AmendResult{NewRecordID: created.ID, Note: created}, &PartialAmendmentError{
			OriginalID:  original.ID,
			NewRecordID: created.ID,
			Cause:       err,
		}
	}

	s.log.Info("note amended", map[string]any{"original_id": original.ID, "new_id": created.ID})
	s.incr(ctx, metrics.NotesAmended, nil)
	s.publish(ctx, notify.Change{
		Type:      notify.ChangeAmended,
		NoteID:    created.ID,
		OwnerRef:  created.OwnerRef,
		AmendsRef: original.ID,
		ActorID:   actor.ID,
	})

	return AmendResult{NewRecordID: created.ID, Note: created}, nil
}

// RetryRetire reejecuta solo el paso 2 de Amend. Es idempotente: si la nota ya
// está amended no escribe nada.
func (s *Service) RetryRetire(ctx context.Context, originalID string) (Note, error) {
	originalID = strings.TrimSpace(originalID)
	if originalID == "" {
		return Note{}, ErrInvalidInput
	}

	current, err := s.get(ctx, originalID)
	if err != nil {
		return Note{}, err
	}
	if current.Status == StatusAmended {
		return current, nil
	}

	updated, err := s.update(ctx, originalID, MutableFields{Status: StatusAmended})
	if err != nil {
		return Note{}, err
	}

	s.log.Info("retire retried", map[string]any{"note_id": originalID})
	s.incr(ctx, metrics.RetireRetries, nil)
	s.publish(ctx, notify.Change{Type: notify.ChangeRetired, NoteID: updated.ID, OwnerRef: updated.OwnerRef})
	return updated, nil
}

// Prefill arma los valores iniciales de una corrección a partir de la nota
// fuente. Es una transformación pura: no lee ni escribe nada.
func Prefill(source Note) CreateInput {
	in := CreateInput{
		OwnerRef:  source.OwnerRef,
		Category:  source.Classification.Category,
		Direction: source.Classification.Direction,
		Priority:  source.Classification.Priority,
		Sentiment: source.Classification.Sentiment,
		Subject:   source.Subject,
		Body: Body{
			Format: source.Body.Format,
			Text:   source.Body.Text,
		},
		AmendsRef: strPtr(source.ID),
	}
	if source.Links.AccountRef != nil {
		in.AccountRef = strPtr(*source.Links.AccountRef)
	}
	if source.Links.ApplicationRef != nil {
		in.ApplicationRef = strPtr(*source.Links.ApplicationRef)
	}
	if len(source.Body.Doc) > 0 {
		in.Body.Doc = append(json.RawMessage(nil), source.Body.Doc...)
	}
	return in
}
