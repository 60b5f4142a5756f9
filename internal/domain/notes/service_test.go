package notes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestCreate_AssignsStoreFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	n, err := svc.Create(context.Background(), testActor, validInput("cust-1", "Call"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID == "" || n.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at from store, got %+v", n)
	}
	if n.Status != StatusActive || n.AuthorRef != testActor.ID {
		t.Fatalf("unexpected system fields: %+v", n)
	}
}

func TestCreate_RejectsUnknownAmendsRef(t *testing.T) {
	svc := NewService(newTestRepo())

	in := validInput("cust-1", "Call")
	in.AmendsRef = strPtr("missing")

	_, err := svc.Create(context.Background(), testActor, in)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "amends_ref" {
		t.Fatalf("expected amends_ref validation error, got %v", err)
	}
}

func TestUpdate_IgnoresImmutableFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	n, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))

	p, err := PatchFromJSON(map[string]json.RawMessage{
		"subject":   json.RawMessage(`"Tampered"`),
		"owner_ref": json.RawMessage(`"cust-2"`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Update(ctx, n.ID, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subject != "Call" || got.OwnerRef != "cust-1" {
		t.Fatalf("immutable fields changed: %+v", got)
	}
	if repo.updateCalls != 0 {
		t.Fatalf("expected no store write, got %d", repo.updateCalls)
	}
}

func TestUpdate_OnlyAmendedIsAccepted(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	n, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))

	for _, v := range []Status{StatusActive, "deleted", ""} {
		st := v
		_, err := svc.Update(ctx, n.ID, Patch{Status: &st})
		if !errors.Is(err, ErrInvalidStateTransition) {
			t.Fatalf("status %q: expected ErrInvalidStateTransition, got %v", v, err)
		}
		if repo.status(n.ID) != StatusActive {
			t.Fatalf("status changed after rejected update")
		}
	}

	st := StatusAmended
	got, err := svc.Update(ctx, n.ID, Patch{Status: &st})
	if err != nil || got.Status != StatusAmended {
		t.Fatalf("expected amended, got %v %v", got.Status, err)
	}

	// Repetir es no-op exitoso.
	calls := repo.updateCalls
	if _, err := svc.Update(ctx, n.ID, Patch{Status: &st}); err != nil {
		t.Fatalf("repeat amended should succeed: %v", err)
	}
	if repo.updateCalls != calls {
		t.Fatalf("repeat amended should not write")
	}

	back := StatusActive
	if _, err := svc.Update(ctx, n.ID, Patch{Status: &back}); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("amended->active must fail, got %v", err)
	}
	if repo.status(n.ID) != StatusAmended {
		t.Fatalf("status must stay amended")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())
	st := StatusAmended
	if _, err := svc.Update(context.Background(), "nope", Patch{Status: &st}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAmend_CreatesNewVersionAndRetiresOriginal(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))

	in := Prefill(r1)
	in.Subject = "Call (corrected)"
	res, err := svc.Amend(ctx, testActor, r1.ID, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r2 := res.Note
	if res.NewRecordID != r2.ID || r2.AmendsRef == nil || *r2.AmendsRef != r1.ID {
		t.Fatalf("new version must reference original: %+v", res)
	}
	if repo.status(r1.ID) != StatusAmended {
		t.Fatalf("original must be amended")
	}

	tl, err := svc.Timeline(ctx, "cust-1", TimelineFilter{}, Page{})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(tl.Records) != 1 || tl.Records[0].ID != r2.ID {
		t.Fatalf("timeline should only contain r2, got %+v", tl.Records)
	}

	hist, err := svc.ResolveHistory(ctx, r2)
	if err != nil || len(hist) != 1 || hist[0].ID != r1.ID {
		t.Fatalf("history of r2 should be [r1], got %v %v", hist, err)
	}
}

func TestAmend_CreateFailureLeavesOriginalUntouched(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))

	boom := errors.New("store unavailable")
	repo.insertErr = boom

	_, err := svc.Amend(ctx, testActor, r1.ID, Prefill(r1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, ErrPartialAmendment) {
		t.Fatalf("create failure is not a partial amendment")
	}
	if repo.updateCalls != 0 || repo.status(r1.ID) != StatusActive {
		t.Fatalf("original must be untouched")
	}
}

func TestAmend_RetireFailureThenRetry(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))
	repo.updateErr = failOnce(errors.New("write conflict"))

	res, err := svc.Amend(ctx, testActor, r1.ID, Prefill(r1))

	var partial *PartialAmendmentError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialAmendmentError, got %v", err)
	}
	if partial.OriginalID != r1.ID || partial.NewRecordID == "" || partial.NewRecordID != res.NewRecordID {
		t.Fatalf("partial error must carry both ids: %+v", partial)
	}

	// Ventana parcial: dos cabezas activas.
	tl, _ := svc.Timeline(ctx, "cust-1", TimelineFilter{}, Page{})
	if tl.TotalCount != 2 {
		t.Fatalf("expected two active records during the partial window, got %d", tl.TotalCount)
	}

	if _, err := svc.RetryRetire(ctx, r1.ID); err != nil {
		t.Fatalf("retry retire: %v", err)
	}

	active := 0
	for _, id := range []string{r1.ID, partial.NewRecordID} {
		if repo.status(id) == StatusActive {
			active++
		}
	}
	if active != 1 || repo.status(partial.NewRecordID) != StatusActive {
		t.Fatalf("expected exactly the new record active after retry")
	}
}

func TestAmend_RetireTimeoutIsPartialFailure(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, WithStoreTimeout(20*time.Millisecond))
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))
	repo.blockUpdate = true

	_, err := svc.Amend(ctx, testActor, r1.ID, Prefill(r1))
	if !errors.Is(err, ErrPartialAmendment) {
		t.Fatalf("expected partial amendment, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("cause should be the timeout, got %v", err)
	}

	repo.blockUpdate = false
	n, err := svc.RetryRetire(ctx, r1.ID)
	if err != nil || n.Status != StatusAmended {
		t.Fatalf("retry after timeout: %v %v", n.Status, err)
	}
}

func TestRetryRetire_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))
	if _, err := svc.Amend(ctx, testActor, r1.ID, Prefill(r1)); err != nil {
		t.Fatalf("amend: %v", err)
	}

	calls := repo.updateCalls
	for i := 0; i < 2; i++ {
		n, err := svc.RetryRetire(ctx, r1.ID)
		if err != nil || n.Status != StatusAmended {
			t.Fatalf("retry %d: %v %v", i, n.Status, err)
		}
	}
	if repo.updateCalls != calls {
		t.Fatalf("retries on an amended record must not write")
	}
}

func TestRetryRetire_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())
	if _, err := svc.RetryRetire(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAmend_Errors(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Amend(ctx, testActor, "ghost", validInput("cust-1", "x")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))

	if _, err := svc.Amend(ctx, Actor{}, r1.ID, Prefill(r1)); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	other := Prefill(r1)
	other.OwnerRef = "cust-2"
	if _, err := svc.Amend(ctx, testActor, r1.ID, other); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected owner mismatch validation error, got %v", err)
	}

	bad := Prefill(r1)
	bad.Subject = ""
	if _, err := svc.Amend(ctx, testActor, r1.ID, bad); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.status(r1.ID) != StatusActive {
		t.Fatalf("invalid amendments must not retire the original")
	}

	if _, err := svc.Amend(ctx, testActor, r1.ID, Prefill(r1)); err != nil {
		t.Fatalf("amend: %v", err)
	}
	if _, err := svc.Amend(ctx, testActor, r1.ID, Prefill(r1)); !errors.Is(err, ErrAlreadyAmended) {
		t.Fatalf("expected ErrAlreadyAmended, got %v", err)
	}
}

func TestAmend_OwnerInheritedWhenEmpty(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))
	in := validInput("", "Call (fixed)")

	res, err := svc.Amend(ctx, testActor, r1.ID, in)
	if err != nil || res.Note.OwnerRef != "cust-1" {
		t.Fatalf("expected inherited owner, got %+v %v", res.Note, err)
	}
}

// Dos correcciones de la misma nota antes de que corra el retiro: quedan dos
// cabezas activas apuntando a la misma original. No es un crash.
func TestAmend_RacingAmendmentsFork(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r1, _ := svc.Create(ctx, testActor, validInput("cust-1", "Call"))
	repo.updateErr = func(string) error { return errors.New("retire delayed") }

	a, errA := svc.Amend(ctx, testActor, r1.ID, Prefill(r1))
	b, errB := svc.Amend(ctx, testActor, r1.ID, Prefill(r1))
	if !errors.Is(errA, ErrPartialAmendment) || !errors.Is(errB, ErrPartialAmendment) {
		t.Fatalf("expected partial failures, got %v / %v", errA, errB)
	}

	for _, id := range []string{a.NewRecordID, b.NewRecordID} {
		n, err := repo.GetByID(ctx, id)
		if err != nil || n.Status != StatusActive || *n.AmendsRef != r1.ID {
			t.Fatalf("expected active amendment of r1, got %+v %v", n, err)
		}
	}
}

func TestPrefill_IsACopy(t *testing.T) {
	src := Note{
		ID:       "n-1",
		OwnerRef: "cust-1",
		Links:    Links{AccountRef: strPtr("acc-1")},
		Classification: Classification{
			Category: CategoryMeeting, Direction: DirectionInbound, Priority: PriorityHigh, Sentiment: SentimentNegative,
		},
		Subject: "Meeting",
		Body:    Body{Format: BodyFormatRich, Doc: json.RawMessage(`{"type":"doc","content":[]}`)},
		Status:  StatusActive,
	}

	in := Prefill(src)
	if in.OwnerRef != "cust-1" || in.Category != CategoryMeeting || in.Priority != PriorityHigh || in.Subject != "Meeting" {
		t.Fatalf("unexpected prefill: %+v", in)
	}
	if in.AmendsRef == nil || *in.AmendsRef != "n-1" {
		t.Fatalf("prefill must point at source")
	}

	*in.AccountRef = "changed"
	in.Body.Doc[0] = 'X'
	if *src.Links.AccountRef != "acc-1" || src.Body.Doc[0] != '{' {
		t.Fatalf("prefill must not alias the source note")
	}
}
