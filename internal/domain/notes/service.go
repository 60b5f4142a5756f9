package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contact-notes/internal/platform/logger"
	"contact-notes/internal/ports/metrics"
	"contact-notes/internal/ports/notify"
)

const DefaultStoreTimeout = 5 * time.Second

type Service struct {
	repo    Repository
	guard   *Guard
	log     logger.Logger
	notify  notify.Publisher
	metrics metrics.Recorder

	// storeTimeout acota cada llamada al store (0 = sin límite propio).
	storeTimeout time.Duration
	now          func() time.Time
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithNotifier(p notify.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.notify = p
		}
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.metrics = r
		}
	}
}

func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.storeTimeout = d
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		guard:        NewGuard(),
		log:          logger.Discard(),
		notify:       notify.Nop{},
		metrics:      metrics.Nop{},
		storeTimeout: DefaultStoreTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registra una nota nueva. El autor sale de actor, nunca del input.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (Note, error) {
	n, err := s.guard.PrepareCreate(actor, in)
	if err != nil {
		return Note{}, err
	}

	// I3 best-effort: la versión corregida tiene que existir al crear.
	if n.AmendsRef != nil {
		if _, err := s.get(ctx, *n.AmendsRef); err != nil {
			if isNotFound(err) {
				return Note{}, invalidField("amends_ref", "references unknown note")
			}
			return Note{}, err
		}
	}

	return s.insert(ctx, actor, n)
}

func (s *Service) GetByID(ctx context.Context, id string) (Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Note{}, ErrInvalidInput
	}
	return s.get(ctx, id)
}

// Update aplica el contrato de update: solo status, solo hacia amended.
// Un patch sin status, o sobre una nota ya amended, es un no-op.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Note{}, ErrInvalidInput
	}
	if len(p.Dropped) > 0 {
		s.log.Debug("update: ignored immutable fields", map[string]any{"note_id": id, "fields": p.Dropped})
	}

	// Validamos el valor antes de ir al store: un status inválido falla igual
	// exista o no la nota.
	if p.Status != nil {
		if err := CheckTransition(*p.Status); err != nil {
			return Note{}, err
		}
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return Note{}, err
	}

	target, write, err := s.guard.CheckUpdate(current, p)
	if err != nil {
		return Note{}, err
	}
	if !write {
		return current, nil
	}

	updated, err := s.update(ctx, id, MutableFields{Status: target})
	if err != nil {
		return Note{}, err
	}
	s.publish(ctx, notify.Change{Type: notify.ChangeRetired, NoteID: updated.ID, OwnerRef: updated.OwnerRef})
	return updated, nil
}

func (s *Service) insert(ctx context.Context, actor Actor, n Note) (Note, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	created, err := s.repo.Insert(sctx, n)
	if err != nil {
		return Note{}, fmt.Errorf("insert note: %w", err)
	}

	s.log.Info("note created", map[string]any{
		"note_id":    created.ID,
		"owner_ref":  created.OwnerRef,
		"amends_ref": derefStr(created.AmendsRef),
		"author_ref": created.AuthorRef,
	})
	s.incr(ctx, metrics.NotesCreated, map[string]string{"category": string(created.Classification.Category)})
	s.publish(ctx, notify.Change{
		Type:      notify.ChangeCreated,
		NoteID:    created.ID,
		OwnerRef:  created.OwnerRef,
		AmendsRef: derefStr(created.AmendsRef),
		ActorID:   actor.ID,
	})
	return created, nil
}

func (s *Service) get(ctx context.Context, id string) (Note, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	n, err := s.repo.GetByID(sctx, id)
	if err != nil {
		return Note{}, fmt.Errorf("get note %s: %w", id, err)
	}
	return n, nil
}

func (s *Service) update(ctx context.Context, id string, f MutableFields) (Note, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	n, err := s.repo.UpdateFields(sctx, id, f)
	if err != nil {
		return Note{}, fmt.Errorf("update note %s: %w", id, err)
	}
	return n, nil
}

func (s *Service) list(ctx context.Context, f ListFilter, p Page) (ListResult, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	res, err := s.repo.List(sctx, f, p)
	if err != nil {
		return ListResult{}, fmt.Errorf("list notes: %w", err)
	}
	return res, nil
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (s *Service) publish(ctx context.Context, c notify.Change) {
	if c.At.IsZero() {
		c.At = s.now().UTC()
	}
	if err := s.notify.Publish(ctx, c); err != nil {
		s.log.Warn("notify failed", map[string]any{"type": string(c.Type), "note_id": c.NoteID, "err": err.Error()})
	}
}

func (s *Service) incr(ctx context.Context, name string, dims map[string]string) {
	if err := s.metrics.Incr(ctx, name, dims); err != nil {
		s.log.Warn("metric failed", map[string]any{"metric": name, "err": err.Error()})
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
