package notes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"contact-notes/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/notes", func(nr chi.Router) {
		nr.Post("/", createNoteHandler(svc))
		nr.Get("/{noteID}", getNoteHandler(svc))
		nr.Patch("/{noteID}", updateNoteHandler(svc))

		// Corrección en dos pasos + reintento del retiro
		nr.Post("/{noteID}/amend", amendNoteHandler(svc))
		nr.Post("/{noteID}/retire", retryRetireHandler(svc))

		nr.Get("/{noteID}/history", historyHandler(svc))
	})

	r.Get("/owners/{ownerRef}/timeline", timelineHandler(svc))
}

type bodyPayload struct {
	Format BodyFormat      `json:"format" enums:"text,rich"`
	Text   string          `json:"text"`
	Doc    json.RawMessage `json:"doc,omitempty" swaggertype:"object"`
}

// createNoteRequest es el cuerpo para registrar una nota de contacto.
type createNoteRequest struct {
	OwnerRef       string      `json:"owner_ref"`
	AccountRef     *string     `json:"account_ref"`
	ApplicationRef *string     `json:"application_ref"`
	Category       Category    `json:"category" enums:"call,email,meeting,sms,visit,complaint,collection,general"`
	Direction      Direction   `json:"direction" enums:"inbound,outbound"`
	Priority       Priority    `json:"priority" enums:"low,normal,high,urgent"`
	Sentiment      Sentiment   `json:"sentiment" enums:"positive,neutral,negative"`
	Subject        string      `json:"subject"`
	Body           bodyPayload `json:"body"`
	AmendsRef      *string     `json:"amends_ref"`
}

// amendNoteRequest: punteros para "no tocar". Lo que no venga se toma de la
// nota original.
type amendNoteRequest struct {
	AccountRef     *string      `json:"account_ref"`
	ApplicationRef *string      `json:"application_ref"`
	Category       *Category    `json:"category"`
	Direction      *Direction   `json:"direction"`
	Priority       *Priority    `json:"priority"`
	Sentiment      *Sentiment   `json:"sentiment"`
	Subject        *string      `json:"subject"`
	Body           *bodyPayload `json:"body"`
}

type noteResponse struct {
	ID             string      `json:"id"`
	OwnerRef       string      `json:"owner_ref"`
	AccountRef     *string     `json:"account_ref,omitempty"`
	ApplicationRef *string     `json:"application_ref,omitempty"`
	Category       Category    `json:"category"`
	Direction      Direction   `json:"direction,omitempty"`
	Priority       Priority    `json:"priority,omitempty"`
	Sentiment      Sentiment   `json:"sentiment,omitempty"`
	Subject        string      `json:"subject"`
	Body           bodyPayload `json:"body"`
	AuthorRef      string      `json:"author_ref"`
	AmendsRef      *string     `json:"amends_ref,omitempty"`
	Status         Status      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	HasHistory     bool        `json:"has_history"`
}

type amendResponse struct {
	NewRecordID string       `json:"new_record_id"`
	Note        noteResponse `json:"note"`
}

type partialAmendmentResponse struct {
	Error       string `json:"error"`
	OriginalID  string `json:"original_id"`
	NewRecordID string `json:"new_record_id"`
	Cause       string `json:"cause"`
}

type historyResponse struct {
	Note          noteResponse   `json:"note"`
	Versions      []noteResponse `json:"versions"`
	Truncated     bool           `json:"truncated"`
	CycleDetected bool           `json:"cycle_detected"`
}

type timelineResponse struct {
	Records    []noteResponse `json:"records"`
	TotalCount int            `json:"total_count"`
	HasMore    bool           `json:"has_more"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// createNoteHandler godoc
// @Summary Crear nota de contacto
// @Description Registra una nota inmutable. El autor se toma de la identidad autenticada. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags notes
// @Accept json
// @Produce json
// @Param payload body createNoteRequest true "Datos de la nota"
// @Success 201 {object} noteResponse
// @Failure 400 {string} string "validation error: <campo>: <motivo>"
// @Failure 401 {string} string "unauthorized"
// @Router /notes [post]
func createNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		n, err := svc.Create(r.Context(), actor, CreateInput{
			OwnerRef:       req.OwnerRef,
			AccountRef:     req.AccountRef,
			ApplicationRef: req.ApplicationRef,
			Category:       req.Category,
			Direction:      req.Direction,
			Priority:       req.Priority,
			Sentiment:      req.Sentiment,
			Subject:        req.Subject,
			Body:           Body(req.Body),
			AmendsRef:      req.AmendsRef,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toNoteResponse(n))
	}
}

// getNoteHandler godoc
// @Summary Obtener nota
// @Tags notes
// @Produce json
// @Param noteID path string true "ID de la nota"
// @Success 200 {object} noteResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "note not found"
// @Router /notes/{noteID} [get]
func getNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorFrom(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.GetByID(r.Context(), chi.URLParam(r, "noteID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNoteResponse(n))
	}
}

// updateNoteHandler godoc
// @Summary Actualizar estado de una nota
// @Description Solo se acepta `{"status":"amended"}`. Cualquier otro campo se ignora; cualquier otro valor de status devuelve 409. Reenviar amended sobre una nota ya amended es un no-op.
// @Tags notes
// @Accept json
// @Produce json
// @Param noteID path string true "ID de la nota"
// @Success 200 {object} noteResponse
// @Failure 404 {string} string "note not found"
// @Failure 409 {string} string "invalid state transition"
// @Router /notes/{noteID} [patch]
func updateNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorFrom(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		// Decodificamos a map para poder descartar campos inmutables sin error.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := PatchFromJSON(raw)
		if err != nil {
			writeError(w, err)
			return
		}

		n, err := svc.Update(r.Context(), chi.URLParam(r, "noteID"), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNoteResponse(n))
	}
}

// amendNoteHandler godoc
// @Summary Corregir (amend) una nota
// @Description Crea una nota nueva que corrige la indicada y luego retira la original. Si el retiro falla, responde 503 con ambos ids: reintentar solo con POST /notes/{noteID}/retire.
// @Tags notes
// @Accept json
// @Produce json
// @Param noteID path string true "ID de la nota original"
// @Param payload body amendNoteRequest true "Campos a corregir (los ausentes se copian de la original)"
// @Success 201 {object} amendResponse
// @Failure 400 {string} string "validation error"
// @Failure 404 {string} string "note not found"
// @Failure 409 {string} string "note already amended"
// @Failure 503 {object} partialAmendmentResponse
// @Router /notes/{noteID}/amend [post]
func amendNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req amendNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		noteID := chi.URLParam(r, "noteID")
		original, err := svc.GetByID(r.Context(), noteID)
		if err != nil {
			writeError(w, err)
			return
		}

		res, err := svc.Amend(r.Context(), actor, original.ID, req.apply(Prefill(original)))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, amendResponse{
			NewRecordID: res.NewRecordID,
			Note:        toNoteResponse(res.Note),
		})
	}
}

// retryRetireHandler godoc
// @Summary Reintentar el retiro de una nota corregida
// @Description Marca la nota como amended. Idempotente.
// @Tags notes
// @Produce json
// @Param noteID path string true "ID de la nota original"
// @Success 200 {object} noteResponse
// @Failure 404 {string} string "note not found"
// @Router /notes/{noteID}/retire [post]
func retryRetireHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorFrom(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		n, err := svc.RetryRetire(r.Context(), chi.URLParam(r, "noteID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNoteResponse(n))
	}
}

// historyHandler godoc
// @Summary Historial de versiones de una nota
// @Description Devuelve las versiones previas (la más antigua primero). Links rotos o ciclos cortan la cadena sin error.
// @Tags notes
// @Produce json
// @Param noteID path string true "ID de la nota"
// @Success 200 {object} historyResponse
// @Failure 404 {string} string "note not found"
// @Router /notes/{noteID}/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorFrom(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		h, err := svc.HistoryByID(r.Context(), chi.URLParam(r, "noteID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := historyResponse{
			Note:          toNoteResponse(h.Note),
			Versions:      make([]noteResponse, 0, len(h.Versions)),
			Truncated:     h.Truncated,
			CycleDetected: h.CycleDetected,
		}
		for _, v := range h.Versions {
			out.Versions = append(out.Versions, toNoteResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// timelineHandler godoc
// @Summary Timeline de notas de un owner
// @Description Lista las notas activas (cabezas de cadena) del owner, más nuevas primero. `account=none` / `application=none` filtran notas sin esa referencia.
// @Tags notes
// @Produce json
// @Param ownerRef path string true "Referencia del owner (cliente)"
// @Param category query string false "Categoría"
// @Param account query string false "Cuenta vinculada, o none"
// @Param application query string false "Solicitud vinculada, o none"
// @Param from query string false "created_at mínimo (RFC3339)"
// @Param to query string false "created_at máximo (RFC3339)"
// @Param q query string false "Texto libre en subject/body"
// @Param page query int false "Página (1-based). Por defecto 1"
// @Param page_size query int false "Tamaño de página (1-100). Por defecto 20"
// @Success 200 {object} timelineResponse
// @Failure 400 {string} string "Parámetros de filtro inválidos"
// @Router /owners/{ownerRef}/timeline [get]
func timelineHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := actorFrom(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, page, err := parseTimelineQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		tl, err := svc.Timeline(r.Context(), chi.URLParam(r, "ownerRef"), filter, page)
		if err != nil {
			writeError(w, err)
			return
		}

		out := timelineResponse{
			Records:    make([]noteResponse, 0, len(tl.Records)),
			TotalCount: tl.TotalCount,
			HasMore:    tl.HasMore,
			Page:       tl.Page,
			PageSize:   tl.PageSize,
		}
		for _, n := range tl.Records {
			out.Records = append(out.Records, toNoteResponse(n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (req amendNoteRequest) apply(in CreateInput) CreateInput {
	if req.AccountRef != nil {
		in.AccountRef = req.AccountRef
	}
	if req.ApplicationRef != nil {
		in.ApplicationRef = req.ApplicationRef
	}
	if req.Category != nil {
		in.Category = *req.Category
	}
	if req.Direction != nil {
		in.Direction = *req.Direction
	}
	if req.Priority != nil {
		in.Priority = *req.Priority
	}
	if req.Sentiment != nil {
		in.Sentiment = *req.Sentiment
	}
	if req.Subject != nil {
		in.Subject = *req.Subject
	}
	if req.Body != nil {
		in.Body = Body(*req.Body)
	}
	return in
}

func parseTimelineQuery(r *http.Request) (TimelineFilter, Page, error) {
	q := r.URL.Query()

	var f TimelineFilter
	if v := strings.TrimSpace(q.Get("category")); v != "" {
		f.Category = Category(v)
	}
	f.Account = parseRefFilter(q.Get("account"))
	f.Application = parseRefFilter(q.Get("application"))

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return TimelineFilter{}, Page{}, errors.New("from must be RFC3339")
		}
		f.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return TimelineFilter{}, Page{}, errors.New("to must be RFC3339")
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return TimelineFilter{}, Page{}, errors.New("from must not be after to")
	}
	f.Query = strings.TrimSpace(q.Get("q"))

	var p Page
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return TimelineFilter{}, Page{}, errors.New("page must be a positive integer")
		}
		if n > MaxPageNumber {
			return TimelineFilter{}, Page{}, errors.New("page out of range")
		}
		p.Number = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxPageSize {
			return TimelineFilter{}, Page{}, errors.New("page_size must be between 1 and 100")
		}
		p.Size = n
	}

	return f, p.Normalize(), nil
}

// parseRefFilter: vacío = cualquiera, "none" = sin referencia, otro = igualdad.
func parseRefFilter(v string) RefFilter {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return RefFilter{Match: RefAny}
	case strings.EqualFold(v, "none"):
		return RefFilter{Match: RefAbsent}
	default:
		return RefFilter{Match: RefEquals, Value: v}
	}
}

func actorFrom(r *http.Request) (Actor, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return Actor{}, false
	}
	return Actor{ID: strings.TrimSpace(claims.UserID)}, true
}

func writeError(w http.ResponseWriter, err error) {
	var partial *PartialAmendmentError
	if errors.As(err, &partial) {
		writeJSON(w, http.StatusServiceUnavailable, partialAmendmentResponse{
			Error:       "partial_amendment",
			OriginalID:  partial.OriginalID,
			NewRecordID: partial.NewRecordID,
			Cause:       partial.Cause.Error(),
		})
		return
	}

	switch {
	case errors.Is(err, ErrValidation):
		var ve *ValidationError
		if errors.As(err, &ve) {
			http.Error(w, ve.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, ErrInvalidInput.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "note not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidStateTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrAlreadyAmended):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toNoteResponse(n Note) noteResponse {
	return noteResponse{
		ID:             n.ID,
		OwnerRef:       n.OwnerRef,
		AccountRef:     n.Links.AccountRef,
		ApplicationRef: n.Links.ApplicationRef,
		Category:       n.Classification.Category,
		Direction:      n.Classification.Direction,
		Priority:       n.Classification.Priority,
		Sentiment:      n.Classification.Sentiment,
		Subject:        n.Subject,
		Body:           bodyPayload(n.Body),
		AuthorRef:      n.AuthorRef,
		AmendsRef:      n.AmendsRef,
		Status:         n.Status,
		CreatedAt:      n.CreatedAt,
		HasHistory:     n.HasHistory(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
