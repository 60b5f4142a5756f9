package notes

import (
	"context"
	"strings"

	"contact-notes/internal/ports/metrics"
)

// History es la cadena de versiones previas de una nota.
type History struct {
	Note     Note
	Versions []Note // la más antigua primero; la última es la que Note corrige

	// Truncated: algún amendsRef apunta a una nota inexistente.
	Truncated bool
	// CycleDetected: la cadena volvía a un id ya visitado.
	CycleDetected bool
}

// ResolveHistory recorre amendsRef hacia atrás y devuelve las versiones previas,
// la más antigua primero. Links faltantes y ciclos cortan el recorrido sin error;
// solo se propagan errores del store que no sean not found.
func (s *Service) ResolveHistory(ctx context.Context, n Note) ([]Note, error) {
	h, err := s.resolve(ctx, n)
	if err != nil {
		return nil, err
	}
	return h.Versions, nil
}

// HistoryByID busca la nota y resuelve su cadena. La nota de entrada sí tiene
// que existir.
func (s *Service) HistoryByID(ctx context.Context, id string) (History, error) {
	n, err := s.GetByID(ctx, id)
	if err != nil {
		return History{}, err
	}
	return s.resolve(ctx, n)
}

func (s *Service) resolve(ctx context.Context, n Note) (History, error) {
	h := History{Note: n}

	// visited arranca con la propia nota: nunca aparece en su historial.
	visited := map[string]struct{}{}
	if n.ID != "" {
		visited[n.ID] = struct{}{}
	}

	collected := make([]Note, 0)
	next := strings.TrimSpace(derefStr(n.AmendsRef))

	for next != "" {
		if _, seen := visited[next]; seen {
			h.CycleDetected = true
			break
		}
		visited[next] = struct{}{}

		prev, err := s.get(ctx, next)
		if err != nil {
			if isNotFound(err) {
				h.Truncated = true
				break
			}
			return History{}, err
		}

		collected = append(collected, prev)
		next = strings.TrimSpace(derefStr(prev.AmendsRef))
	}

	if h.Truncated || h.CycleDetected {
		s.log.Warn("history chain cut short", map[string]any{
			"note_id":   n.ID,
			"collected": len(collected),
			"truncated": h.Truncated,
			"cycle":     h.CycleDetected,
		})
		s.incr(ctx, metrics.HistoryTruncated, nil)
	}

	// Se recolectó de la más nueva a la más antigua.
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	h.Versions = collected
	return h, nil
}
