package notes

import (
	"context"
	"strings"
	"time"
)

// TimelineFilter son los filtros opcionales del timeline de un owner.
type TimelineFilter struct {
	Category    Category
	Account     RefFilter
	Application RefFilter
	From        *time.Time
	To          *time.Time
	Query       string
}

type Timeline struct {
	Records    []Note
	TotalCount int
	HasMore    bool
	Page       int
	PageSize   int
}

// Timeline lista las cabezas activas de un owner, más nuevas primero.
// El historial de cada una se pide aparte (ResolveHistory) para que esta
// consulta siga siendo barata.
func (s *Service) Timeline(ctx context.Context, ownerRef string, f TimelineFilter, page Page) (Timeline, error) {
	ownerRef = strings.TrimSpace(ownerRef)
	if ownerRef == "" {
		return Timeline{}, ErrInvalidInput
	}
	page = page.Normalize()

	res, err := s.list(ctx, ListFilter{
		OwnerRef:    ownerRef,
		Category:    f.Category,
		Account:     f.Account,
		Application: f.Application,
		Status:      StatusActive,
		From:        f.From,
		To:          f.To,
		Query:       f.Query,
	}, page)
	if err != nil {
		return Timeline{}, err
	}

	// Nunca amended en el feed, aunque el store lo devuelva.
	records := make([]Note, 0, len(res.Items))
	for _, n := range res.Items {
		if n.Status != StatusActive {
			continue
		}
		records = append(records, n)
	}

	return Timeline{
		Records:    records,
		TotalCount: res.TotalCount,
		HasMore:    page.Number*page.Size < res.TotalCount,
		Page:       page.Number,
		PageSize:   page.Size,
	}, nil
}
