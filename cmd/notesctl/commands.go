package main

import (
	"context"
	"fmt"
	"time"

	"contact-notes/internal/app"
	"contact-notes/internal/domain/notes"
	"contact-notes/internal/platform/config"

	"github.com/spf13/cobra"
)

func migrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el schema de contact_notes (postgres, sqlite)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				switch a.Config.StoreDriver {
				case config.DriverPostgres, config.DriverSQLite:
					// app.New ya aplicó el schema al abrir el store
					fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", a.Config.StoreDriver)
					return nil
				default:
					return fmt.Errorf("driver %q has no schema to migrate", a.Config.StoreDriver)
				}
			})
		},
	}
}

func historyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history [note-id]",
		Short: "Muestra una nota y sus versiones previas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				h, err := a.Service.HistoryByID(ctx, args[0])
				if err != nil {
					return err
				}

				out := struct {
					Note          noteView   `json:"note"`
					Versions      []noteView `json:"versions"`
					Truncated     bool       `json:"truncated"`
					CycleDetected bool       `json:"cycle_detected"`
				}{
					Note:          toView(h.Note),
					Versions:      make([]noteView, 0, len(h.Versions)),
					Truncated:     h.Truncated,
					CycleDetected: h.CycleDetected,
				}
				for _, v := range h.Versions {
					out.Versions = append(out.Versions, toView(v))
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}

func timelineCmd(opts *rootOptions) *cobra.Command {
	var (
		category, account, application, query string
		page, pageSize                        int
	)

	cmd := &cobra.Command{
		Use:   "timeline [owner-ref]",
		Short: "Lista las notas activas de un owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				f := notes.TimelineFilter{
					Category:    notes.Category(category),
					Account:     refFilter(account),
					Application: refFilter(application),
					Query:       query,
				}
				tl, err := a.Service.Timeline(ctx, args[0], f, notes.Page{Number: page, Size: pageSize})
				if err != nil {
					return err
				}

				records := make([]noteView, 0, len(tl.Records))
				for _, n := range tl.Records {
					records = append(records, toView(n))
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"records":     records,
					"total_count": tl.TotalCount,
					"has_more":    tl.HasMore,
					"page":        tl.Page,
					"page_size":   tl.PageSize,
				})
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filtrar por categoría")
	cmd.Flags().StringVar(&account, "account", "", "cuenta vinculada, o none")
	cmd.Flags().StringVar(&application, "application", "", "solicitud vinculada, o none")
	cmd.Flags().StringVarP(&query, "query", "q", "", "texto libre en subject/body")
	cmd.Flags().IntVar(&page, "page", 1, "página (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", notes.DefaultPageSize, "tamaño de página")

	return cmd
}

func retryRetireCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "retry-retire [original-id]",
		Short: "Marca como amended una nota que quedó activa tras una corrección parcial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				n, err := a.Service.RetryRetire(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), toView(n))
			})
		},
	}
}

func refFilter(v string) notes.RefFilter {
	switch v {
	case "":
		return notes.RefFilter{Match: notes.RefAny}
	case "none":
		return notes.RefFilter{Match: notes.RefAbsent}
	default:
		return notes.RefFilter{Match: notes.RefEquals, Value: v}
	}
}

// noteView es la salida JSON de notesctl.
type noteView struct {
	ID        string    `json:"id"`
	OwnerRef  string    `json:"owner_ref"`
	Category  string    `json:"category"`
	Subject   string    `json:"subject"`
	AuthorRef string    `json:"author_ref"`
	AmendsRef string    `json:"amends_ref,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toView(n notes.Note) noteView {
	v := noteView{
		ID:        n.ID,
		OwnerRef:  n.OwnerRef,
		Category:  string(n.Classification.Category),
		Subject:   n.Subject,
		AuthorRef: n.AuthorRef,
		Status:    string(n.Status),
		CreatedAt: n.CreatedAt,
	}
	if n.AmendsRef != nil {
		v.AmendsRef = *n.AmendsRef
	}
	return v
}
