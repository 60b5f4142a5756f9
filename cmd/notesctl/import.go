package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"contact-notes/internal/app"
	"contact-notes/internal/domain/notes"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// importFile es el formato de `notesctl import`:
//
//	notes:
//	  - owner_ref: cust-1
//	    category: call
//	    subject: Promesa de pago
//	    body: {format: text, text: "Paga el viernes"}
type importFile struct {
	Notes []importNote `yaml:"notes"`
}

type importNote struct {
	OwnerRef       string     `yaml:"owner_ref"`
	AccountRef     *string    `yaml:"account_ref"`
	ApplicationRef *string    `yaml:"application_ref"`
	Category       string     `yaml:"category"`
	Direction      string     `yaml:"direction"`
	Priority       string     `yaml:"priority"`
	Sentiment      string     `yaml:"sentiment"`
	Subject        string     `yaml:"subject"`
	Body           importBody `yaml:"body"`
}

type importBody struct {
	Format string         `yaml:"format"`
	Text   string         `yaml:"text"`
	Doc    map[string]any `yaml:"doc"`
}

func parseImport(r io.Reader) ([]notes.CreateInput, error) {
	var f importFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	out := make([]notes.CreateInput, 0, len(f.Notes))
	for i, n := range f.Notes {
		body := notes.Body{Format: notes.BodyFormat(n.Body.Format), Text: n.Body.Text}
		if n.Body.Doc != nil {
			raw, err := json.Marshal(n.Body.Doc)
			if err != nil {
				return nil, fmt.Errorf("note %d: body.doc: %w", i, err)
			}
			body.Doc = raw
		}
		out = append(out, notes.CreateInput{
			OwnerRef:       n.OwnerRef,
			AccountRef:     n.AccountRef,
			ApplicationRef: n.ApplicationRef,
			Category:       notes.Category(n.Category),
			Direction:      notes.Direction(n.Direction),
			Priority:       notes.Priority(n.Priority),
			Sentiment:      notes.Sentiment(n.Sentiment),
			Subject:        n.Subject,
			Body:           body,
		})
	}
	return out, nil
}

func importCmd(opts *rootOptions) *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "import [file.yaml]",
		Short: "Crea notas a partir de un archivo YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			inputs, err := parseImport(f)
			if err != nil {
				return err
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				for i, in := range inputs {
					n, err := a.Service.Create(ctx, notes.Actor{ID: actor}, in)
					if err != nil {
						return fmt.Errorf("note %d (%s): %w", i, in.Subject, err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), n.ID)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&actor, "actor", "", "author_ref de las notas importadas")
	_ = cmd.MarkFlagRequired("actor")

	return cmd
}
