package metrics

import "context"

const (
	NotesCreated      = "NotesCreated"
	NotesAmended      = "NotesAmended"
	PartialAmendments = "PartialAmendments"
	RetireRetries     = "RetireRetries"
	HistoryTruncated  = "HistoryTruncated"
)

// Recorder cuenta eventos operativos.
type Recorder interface {
	Incr(ctx context.Context, name string, dims map[string]string) error
}

type Nop struct{}

func (Nop) Incr(context.Context, string, map[string]string) error { return nil }
