package connectivity

import (
	"context"
	"sync"
)

type selectionKey struct{}

// Selection records which store Manager.Store handed out for a request.
type Selection struct {
	mu      sync.Mutex
	source  string
	primary bool
	set     bool
}

// WithSelection returns a context carrying an empty Selection.
func WithSelection(ctx context.Context) (context.Context, *Selection) {
	sel := &Selection{}
	return context.WithValue(ctx, selectionKey{}, sel), sel
}

// Get returns the last recorded source and whether it was the primary.
// ok is false if no store was selected with this context.
func (s *Selection) Get() (source string, primary bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source, s.primary, s.set
}

func (s *Selection) record(source string, primary bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source, s.primary, s.set = source, primary, true
}

func recordSelection(ctx context.Context, source string, primary bool) {
	if sel, ok := ctx.Value(selectionKey{}).(*Selection); ok {
		sel.record(source, primary)
	}
}
