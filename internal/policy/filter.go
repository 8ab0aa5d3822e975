package policy

import "context"

// Viewable is anything that can describe itself as event facts.
type Viewable interface {
	Facts() EventFacts
}

// VisibleEvents keeps the events id can view, in input order, with each event
// id at most once.
func VisibleEvents[E Viewable](ctx context.Context, v *Visibility, id Identity, events []E) ([]E, error) {
	out := make([]E, 0, len(events))
	seen := make(map[uint]struct{}, len(events))
	for _, e := range events {
		facts := e.Facts()
		if _, dup := seen[facts.ID]; dup {
			continue
		}
		ok, err := v.CanView(ctx, id, facts)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		seen[facts.ID] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}
