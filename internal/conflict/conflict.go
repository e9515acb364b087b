package conflict

import (
	"fmt"
	"sort"

	"github.com/roach88/cohortcal/internal/event"
)

// PairType classifies a conflict by the types of its two events.
type PairType string

const (
	PairStudyStudy       PairType = "study-study"
	PairStudyPersonal    PairType = "study-personal"
	PairPersonalPersonal PairType = "personal-personal"
)

// Resolution hints attached to reported pairs.
const (
	ResolutionPersonalYields = "personal event should yield to the study event"
	ResolutionManual         = "manual resolution required"
)

// Pair is an unordered pair of overlapping events.
//
// A started no later than B. Priority points at the event that wins the
// conflict, or is nil when neither does.
type Pair struct {
	A          event.Event  `json:"a"`
	B          event.Event  `json:"b"`
	Type       PairType     `json:"type"`
	Priority   *event.Event `json:"priority,omitempty"`
	Resolution string       `json:"resolution"`
}

// Involves reports whether the event with the given id is part of the pair.
func (p Pair) Involves(id string) bool {
	return p.A.ID == id || p.B.ID == id
}

// Yielding returns the event expected to move, if any.
func (p Pair) Yielding() *event.Event {
	if p.Priority == nil {
		return nil
	}
	if p.Priority.ID == p.A.ID {
		return &p.B
	}
	return &p.A
}

// String implements fmt.Stringer.
func (p Pair) String() string {
	return fmt.Sprintf("%s: %s <-> %s", p.Type, p.A.ID, p.B.ID)
}

// Detect returns every reported conflict among events in sweep discovery
// order. The input slice is not modified.
func Detect(events []event.Event) []Pair {
	sorted := make([]event.Event, 0, len(events))
	for _, e := range events {
		if !e.End.After(e.Start) {
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].Start.Before(sorted[j].Start)
		}
		return sorted[i].ID < sorted[j].ID
	})

	pairs := []Pair{}
	active := make([]event.Event, 0, 8)
	for _, cur := range sorted {
		// Evict everything that ended at or before cur starts. The remaining
		// events satisfy prev.Start <= cur.Start < prev.End.
		kept := active[:0]
		for _, prev := range active {
			if prev.End.After(cur.Start) {
				kept = append(kept, prev)
			}
		}
		active = kept

		for _, prev := range active {
			if p, ok := classify(prev, cur); ok {
				pairs = append(pairs, p)
			}
		}
		active = append(active, cur)
	}
	return pairs
}

func classify(a, b event.Event) (Pair, bool) {
	aStudy, bStudy := isStudy(a), isStudy(b)
	switch {
	case aStudy && bStudy:
		return Pair{}, false
	case aStudy || bStudy:
		priority := b
		if aStudy {
			priority = a
		}
		return Pair{A: a, B: b, Type: PairStudyPersonal, Priority: &priority, Resolution: ResolutionPersonalYields}, true
	default:
		return Pair{A: a, B: b, Type: PairPersonalPersonal, Resolution: ResolutionManual}, true
	}
}

// isStudy treats an unset type as study, matching event.ParseType. A type
// ParseType rejects is never study: such an event is classified as personal,
// so it cannot outrank a study event and its pairs with other personal events
// need manual resolution. Stored and parsed events cannot carry one, since
// Event.Validate and the parse boundary reject unknown types.
func isStudy(e event.Event) bool {
	t, err := event.ParseType(string(e.Type))
	return err == nil && t == event.TypeStudy
}
