package conflict

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/cohortcal/internal/event"
)

const renderTimeLayout = "2006-01-02 15:04"

// Render writes a stable, human-readable listing of pairs to w.
//
// Format:
//
//	2 conflict(s)
//
//	[1] study-personal
//	    A  2025-03-10 09:00-11:00  Algebra (study, id=a)
//	    B  2025-03-10 10:00-10:30  Gym (personal, id=b)
//	    priority: Algebra
//	    resolution: personal event should yield to the study event
func Render(w io.Writer, pairs []Pair) error {
	var b strings.Builder
	if len(pairs) == 0 {
		b.WriteString("no conflicts\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "%d conflict(s)\n", len(pairs))
	for i, p := range pairs {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, p.Type)
		writeSide(&b, "A", p.A)
		writeSide(&b, "B", p.B)
		if p.Priority != nil {
			fmt.Fprintf(&b, "    priority: %s\n", p.Priority.Title)
		} else {
			b.WriteString("    priority: none\n")
		}
		fmt.Fprintf(&b, "    resolution: %s\n", p.Resolution)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSide(b *strings.Builder, label string, e event.Event) {
	start := e.Start.UTC()
	end := e.End.UTC()
	endLayout := "15:04"
	if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
		endLayout = renderTimeLayout
	}
	typ := event.TypePersonal
	if isStudy(e) {
		typ = event.TypeStudy
	}
	fmt.Fprintf(b, "    %s  %s-%s  %s (%s, id=%s)\n",
		label, start.Format(renderTimeLayout), end.Format(endLayout), e.Title, typ, e.ID)
}
