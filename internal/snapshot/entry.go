package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/cohortcal/internal/event"
)

// Entry is one event as delivered by a feed. Start and End hold whatever the
// feed supplied (json.Number, string, time.Time, ...).
type Entry struct {
	Title       string `json:"title"`
	Type        string `json:"type,omitempty"`
	Start       any    `json:"start"`
	End         any    `json:"end"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// Parsed is the result of classifying an Entry: either ValidParsedEvent or
// RejectedParsedEvent.
type Parsed interface {
	// Position returns the entry's index in its snapshot.
	Position() int
	isParsed()
}

// ValidParsedEvent is an entry that satisfies every event invariant.
type ValidParsedEvent struct {
	Index       int
	Title       string
	Type        event.Type
	Start       time.Time
	End         time.Time
	Location    string
	Description string
}

func (v ValidParsedEvent) Position() int { return v.Index }
func (ValidParsedEvent) isParsed()       {}

// Event materializes v as an imported event of scope.
func (v ValidParsedEvent) Event(id string, scope event.Scope) event.Event {
	return event.Event{
		ID:          id,
		Scope:       scope,
		Title:       v.Title,
		Type:        v.Type,
		Start:       v.Start,
		End:         v.End,
		Location:    v.Location,
		Description: v.Description,
		Source:      event.SourceImported,
	}
}

// RejectedParsedEvent is an entry dropped at the parse boundary.
type RejectedParsedEvent struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Entry  Entry  `json:"entry"`
}

func (r RejectedParsedEvent) Position() int { return r.Index }
func (RejectedParsedEvent) isParsed()       {}

// Error implements the error interface so rejections can be logged as errors.
func (r RejectedParsedEvent) Error() string {
	return fmt.Sprintf("entry %d rejected: %s", r.Index, r.Reason)
}

// Classify validates a single entry. Title, start and end are required and
// end must be after start; an empty type defaults to study.
func Classify(index int, e Entry) Parsed {
	reject := func(format string, args ...any) Parsed {
		return RejectedParsedEvent{Index: index, Reason: fmt.Sprintf(format, args...), Entry: e}
	}

	title := strings.TrimSpace(e.Title)
	if title == "" {
		return reject("missing title")
	}
	typ, err := event.ParseType(e.Type)
	if err != nil {
		return reject("%v", err)
	}
	start, err := event.ParseInstant(e.Start)
	if err != nil {
		return reject("start: %v", err)
	}
	end, err := event.ParseInstant(e.End)
	if err != nil {
		return reject("end: %v", err)
	}
	if !end.After(start) {
		return reject("end %s is not after start %s", event.FormatInstant(end), event.FormatInstant(start))
	}

	return ValidParsedEvent{
		Index:       index,
		Title:       title,
		Type:        typ,
		Start:       start,
		End:         end,
		Location:    strings.TrimSpace(e.Location),
		Description: strings.TrimSpace(e.Description),
	}
}

// Partition classifies every entry, preserving snapshot order within each
// result slice.
func Partition(entries []Entry) ([]ValidParsedEvent, []RejectedParsedEvent) {
	valid := make([]ValidParsedEvent, 0, len(entries))
	var rejected []RejectedParsedEvent
	for i, e := range entries {
		switch p := Classify(i, e).(type) {
		case ValidParsedEvent:
			valid = append(valid, p)
		case RejectedParsedEvent:
			rejected = append(rejected, p)
		}
	}
	return valid, rejected
}

// entryFromMap reads the recognized keys of a decoded JSON object. Values of
// the wrong JSON type are treated as absent and left for Classify to reject.
func entryFromMap(m map[string]any) Entry {
	str := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := m[k].(string); ok {
				return s
			}
		}
		return ""
	}
	val := func(keys ...string) any {
		for _, k := range keys {
			if v, ok := m[k]; ok && v != nil {
				return v
			}
		}
		return nil
	}

	return Entry{
		Title:       str("title", "summary"),
		Type:        str("type"),
		Start:       val("start", "startTime", "start_time"),
		End:         val("end", "endTime", "end_time"),
		Location:    str("location"),
		Description: str("description"),
	}
}

// UnmarshalJSON accepts the key aliases feeds commonly use
// (startTime/start_time, endTime/end_time, summary).
func (e *Entry) UnmarshalJSON(data []byte) error {
	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*e = entryFromMap(m)
	return nil
}
