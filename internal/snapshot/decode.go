package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
)

// ErrNoEvents is returned by Decode for an object payload with no "events"
// array, such as an error document from the feed.
var ErrNoEvents = errors.New("decode snapshot: object has no \"events\" array")

// Decode reads a JSON snapshot. Both a bare array of entries and an object
// wrapping the array under "events" are accepted; an object without an
// "events" array is an error, not an empty snapshot. Elements that are not JSON
// objects decode to an empty Entry, which Classify rejects.
func Decode(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decode snapshot: empty payload")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if data[0] == '{' {
		var wrapped struct {
			Events *[]any `json:"events"`
		}
		if err := dec.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		if wrapped.Events == nil {
			return nil, ErrNoEvents
		}
		raw = *wrapped.Events
	} else if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			entries = append(entries, Entry{})
			continue
		}
		entries = append(entries, entryFromMap(m))
	}
	return entries, nil
}

// DecodeICS reads the VEVENTs of an iCalendar file as entries of the given
// type label. Recurrence rules are not expanded; each VEVENT is one entry.
// An unparsable DTSTART/DTEND is passed through as its raw value so that
// Classify reports it.
func DecodeICS(r io.Reader, typ string) ([]Entry, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("decode ics: %w", err)
	}

	events := cal.Events()
	entries := make([]Entry, 0, len(events))
	for _, ve := range events {
		e := Entry{
			Title:       propValue(ve, ical.ComponentPropertySummary),
			Type:        typ,
			Location:    propValue(ve, ical.ComponentPropertyLocation),
			Description: propValue(ve, ical.ComponentPropertyDescription),
		}
		e.Start = icsTime(ve.GetStartAt, ve, ical.ComponentPropertyDtStart)
		e.End = icsTime(ve.GetEndAt, ve, ical.ComponentPropertyDtEnd)
		entries = append(entries, e)
	}
	return entries, nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return ""
}

func icsTime(get func() (time.Time, error), ve *ical.VEvent, prop ical.ComponentProperty) any {
	if t, err := get(); err == nil && !t.IsZero() {
		return t
	}
	if p := ve.GetProperty(prop); p != nil {
		return p.Value
	}
	return nil
}
