package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cohortcal/internal/event"
)

func TestClassify_Valid(t *testing.T) {
	p := Classify(3, Entry{
		Title:    "  Algebra ",
		Start:    "2025-03-10T09:00:00Z",
		End:      int64(1741604400000),
		Location: " Room 101 ",
	})

	v, ok := p.(ValidParsedEvent)
	require.True(t, ok, "expected ValidParsedEvent, got %T", p)
	assert.Equal(t, 3, v.Position())
	assert.Equal(t, "Algebra", v.Title)
	assert.Equal(t, event.TypeStudy, v.Type, "missing type defaults to study")
	assert.Equal(t, "Room 101", v.Location)
	assert.Equal(t, 2*time.Hour, v.End.Sub(v.Start))
}

func TestClassify_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		entry  Entry
		reason string
	}{
		{"missing title", Entry{Start: "2025-03-10T09:00:00Z", End: "2025-03-10T10:00:00Z"}, "missing title"},
		{"blank title", Entry{Title: "  ", Start: "2025-03-10T09:00:00Z", End: "2025-03-10T10:00:00Z"}, "missing title"},
		{"missing start", Entry{Title: "A", End: "2025-03-10T10:00:00Z"}, "start"},
		{"missing end", Entry{Title: "A", Start: "2025-03-10T09:00:00Z"}, "end"},
		{"malformed start", Entry{Title: "A", Start: "soon", End: "2025-03-10T10:00:00Z"}, "start"},
		{"end equals start", Entry{Title: "A", Start: "2025-03-10T09:00:00Z", End: "2025-03-10T09:00:00Z"}, "not after start"},
		{"end before start", Entry{Title: "A", Start: "2025-03-10T10:00:00Z", End: "2025-03-10T09:00:00Z"}, "not after start"},
		{"unknown type", Entry{Title: "A", Type: "holiday", Start: "2025-03-10T09:00:00Z", End: "2025-03-10T10:00:00Z"}, "invalid event type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(0, tt.entry)
			r, ok := p.(RejectedParsedEvent)
			require.True(t, ok, "expected RejectedParsedEvent, got %T", p)
			assert.Contains(t, r.Reason, tt.reason)
			assert.Contains(t, r.Error(), "entry 0 rejected")
		})
	}
}

func TestPartition(t *testing.T) {
	entries := []Entry{
		{Title: "A", Start: "2025-03-10T09:00:00Z", End: "2025-03-10T10:00:00Z"},
		{Title: "", Start: "2025-03-10T09:00:00Z", End: "2025-03-10T10:00:00Z"},
		{Title: "B", Start: "2025-03-10T11:00:00Z", End: "2025-03-10T12:00:00Z"},
		{},
	}

	valid, rejected := Partition(entries)
	require.Len(t, valid, 2)
	require.Len(t, rejected, 2)
	assert.Equal(t, "A", valid[0].Title)
	assert.Equal(t, "B", valid[1].Title)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, 3, rejected[1].Index)
}

func TestPartition_Empty(t *testing.T) {
	valid, rejected := Partition(nil)
	assert.NotNil(t, valid)
	assert.Empty(t, valid)
	assert.Empty(t, rejected)
}

func TestValidParsedEvent_Event(t *testing.T) {
	p := Classify(0, Entry{Title: "A", Type: "personal", Start: "2025-03-10T09:00:00Z", End: "2025-03-10T10:00:00Z"})
	v := p.(ValidParsedEvent)

	ev := v.Event("ev-1", event.PersonalScope("alice"))
	assert.Equal(t, "ev-1", ev.ID)
	assert.Equal(t, event.SourceImported, ev.Source)
	assert.Equal(t, event.TypePersonal, ev.Type)
	assert.NoError(t, ev.Validate())
}

func TestEntry_UnmarshalJSONAliases(t *testing.T) {
	var entries []Entry
	err := json.Unmarshal([]byte(`[
		{"summary": "A", "startTime": 1741597200000, "end_time": "2025-03-10T10:00:00Z"},
		{"title": 42, "start": null, "end": "x"}
	]`), &entries)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "A", entries[0].Title)
	assert.Equal(t, json.Number("1741597200000"), entries[0].Start)
	assert.Equal(t, "2025-03-10T10:00:00Z", entries[0].End)

	assert.Empty(t, entries[1].Title, "non-string title is treated as absent")
	assert.Nil(t, entries[1].Start)
}
