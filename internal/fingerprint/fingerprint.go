package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/roach88/cohortcal/internal/event"
)

// Domain prefixes the hashed payload. The version suffix allows the
// normalization rules to change without colliding with stored keys.
const Domain = "cohortcal/fingerprint/v1"

// Input is an event-like description. Start and End accept anything
// event.ParseInstant understands; Location and Description default to "".
type Input struct {
	Title       string
	Type        string
	Start       any
	End         any
	Location    string
	Description string
}

// Build returns the identity key of in within scope.
func Build(scope event.Scope, in Input) string {
	start, _ := Instant(in.Start)
	end, _ := Instant(in.End)

	fields := map[string]string{
		"scope":       normalizeText(scope.Key()),
		"title":       normalizeText(in.Title),
		"type":        normalizeType(in.Type),
		"start":       start,
		"end":         end,
		"location":    normalizeText(in.Location),
		"description": normalizeText(in.Description),
	}
	return hashWithDomain(Domain, marshalCanonical(fields))
}

// FromEvent returns the identity key of a stored event.
func FromEvent(e event.Event) string {
	return Build(e.Scope, Input{
		Title:       e.Title,
		Type:        string(e.Type),
		Start:       e.Start,
		End:         e.End,
		Location:    e.Location,
		Description: e.Description,
	})
}

// Instant renders v in event.InstantLayout. When v cannot be parsed it
// returns the whitespace-normalized raw form and ok=false.
func Instant(v any) (s string, ok bool) {
	t, err := event.ParseInstant(v)
	if err != nil {
		if v == nil {
			return "", false
		}
		return normalizeText(fmt.Sprint(v)), false
	}
	return event.FormatInstant(t), true
}

func normalizeType(s string) string {
	s = strings.ToLower(normalizeText(s))
	if s == "" {
		return string(event.TypeStudy)
	}
	return s
}

// hashWithDomain computes SHA256(domain + 0x00 + data) as lowercase hex.
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
