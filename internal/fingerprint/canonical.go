package fingerprint

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// normalizeText NFC-normalizes s, trims it and collapses internal whitespace
// runs to a single space.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// marshalCanonical renders a flat string object as canonical JSON: keys in
// ascending order, no insignificant whitespace, no HTML escaping.
//
// Field names are fixed ASCII identifiers, so byte order equals the UTF-16
// code unit order canonical JSON requires. Values are expected to be
// normalized already; normalizeText strips U+2028/U+2029 as whitespace so
// the encoder's JavaScript escapes never appear.
func marshalCanonical(fields map[string]string) []byte {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, k)
		buf.WriteByte(':')
		writeString(&buf, fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
}
