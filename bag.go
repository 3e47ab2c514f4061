package reqheaders

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// HeaderBag is the immutable per-request mapping of lower-cased header names
// to raw header values.
//
// A bag is constructed once per request, from the gateway payload or from an
// inbound request, and is read-only afterwards. Values are raw strings and
// are never parsed further by the bag itself. Bags must not be cached across
// requests: a stale bag would leak one request's headers into another's
// policy evaluation.
type HeaderBag struct {
	values map[string]string
}

// NewHeaderBag builds a bag from a header name/value mapping.
//
// Keys are lower-cased; when two keys differ only in case, one of the values
// wins and the choice is unspecified. The input map is copied.
func NewHeaderBag(headers map[string]string) HeaderBag {
	values := make(map[string]string, len(headers))
	for name, value := range headers {
		values[strings.ToLower(name)] = value
	}
	return HeaderBag{values: values}
}

// ParseHeaderBag decodes the payload published by the gateway.
//
// The payload must be a flat JSON object of string values. Anything else
// (invalid JSON, a non-object root, a non-string member value including
// null) fails with an error wrapping ErrMalformedPayload. Values come back
// as plain text scalars, never JSON-quoted strings, so they compare directly
// against expected values in policy code.
func ParseHeaderBag(payload []byte) (HeaderBag, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return HeaderBag{}, &PayloadError{Err: ErrMalformedPayload, Detail: "empty payload"}
	}
	if trimmed[0] != '{' {
		return HeaderBag{}, &PayloadError{Err: ErrMalformedPayload, Detail: "payload root is not a JSON object"}
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return HeaderBag{}, &PayloadError{Err: ErrMalformedPayload, Detail: err.Error()}
	}

	// Decoding member values individually keeps null out: unmarshaling null
	// into a string is a silent no-op that would materialize the header as
	// present-but-empty, turning an upstream fault into a passing absence
	// check.
	values := make(map[string]string, len(decoded))
	for name, raw := range decoded {
		if len(raw) == 0 || raw[0] != '"' {
			return HeaderBag{}, &PayloadError{
				Err:    ErrMalformedPayload,
				Detail: fmt.Sprintf("member %q is not a JSON string", name),
			}
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return HeaderBag{}, &PayloadError{Err: ErrMalformedPayload, Detail: err.Error()}
		}
		values[strings.ToLower(name)] = value
	}

	return HeaderBag{values: values}, nil
}

// BagFromRequest builds a bag from an inbound HTTP request, mirroring the
// gateway's publish contract for in-process services.
//
// Multi-valued headers are joined with ", " in wire order. The Host header,
// which net/http promotes to Request.Host, is restored under "host".
func BagFromRequest(r *http.Request) HeaderBag {
	if r == nil {
		return HeaderBag{values: map[string]string{}}
	}

	values := make(map[string]string, len(r.Header)+1)
	for name, headerValues := range r.Header {
		values[strings.ToLower(name)] = strings.Join(headerValues, ", ")
	}
	if r.Host != "" {
		values["host"] = r.Host
	}

	return HeaderBag{values: values}
}

// Get returns the value for name, matched case-insensitively.
//
// The second return value reports presence: an absent header yields
// ("", false) while an explicitly empty header yields ("", true). Security
// checks must not collapse the two; comparing an absent value as if it were
// the empty string is a classic fail-open policy bug.
func (b HeaderBag) Get(name string) (string, bool) {
	value, ok := b.values[strings.ToLower(name)]
	return value, ok
}

// Has reports whether name is present in the bag, matched case-insensitively.
func (b HeaderBag) Has(name string) bool {
	_, ok := b.values[strings.ToLower(name)]
	return ok
}

// Len returns the number of headers in the bag.
func (b HeaderBag) Len() int {
	return len(b.values)
}

// Names returns the sorted lower-cased header names present in the bag.
func (b HeaderBag) Names() []string {
	names := make([]string, 0, len(b.values))
	for name := range b.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
