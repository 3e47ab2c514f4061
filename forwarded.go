package reqheaders

import (
	"fmt"
	"strings"
)

// parseForwardedValue extracts the for= chain from an RFC 7239 Forwarded
// header value, in wire order. Elements without a for parameter are skipped.
//
// Parse failures are tagged ErrInvalidForwardedHeader rather than treated as
// absence, so a mangled header is distinguishable from a missing one.
func (in *Introspector) parseForwardedValue(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}

	sourceName := NormalizeSourceName(HeaderForwarded)

	elements, err := splitQuoted(value, ',')
	if err != nil {
		return nil, in.invalidForwarded(sourceName, err)
	}

	parts := make([]string, 0, typicalChainCapacity)
	for _, element := range elements {
		forValue, hasFor, err := forwardedForParam(element)
		if err != nil {
			return nil, in.invalidForwarded(sourceName, err)
		}
		if !hasFor {
			continue
		}

		parts, err = in.appendChainPart(parts, forValue, sourceName)
		if err != nil {
			return nil, err
		}
	}

	return parts, nil
}

func (in *Introspector) invalidForwarded(sourceName string, err error) error {
	in.config.metrics.RecordSecurityEvent(securityEventMalformedForwarded)
	return &DerivationError{
		Err:    fmt.Errorf("%w: %w", ErrInvalidForwardedHeader, err),
		Source: sourceName,
	}
}

// forwardedForParam scans one Forwarded element for its for parameter. The
// parameter name is case-insensitive; duplicate for parameters in one
// element are rejected.
func forwardedForParam(element string) (string, bool, error) {
	params, err := splitQuoted(element, ';')
	if err != nil {
		return "", false, err
	}

	forValue := ""
	hasFor := false
	for _, param := range params {
		eq := strings.IndexByte(param, '=')
		if eq <= 0 {
			return "", false, fmt.Errorf("invalid forwarded parameter %q", param)
		}

		key := strings.TrimSpace(param[:eq])
		if !strings.EqualFold(key, "for") {
			continue
		}
		if hasFor {
			return "", false, fmt.Errorf("duplicate for parameter in element %q", element)
		}

		value, err := unquoteForwarded(strings.TrimSpace(param[eq+1:]))
		if err != nil {
			return "", false, err
		}
		if value == "" {
			return "", false, fmt.Errorf("empty for value in element %q", element)
		}

		forValue = value
		hasFor = true
	}

	return forValue, hasFor, nil
}

// splitQuoted splits value by delimiter while respecting double-quoted
// segments and backslash escapes inside them. Empty segments are dropped.
func splitQuoted(value string, delimiter byte) ([]string, error) {
	var segments []string
	start := 0
	inQuotes := false
	escaped := false

	for i := 0; i <= len(value); i++ {
		if i < len(value) {
			ch := value[i]
			switch {
			case escaped:
				escaped = false
				continue
			case ch == '\\' && inQuotes:
				escaped = true
				continue
			case ch == '"':
				inQuotes = !inQuotes
				continue
			case ch != delimiter || inQuotes:
				continue
			}
		} else if inQuotes || escaped {
			return nil, fmt.Errorf("unterminated quoted string in %q", value)
		}

		if segment := strings.TrimSpace(value[start:i]); segment != "" {
			segments = append(segments, segment)
		}
		start = i + 1
	}

	return segments, nil
}

// unquoteForwarded strips surrounding quotes from a Forwarded parameter
// value and resolves backslash escapes. Unquoted tokens pass through.
func unquoteForwarded(value string) (string, error) {
	if value == "" || value[0] != '"' {
		return value, nil
	}
	if len(value) < 2 || value[len(value)-1] != '"' {
		return "", fmt.Errorf("invalid quoted string %q", value)
	}

	var b strings.Builder
	b.Grow(len(value) - 2)
	escaped := false
	for i := 1; i < len(value)-1; i++ {
		ch := value[i]
		switch {
		case escaped:
			b.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			return "", fmt.Errorf("unexpected quote in %q", value)
		default:
			b.WriteByte(ch)
		}
	}
	if escaped {
		return "", fmt.Errorf("unterminated escape in %q", value)
	}

	return strings.TrimSpace(b.String()), nil
}
