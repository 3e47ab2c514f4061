package reqheaders

import (
	"strings"
)

// typicalChainCapacity is the initial capacity used when parsing forwarded
// chains.
//
// Most deployments have short chains (around 1-5 hops). Preallocating 8
// avoids reallocations in common cases without meaningful memory overhead.
const typicalChainCapacity = 8

// parseChainValue parses one comma-separated chain header value into its
// ordered non-empty entries.
//
// Splitting an empty or comma/whitespace-only value yields no entries, never
// [""]: an empty string must not survive as a valid-looking address.
func (in *Introspector) parseChainValue(value, sourceName string) ([]string, error) {
	if value == "" {
		return nil, nil
	}

	parts := make([]string, 0, typicalChainCapacity)
	for part := range strings.SplitSeq(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			var err error
			parts, err = in.appendChainPart(parts, trimmed, sourceName)
			if err != nil {
				return nil, err
			}
		}
	}
	return parts, nil
}

// appendChainPart appends one parsed chain entry while enforcing
// maxChainLength.
func (in *Introspector) appendChainPart(parts []string, part, sourceName string) ([]string, error) {
	if len(parts) >= in.config.maxChainLength {
		in.config.metrics.RecordSecurityEvent(securityEventChainTooLong)
		return nil, &ChainTooLongError{
			DerivationError: DerivationError{
				Err:    ErrChainTooLong,
				Source: sourceName,
			},
			ChainLength: len(parts) + 1,
			MaxLength:   in.config.maxChainLength,
		}
	}

	return append(parts, part), nil
}

// Chain returns the full forwarded-for chain from the bag, in wire order.
//
// An absent or empty x-forwarded-for header yields an empty chain and no
// error. The chain is bounded by the configured maximum length.
func (in *Introspector) Chain(bag HeaderBag) ([]string, error) {
	value, ok := bag.Get(HeaderXForwardedFor)
	if !ok {
		return nil, nil
	}

	return in.parseChainValue(value, NormalizeSourceName(HeaderXForwardedFor))
}
