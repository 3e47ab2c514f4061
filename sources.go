package reqheaders

import "context"

// ipSource derives a candidate client IP from one header in the bag.
type ipSource interface {
	// Derive returns the candidate and whether one was present. An error
	// means the header existed but could not be parsed safely; callers
	// treat it as a fail-closed absence.
	Derive(bag HeaderBag) (string, bool, error)

	Name() string
}

// chainHeaderSource reads a comma-separated chain header (x-forwarded-for,
// cf-connecting-ip, x-real-ip, custom) and selects the leftmost non-empty
// entry.
//
// Leftmost selection is a deliberate trust assumption: every hop before the
// closest proxy is attacker-influenceable, so the value is suitable for
// convenience and logging, not for authentication.
type chainHeaderSource struct {
	introspector *Introspector
	header       string
	sourceName   string
}

func newChainHeaderSource(in *Introspector, header string) *chainHeaderSource {
	return &chainHeaderSource{
		introspector: in,
		header:       header,
		sourceName:   NormalizeSourceName(header),
	}
}

func (s *chainHeaderSource) Name() string {
	return s.sourceName
}

func (s *chainHeaderSource) Derive(bag HeaderBag) (string, bool, error) {
	value, ok := bag.Get(s.header)
	if !ok {
		return "", false, nil
	}

	parts, err := s.introspector.parseChainValue(value, s.sourceName)
	if err != nil {
		return "", false, err
	}
	if len(parts) == 0 {
		// Present but empty, or only commas/whitespace. Not a client IP.
		return "", false, nil
	}

	return parts[0], true, nil
}

// forwardedSource reads the RFC 7239 Forwarded header and selects the
// leftmost for= entry. The same leftmost trust caveat applies.
type forwardedSource struct {
	introspector *Introspector
}

func (s *forwardedSource) Name() string {
	return NormalizeSourceName(HeaderForwarded)
}

func (s *forwardedSource) Derive(bag HeaderBag) (string, bool, error) {
	value, ok := bag.Get(HeaderForwarded)
	if !ok {
		return "", false, nil
	}

	parts, err := s.introspector.parseForwardedValue(value)
	if err != nil {
		return "", false, err
	}
	if len(parts) == 0 {
		return "", false, nil
	}

	return parts[0], true, nil
}

func (in *Introspector) buildSources() []ipSource {
	sources := make([]ipSource, 0, len(in.config.sourcePriority))
	for _, header := range in.config.sourcePriority {
		if header == HeaderForwarded {
			sources = append(sources, &forwardedSource{introspector: in})
			continue
		}
		sources = append(sources, newChainHeaderSource(in, header))
	}
	return sources
}

func (in *Introspector) logDerivationWarning(ctx context.Context, sourceName, event, msg string, attrs ...any) {
	baseAttrs := []any{
		"event", event,
		"source", sourceName,
	}

	baseAttrs = append(baseAttrs, attrs...)
	in.config.logger.WarnContext(ctx, msg, baseAttrs...)
}
