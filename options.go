package reqheaders

import "strings"

// WithLogger installs a logger for security-significant warnings.
//
// *slog.Logger satisfies the Logger interface directly.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics installs a metrics recorder.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		return nil
	}
}

// MaxChainLength bounds the number of entries accepted in a forwarded-for
// chain.
func MaxChainLength(max int) Option {
	return func(c *config) error {
		c.maxChainLength = max
		return nil
	}
}

// IPSourcePriority sets the ordered list of headers consulted when deriving
// the client IP. Names are matched case-insensitively against the bag; the
// special name "forwarded" is parsed as an RFC 7239 Forwarded header, all
// others as comma-separated chains.
func IPSourcePriority(headers ...string) Option {
	headers = cloneStrings(headers)

	return func(c *config) error {
		normalized := make([]string, len(headers))
		for i, header := range headers {
			normalized[i] = strings.ToLower(strings.TrimSpace(header))
		}
		c.sourcePriority = normalized
		return nil
	}
}

// WithPlatformRules replaces the platform classification rule table.
//
// Rules are ordered, case-sensitive substring checks; the first match wins.
func WithPlatformRules(rules ...PlatformRule) Option {
	rules = cloneRules(rules)

	return func(c *config) error {
		c.platformRules = rules
		return nil
	}
}

// WithMobileMarkers replaces the user-agent substrings that flag a client as
// mobile, independent of the platform family.
func WithMobileMarkers(markers ...string) Option {
	markers = cloneStrings(markers)

	return func(c *config) error {
		c.mobileMarkers = markers
		return nil
	}
}
