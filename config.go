package reqheaders

import "fmt"

const (
	// DefaultMaxChainLength is the maximum number of entries allowed in a
	// forwarded-for chain. It guards against extremely long header values
	// causing excessive allocation during parsing. Typical chains have 1-5
	// entries; 100 accommodates complex multi-CDN setups.
	DefaultMaxChainLength = 100
)

// Well-known lower-cased header names used by derivations and predicates.
const (
	HeaderXForwardedFor = "x-forwarded-for"
	HeaderForwarded     = "forwarded"
	HeaderXRealIP       = "x-real-ip"
	HeaderCFConnecting  = "cf-connecting-ip"
	HeaderUserAgent     = "user-agent"
	HeaderHost          = "host"
	HeaderOrigin        = "origin"
	HeaderRequestID     = "x-request-id"
)

// PlatformRule maps a case-sensitive user-agent substring to a platform
// family. Rules are evaluated in order; the first match wins.
type PlatformRule struct {
	Marker string
	Family PlatformFamily
}

// Option configures an Introspector.
//
// Construct options using package-provided option builder functions.
type Option func(*config) error

// Config is the exported handle adapter packages use to build options. Its
// fields are intentionally unexported; construct options through builder
// functions.
type Config = config

// config holds introspector configuration state.
//
// It is mutated by Option functions during construction and is fixed once
// New returns.
type config struct {
	maxChainLength int
	sourcePriority []string

	platformRules []PlatformRule
	mobileMarkers []string

	logger  Logger
	metrics Metrics
}

// defaultPlatformRules is evaluated in order, first match wins.
//
// iOS markers come before "Mac OS X": iPhone and iPad user-agents contain
// "like Mac OS X", so checking Mac first would misclassify every iOS client.
var defaultPlatformRules = []PlatformRule{
	{Marker: "iPhone OS", Family: PlatformIOS},
	{Marker: "iPad; CPU OS", Family: PlatformIOS},
	{Marker: "Android", Family: PlatformAndroid},
	{Marker: "Windows", Family: PlatformWindows},
	{Marker: "Mac OS X", Family: PlatformMac},
	{Marker: "Linux", Family: PlatformOther},
	{Marker: "X11", Family: PlatformOther},
}

// defaultMobileMarkers flag a user-agent as mobile independently of the
// platform family classification.
var defaultMobileMarkers = []string{
	"iPhone OS",
	"iPad",
	"Android",
	"Mobile",
}

func defaultConfig() *config {
	return &config{
		maxChainLength: DefaultMaxChainLength,
		sourcePriority: []string{HeaderXForwardedFor},
		platformRules:  cloneRules(defaultPlatformRules),
		mobileMarkers:  cloneStrings(defaultMobileMarkers),
		logger:         noopLogger{},
		metrics:        noopMetrics{},
	}
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()
	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOptions(cfg *config, opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return err
		}
	}
	return nil
}

func (c *config) validate() error {
	if c.maxChainLength <= 0 {
		return fmt.Errorf("maxChainLength must be > 0, got %d", c.maxChainLength)
	}

	if len(c.sourcePriority) == 0 {
		return fmt.Errorf("at least one client IP source required in priority list")
	}

	seen := make(map[string]struct{}, len(c.sourcePriority))
	for _, source := range c.sourcePriority {
		if source == "" {
			return fmt.Errorf("empty header name in client IP source priority list")
		}
		if _, duplicate := seen[source]; duplicate {
			return fmt.Errorf("duplicate client IP source %q in priority list", source)
		}
		seen[source] = struct{}{}
	}

	for i, rule := range c.platformRules {
		if rule.Marker == "" {
			return fmt.Errorf("platform rule %d has an empty marker", i)
		}
		if rule.Family == PlatformUnknown {
			return fmt.Errorf("platform rule %d maps %q to the unknown family", i, rule.Marker)
		}
	}

	for i, marker := range c.mobileMarkers {
		if marker == "" {
			return fmt.Errorf("mobile marker %d is empty", i)
		}
	}

	if c.logger == nil {
		return fmt.Errorf("logger cannot be nil")
	}
	if c.metrics == nil {
		return fmt.Errorf("metrics cannot be nil")
	}
	return nil
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}

func cloneRules(rules []PlatformRule) []PlatformRule {
	if rules == nil {
		return nil
	}
	cloned := make([]PlatformRule, len(rules))
	copy(cloned, rules)
	return cloned
}
