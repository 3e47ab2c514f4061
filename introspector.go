package reqheaders

import (
	"context"
	"errors"
	"fmt"
)

// Introspector derives client signals from per-request header bags.
//
// Introspector instances are safe for concurrent reuse.
type Introspector struct {
	config  *config
	sources []ipSource
}

// New creates an Introspector from one or more Option builders.
func New(opts ...Option) (*Introspector, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	introspector := &Introspector{config: cfg}
	introspector.sources = introspector.buildSources()

	return introspector, nil
}

// Headers returns the bag published on ctx, recording observability for
// payload corruption.
//
// Semantics match the package-level Headers function: ErrNoRequestContext
// for non-request scopes, ErrMalformedPayload for a corrupt publish channel.
func (in *Introspector) Headers(ctx context.Context) (HeaderBag, error) {
	bag, err := Headers(ctx)
	if err != nil && errors.Is(err, ErrMalformedPayload) {
		in.config.metrics.RecordSecurityEvent(securityEventMalformedPayload)
		in.config.logger.WarnContext(ctx, "published header payload could not be parsed",
			"event", securityEventMalformedPayload,
			"error", err.Error(),
		)
	}
	return bag, err
}

// ClientIP derives the client-facing IP from the bag using the configured
// source priority.
//
// The second return value reports presence: absent chain headers, empty
// values, and unparseable values all yield ("", false). The result is the
// leftmost chain entry and carries no authentication-grade trust.
func (in *Introspector) ClientIP(bag HeaderBag) (string, bool) {
	return in.ClientIPContext(context.Background(), bag)
}

// ClientIPContext is ClientIP with a caller context for warning logs.
func (in *Introspector) ClientIPContext(ctx context.Context, bag HeaderBag) (string, bool) {
	for _, source := range in.sources {
		ip, ok, err := source.Derive(bag)
		if err != nil {
			// Parse failures fail closed: no fallback to weaker sources,
			// no IP.
			in.warnDerivationError(ctx, source.Name(), err)
			in.config.metrics.RecordDerivationAbsent(source.Name())
			return "", false
		}
		if !ok {
			in.config.metrics.RecordDerivationAbsent(source.Name())
			continue
		}

		in.config.metrics.RecordDerivationSuccess(source.Name())
		return ip, true
	}

	return "", false
}

func (in *Introspector) warnDerivationError(ctx context.Context, sourceName string, err error) {
	switch {
	case errors.Is(err, ErrChainTooLong):
		var chainErr *ChainTooLongError
		if errors.As(err, &chainErr) {
			in.logDerivationWarning(ctx, sourceName, securityEventChainTooLong,
				"forwarded-for chain exceeds configured maximum",
				"chain_length", chainErr.ChainLength,
				"max_length", chainErr.MaxLength,
			)
			return
		}
		in.logDerivationWarning(ctx, sourceName, securityEventChainTooLong,
			"forwarded-for chain exceeds configured maximum")
	case errors.Is(err, ErrInvalidForwardedHeader):
		in.logDerivationWarning(ctx, sourceName, securityEventMalformedForwarded,
			"forwarded header could not be parsed", "error", err.Error())
	}
}

// Signals derives the full signal set from the bag in one call.
func (in *Introspector) Signals(bag HeaderBag) ClientSignals {
	ip, present := in.ClientIP(bag)
	family, mobile := in.Platform(bag)

	return ClientSignals{
		ClientIP:        ip,
		ClientIPPresent: present,
		Platform:        family,
		Mobile:          mobile,
	}
}

// IPWhitelisted reports whether the derived client IP is a member of the
// whitelist. An underivable IP is never whitelisted.
func (in *Introspector) IPWhitelisted(bag HeaderBag, whitelist Whitelist) bool {
	ip, ok := in.ClientIP(bag)
	return InWhitelist(ip, ok, whitelist)
}

// defaultIntrospector backs the package-level derivation helpers. The
// default configuration cannot fail validation.
var defaultIntrospector = func() *Introspector {
	introspector, err := New()
	if err != nil {
		panic(fmt.Sprintf("default introspector: %v", err))
	}
	return introspector
}()

// DeriveClientIP derives the client IP from the bag using the default
// configuration (x-forwarded-for only, leftmost entry).
func DeriveClientIP(bag HeaderBag) (string, bool) {
	return defaultIntrospector.ClientIP(bag)
}

// ClassifyPlatform classifies the platform from the bag's user-agent using
// the default rule table.
func ClassifyPlatform(bag HeaderBag) (PlatformFamily, bool) {
	return defaultIntrospector.Platform(bag)
}
