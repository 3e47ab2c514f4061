// Package reqheaders reads the per-request header bag published by a
// PostgREST-style API gateway and derives access-control signals from it:
// individual header values with strict absent/empty semantics, the client IP
// from proxy chain headers, a coarse platform classification from the
// user-agent, and fail-closed policy predicates for authorization and audit
// code.
//
// # Model
//
// The gateway publishes a flat JSON object of header name to header value
// once per request. This package parses that payload into an immutable
// HeaderBag, which all lookups and derivations operate on. The bag is
// request-scoped and must never be reused across requests.
//
//	bag, err := reqheaders.ParseHeaderBag(payload)
//	if err != nil {
//	    // Corrupt publish channel; do not treat as "no headers".
//	    return err
//	}
//
//	host, ok := bag.Get("Host") // case-insensitive; ok=false means absent
//
// For in-process HTTP services the bag can travel on the request context:
//
//	ctx := reqheaders.PublishBag(r.Context(), reqheaders.BagFromRequest(r))
//	...
//	bag, err := reqheaders.Headers(ctx)
//	if errors.Is(err, reqheaders.ErrNoRequestContext) {
//	    // Not inside a request (batch job, internal trigger): no headers.
//	}
//
// # Client signals
//
// An Introspector derives the client IP from an ordered list of chain
// headers (x-forwarded-for by default) and classifies the platform from the
// user-agent:
//
//	intro, err := reqheaders.New(reqheaders.PresetCloudflare())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ip, ok := intro.ClientIP(bag)
//	signals := intro.Platform(bag)
//
// The leftmost forwarded-for entry is attacker-influenceable. ClientIP is a
// convenience/logging value, not an authenticated client identity.
//
// # Policy predicates
//
// Predicates are pure and deny by default: any predicate over an absent
// value evaluates false, never true.
//
//	wl := reqheaders.NewWhitelist("142.251.46.206")
//	if intro.IPWhitelisted(bag, wl) && reqheaders.HostEquals(bag, "localhost:3000") {
//	    // allow
//	}
//
// Whitelist membership is exact string matching; CIDR ranges are not
// supported.
//
// # Observability
//
// Logging uses an interface that mirrors slog's WarnContext signature, so
// *slog.Logger can be passed directly. Metrics are pluggable; a Prometheus
// adapter lives in github.com/burggraf/reqheaders/prometheus.
//
//	intro, err := reqheaders.New(
//	    reqheaders.WithLogger(slog.Default()),
//	    reqheaders.WithMetrics(metrics),
//	)
//
// # Thread safety
//
// HeaderBag values are immutable and Introspector instances are safe for
// concurrent reuse. They are typically created once at application startup
// and shared across all requests.
package reqheaders
