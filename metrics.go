package reqheaders

// Metrics records lookup and derivation outcomes emitted by Introspector.
//
// Implementations should be safe for concurrent use, as a single
// Introspector instance is typically shared across many goroutines.
type Metrics interface {
	// RecordDerivationSuccess is called when a source successfully yields a
	// derived signal (client IP, platform).
	RecordDerivationSuccess(source string)
	// RecordDerivationAbsent is called when a source is consulted but the
	// underlying header is absent or yields no usable value.
	RecordDerivationAbsent(source string)
	// RecordSecurityEvent is called when the introspector observes a
	// security-relevant condition.
	RecordSecurityEvent(event string)
}

// noopMetrics is the default Metrics implementation when metrics are not
// explicitly configured.
type noopMetrics struct{}

func (noopMetrics) RecordDerivationSuccess(string) {}

func (noopMetrics) RecordDerivationAbsent(string) {}

func (noopMetrics) RecordSecurityEvent(string) {}
