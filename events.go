package reqheaders

const (
	securityEventMalformedPayload   = "malformed_payload"
	securityEventChainTooLong       = "chain_too_long"
	securityEventMalformedForwarded = "malformed_forwarded"
	securityEventUnknownPlatform    = "unknown_platform"
)
