package reqheaders

// PresetPostgREST configures derivation for a PostgREST-style gateway that
// republishes the standard proxy headers untouched.
//
// This preset derives the client IP from x-forwarded-for only.
func PresetPostgREST() Option {
	return IPSourcePriority(HeaderXForwardedFor)
}

// PresetCloudflare configures derivation for deployments behind Cloudflare.
//
// It prefers cf-connecting-ip, which Cloudflare sets to the connecting
// client, and falls back to x-forwarded-for.
func PresetCloudflare() Option {
	return IPSourcePriority(HeaderCFConnecting, HeaderXForwardedFor)
}

// PresetDirectGateway configures derivation for a single trusted reverse
// proxy that sets x-real-ip, with x-forwarded-for fallback.
func PresetDirectGateway() Option {
	return IPSourcePriority(HeaderXRealIP, HeaderXForwardedFor)
}

// PresetRFC7239 configures derivation to prefer the standard Forwarded
// header, with x-forwarded-for fallback for proxies that only set the
// legacy header.
func PresetRFC7239() Option {
	return IPSourcePriority(HeaderForwarded, HeaderXForwardedFor)
}
