package reqheaders

import "strings"

// Platform classifies the client platform from the bag's user-agent header.
//
// Classification applies the configured ordered rule table with
// case-sensitive substring matching; the first matching rule wins. The
// second return value reports whether any mobile marker matched,
// independently of the family.
//
// An absent user-agent yields (PlatformUnknown, false). The user-agent is
// entirely client-controlled, so this is a stable best-effort mapping for
// logging and coarse policy, not ground truth.
func (in *Introspector) Platform(bag HeaderBag) (PlatformFamily, bool) {
	userAgent, ok := bag.Get(HeaderUserAgent)
	if !ok {
		return PlatformUnknown, false
	}

	family := PlatformUnknown
	for _, rule := range in.config.platformRules {
		if strings.Contains(userAgent, rule.Marker) {
			family = rule.Family
			break
		}
	}
	if family == PlatformUnknown {
		in.config.metrics.RecordSecurityEvent(securityEventUnknownPlatform)
	}

	mobile := false
	for _, marker := range in.config.mobileMarkers {
		if strings.Contains(userAgent, marker) {
			mobile = true
			break
		}
	}

	return family, mobile
}
