package reqheaders

import (
	"github.com/gobwas/glob"
)

// Policy predicates are pure boolean functions meant to be embedded directly
// in access-control decision points. Every predicate denies by default: a
// comparison against an absent value evaluates false, never true.

// Whitelist is a set of exact IP address strings.
//
// Membership is exact string matching. CIDR ranges are not supported; this
// is a documented limitation of the whitelist model, not an oversight.
type Whitelist map[string]struct{}

// NewWhitelist builds a whitelist from the given addresses.
func NewWhitelist(ips ...string) Whitelist {
	w := make(Whitelist, len(ips))
	for _, ip := range ips {
		w[ip] = struct{}{}
	}
	return w
}

// Contains reports whether ip is a member of the whitelist.
func (w Whitelist) Contains(ip string) bool {
	_, ok := w[ip]
	return ok
}

// InWhitelist reports whether a derived IP is a whitelist member.
//
// present follows the (value, ok) shape returned by ClientIP and Get; an
// absent IP is never a member, regardless of the whitelist contents.
func InWhitelist(ip string, present bool, whitelist Whitelist) bool {
	if !present {
		return false
	}
	return whitelist.Contains(ip)
}

// HostEquals reports whether the bag's host header exactly equals expected.
//
// The comparison is case-sensitive and an absent host is never equal.
func HostEquals(bag HeaderBag, expected string) bool {
	return headerEquals(bag, HeaderHost, expected)
}

// OriginEquals reports whether the bag's origin header exactly equals
// expected. Same semantics as HostEquals.
func OriginEquals(bag HeaderBag, expected string) bool {
	return headerEquals(bag, HeaderOrigin, expected)
}

func headerEquals(bag HeaderBag, header, expected string) bool {
	value, ok := bag.Get(header)
	if !ok {
		return false
	}
	return value == expected
}

// HostMatches reports whether the bag's host header matches a glob pattern
// (for example "*.internal.example.com").
//
// An absent host never matches. An invalid pattern also evaluates false so
// a typo in a policy rule fails closed rather than open.
func HostMatches(bag HeaderBag, pattern string) bool {
	value, ok := bag.Get(HeaderHost)
	if !ok {
		return false
	}

	matcher, err := glob.Compile(pattern, '.')
	if err != nil {
		return false
	}
	return matcher.Match(value)
}
