// Package cel exposes header-bag introspection to CEL-based policy engines.
//
// Expressions see the bag and its derived signals as variables:
//
//	headers          map(string, string) — the lower-cased header bag
//	client_ip        string — derived client IP, "" when absent
//	client_ip_present bool
//	platform         string — "windows", "mac", "ios", "android", "other", "unknown"
//	mobile           bool
//
// Presence checks use native CEL map membership:
//
//	"host" in headers && headers["host"] == "localhost:3000"
//
// Indexing an absent header is a CEL error, and EvalBool converts every
// evaluation error to false, so policy expressions fail closed on absent
// values without extra guards.
package cel

import (
	"github.com/gobwas/glob"
	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	"github.com/google/cel-go/ext"

	"github.com/burggraf/reqheaders"
)

// NewEnv creates a CEL environment with the header-bag variables and policy
// helper functions declared.
func NewEnv() (*cel.Env, error) {
	return cel.NewEnv(
		ext.Strings(),
		ext.Sets(),

		cel.Variable("headers", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("client_ip", cel.StringType),
		cel.Variable("client_ip_present", cel.BoolType),
		cel.Variable("platform", cel.StringType),
		cel.Variable("mobile", cel.BoolType),

		// glob: pattern matching with '.' as separator, for host rules like
		// glob(headers["host"], "*.internal.example.com").
		cel.Function("glob",
			cel.Overload("glob_string_string",
				[]*cel.Type{cel.StringType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(globMatch),
			),
		),

		// in_whitelist: exact membership of a derived IP in an address list.
		// The empty string (absent IP) is never a member.
		cel.Function("in_whitelist",
			cel.Overload("in_whitelist_string_list",
				[]*cel.Type{cel.StringType, cel.ListType(cel.StringType)},
				cel.BoolType,
				cel.BinaryBinding(inWhitelist),
			),
		),

		// version_at_least: dotted-numeric comparison, false on unparseable
		// input.
		cel.Function("version_at_least",
			cel.Overload("version_at_least_string_string",
				[]*cel.Type{cel.StringType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(versionAtLeast),
			),
		),
	)
}

func globMatch(value, pattern ref.Val) ref.Val {
	valueStr, ok := value.(types.String)
	if !ok {
		return types.Bool(false)
	}
	patternStr, ok := pattern.(types.String)
	if !ok {
		return types.Bool(false)
	}

	matcher, err := glob.Compile(string(patternStr), '.')
	if err != nil {
		return types.Bool(false)
	}
	return types.Bool(matcher.Match(string(valueStr)))
}

func inWhitelist(ip, list ref.Val) ref.Val {
	ipStr, ok := ip.(types.String)
	if !ok || ipStr == "" {
		return types.Bool(false)
	}

	lister, ok := list.(traits.Lister)
	if !ok {
		return types.Bool(false)
	}

	for it := lister.Iterator(); it.HasNext() == types.True; {
		member, ok := it.Next().(types.String)
		if ok && member == ipStr {
			return types.Bool(true)
		}
	}
	return types.Bool(false)
}

func versionAtLeast(version, min ref.Val) ref.Val {
	versionStr, ok := version.(types.String)
	if !ok {
		return types.Bool(false)
	}
	minStr, ok := min.(types.String)
	if !ok {
		return types.Bool(false)
	}

	cmp, err := reqheaders.CompareVersions(string(versionStr), string(minStr))
	if err != nil {
		return types.Bool(false)
	}
	return types.Bool(cmp >= 0)
}
