package cel

import (
	"context"
	"strings"
	"testing"

	"github.com/burggraf/reqheaders"
)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()

	introspector, err := reqheaders.New()
	if err != nil {
		t.Fatalf("reqheaders.New() error = %v", err)
	}

	evaluator, err := NewEvaluator(introspector)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	return evaluator
}

func TestEvaluator_EvalExpression(t *testing.T) {
	evaluator := newTestEvaluator(t)

	fullBag := reqheaders.NewHeaderBag(map[string]string{
		"host":            "api.internal.example.com",
		"x-forwarded-for": "142.251.46.206, 20.112.52.29",
		"user-agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) Mobile/15E148",
		"x-app-version":   "2.5.0",
	})
	emptyBag := reqheaders.NewHeaderBag(nil)

	tests := []struct {
		name       string
		expression string
		bag        reqheaders.HeaderBag
		want       bool
	}{
		{
			name:       "host equality",
			expression: `"host" in headers && headers["host"] == "api.internal.example.com"`,
			bag:        fullBag,
			want:       true,
		},
		{
			name:       "indexing absent header fails closed",
			expression: `headers["host"] == "api.internal.example.com"`,
			bag:        emptyBag,
			want:       false,
		},
		{
			name:       "client ip variable",
			expression: `client_ip_present && client_ip == "142.251.46.206"`,
			bag:        fullBag,
			want:       true,
		},
		{
			name:       "client ip absent",
			expression: `client_ip_present`,
			bag:        emptyBag,
			want:       false,
		},
		{
			name:       "platform and mobile variables",
			expression: `platform == "ios" && mobile`,
			bag:        fullBag,
			want:       true,
		},
		{
			name:       "in_whitelist member",
			expression: `in_whitelist(client_ip, ["142.251.46.206", "1.2.3.4"])`,
			bag:        fullBag,
			want:       true,
		},
		{
			name:       "in_whitelist absent ip is never a member",
			expression: `in_whitelist(client_ip, [""])`,
			bag:        emptyBag,
			want:       false,
		},
		{
			name:       "glob host match",
			expression: `glob(headers["host"], "*.internal.example.com")`,
			bag:        fullBag,
			want:       true,
		},
		{
			name:       "glob non-match",
			expression: `glob(headers["host"], "*.example.org")`,
			bag:        fullBag,
			want:       false,
		},
		{
			name:       "version_at_least satisfied",
			expression: `version_at_least(headers["x-app-version"], "2.0")`,
			bag:        fullBag,
			want:       true,
		},
		{
			name:       "version_at_least not satisfied",
			expression: `version_at_least(headers["x-app-version"], "3.0")`,
			bag:        fullBag,
			want:       false,
		},
		{
			name:       "version_at_least absent header fails closed",
			expression: `version_at_least(headers["x-app-version"], "0.0")`,
			bag:        emptyBag,
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluator.EvalExpression(context.Background(), tt.expression, tt.bag)
			if err != nil {
				t.Fatalf("EvalExpression() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("EvalExpression(%q) = %v, want %v", tt.expression, got, tt.want)
			}
		})
	}
}

func TestEvaluator_Compile_Rejections(t *testing.T) {
	evaluator := newTestEvaluator(t)

	tests := []struct {
		name       string
		expression string
		wantInErr  string
	}{
		{
			name:       "empty expression",
			expression: "",
			wantInErr:  "empty",
		},
		{
			name:       "non-bool result",
			expression: `headers["host"]`,
			wantInErr:  "bool",
		},
		{
			name:       "unknown variable",
			expression: `no_such_variable == "x"`,
			wantInErr:  "compilation failed",
		},
		{
			name:       "too long",
			expression: "client_ip_present && " + strings.Repeat("true && ", 200) + "true",
			wantInErr:  "too long",
		},
		{
			name:       "nesting too deep",
			expression: strings.Repeat("(", 60) + "true" + strings.Repeat(")", 60),
			wantInErr:  "nesting too deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evaluator.Compile(tt.expression)
			if err == nil {
				t.Fatalf("Compile(%q) error = nil, want error", tt.expression)
			}
			if !strings.Contains(err.Error(), tt.wantInErr) {
				t.Errorf("Compile() error = %v, want containing %q", err, tt.wantInErr)
			}
		})
	}
}

func TestEvaluator_CompileOnceEvalMany(t *testing.T) {
	evaluator := newTestEvaluator(t)

	prg, err := evaluator.Compile(`client_ip_present && in_whitelist(client_ip, ["1.1.1.1"])`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	allowed := reqheaders.NewHeaderBag(map[string]string{"x-forwarded-for": "1.1.1.1"})
	denied := reqheaders.NewHeaderBag(map[string]string{"x-forwarded-for": "2.2.2.2"})
	absent := reqheaders.NewHeaderBag(nil)

	if !evaluator.EvalBool(context.Background(), prg, allowed) {
		t.Error("EvalBool(allowed) = false, want true")
	}
	if evaluator.EvalBool(context.Background(), prg, denied) {
		t.Error("EvalBool(denied) = true, want false")
	}
	if evaluator.EvalBool(context.Background(), prg, absent) {
		t.Error("EvalBool(absent) = true, want false")
	}
}
