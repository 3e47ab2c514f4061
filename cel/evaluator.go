package cel

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/burggraf/reqheaders"
)

// maxExpressionLength is the maximum allowed length for policy expressions.
const maxExpressionLength = 1024

// maxCostBudget is the CEL runtime cost limit, preventing cost-exhaustion
// through adversarial expressions.
const maxCostBudget = 100_000

// maxNestingDepth is the maximum allowed parenthesis/bracket nesting depth.
const maxNestingDepth = 50

// interruptCheckFreq is how often (in comprehension iterations) context
// cancellation is checked.
const interruptCheckFreq = 100

// Evaluator compiles and evaluates CEL policy expressions against header
// bags.
type Evaluator struct {
	env          *cel.Env
	introspector *reqheaders.Introspector
}

// NewEvaluator creates an evaluator that derives expression variables
// through the given introspector.
func NewEvaluator(introspector *reqheaders.Introspector) (*Evaluator, error) {
	env, err := NewEnv()
	if err != nil {
		return nil, fmt.Errorf("create policy environment: %w", err)
	}
	return &Evaluator{env: env, introspector: introspector}, nil
}

// Compile parses and type-checks a policy expression, returning a compiled
// program. Expressions must produce a bool.
func (e *Evaluator) Compile(expression string) (cel.Program, error) {
	if err := e.ValidateExpression(expression); err != nil {
		return nil, err
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation failed: %w", issues.Err())
	}

	if ast.OutputType().String() != cel.BoolType.String() {
		return nil, fmt.Errorf("expression must evaluate to bool, got %s", ast.OutputType())
	}

	prg, err := e.env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
		cel.InterruptCheckFrequency(interruptCheckFreq),
	)
	if err != nil {
		return nil, fmt.Errorf("program creation failed: %w", err)
	}

	return prg, nil
}

// ValidateExpression checks that a policy expression is within the safety
// limits enforced at compile time.
func (e *Evaluator) ValidateExpression(expression string) error {
	if expression == "" {
		return errors.New("expression is empty")
	}
	if len(expression) > maxExpressionLength {
		return fmt.Errorf("expression too long: %d characters (max %d)", len(expression), maxExpressionLength)
	}
	return validateNesting(expression)
}

// validateNesting checks that the expression does not exceed the maximum
// allowed nesting depth for parentheses, brackets, and braces.
func validateNesting(expression string) error {
	var depth, maxDepth int
	for _, ch := range expression {
		switch ch {
		case '(', '[', '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')', ']', '}':
			depth--
		}
	}
	if maxDepth > maxNestingDepth {
		return fmt.Errorf("expression nesting too deep: %d levels (max %d)", maxDepth, maxNestingDepth)
	}
	return nil
}

// EvalBool evaluates a compiled program against the bag's variables.
//
// Evaluation is deny-by-default: any evaluation error, including indexing an
// absent header, and any non-bool result yield false.
func (e *Evaluator) EvalBool(ctx context.Context, prg cel.Program, bag reqheaders.HeaderBag) bool {
	out, _, err := prg.ContextEval(ctx, e.activation(bag))
	if err != nil {
		return false
	}

	allowed, ok := out.Value().(bool)
	return ok && allowed
}

// EvalExpression is a one-shot convenience helper that compiles and
// evaluates expression against the bag.
func (e *Evaluator) EvalExpression(ctx context.Context, expression string, bag reqheaders.HeaderBag) (bool, error) {
	prg, err := e.Compile(expression)
	if err != nil {
		return false, err
	}
	return e.EvalBool(ctx, prg, bag), nil
}

func (e *Evaluator) activation(bag reqheaders.HeaderBag) map[string]any {
	headers := make(map[string]string, bag.Len())
	for _, name := range bag.Names() {
		value, _ := bag.Get(name)
		headers[name] = value
	}

	signals := e.introspector.Signals(bag)

	return map[string]any{
		"headers":           headers,
		"client_ip":         signals.ClientIP,
		"client_ip_present": signals.ClientIPPresent,
		"platform":          signals.Platform.String(),
		"mobile":            signals.Mobile,
	}
}
