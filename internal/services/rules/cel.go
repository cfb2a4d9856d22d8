package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// Engine compiles and evaluates field validation rules written in CEL.
// Rules see the field value as "self" and the whole input as "record".
type Engine struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewEngine creates a new rule engine
func NewEngine() (*Engine, error) {
	env, err := newEnv()
	if err != nil {
		return nil, err
	}
	return &Engine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

func newEnv() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable("self", cel.DynType),
		cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

var defaultEngine = sync.OnceValues(NewEngine)

// CheckExpression reports whether expression compiles to a boolean rule
func CheckExpression(expression string) error {
	engine, err := defaultEngine()
	if err != nil {
		return err
	}
	return engine.ValidateExpression(expression)
}

// ValidateExpression validates a CEL expression without evaluating it
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.check(expression)
	return err
}

func (e *Engine) check(expression string) (*cel.Ast, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid CEL expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("CEL expression must return boolean, got: %s", ast.OutputType())
	}
	return ast, nil
}

// Compile returns the program for expression, compiling it on first use
func (e *Engine) Compile(expression string) (cel.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	ast, err := e.check(expression)
	if err != nil {
		return nil, err
	}
	program, err = e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL program: %w", err)
	}

	e.mu.Lock()
	e.programs[expression] = program
	e.mu.Unlock()

	return program, nil
}

// Evaluate evaluates expression against a field value and its record
func (e *Engine) Evaluate(expression string, self any, record map[string]any) (bool, error) {
	program, err := e.Compile(expression)
	if err != nil {
		return false, err
	}

	if record == nil {
		record = map[string]any{}
	}
	result, _, err := program.Eval(map[string]any{
		"self":   self,
		"record": record,
	})
	if err != nil {
		return false, fmt.Errorf("failed to evaluate CEL expression: %w", err)
	}

	boolResult, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("CEL expression did not evaluate to boolean, got: %T", result.Value())
	}
	return boolResult, nil
}
