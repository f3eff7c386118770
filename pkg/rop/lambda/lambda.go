// Package lambda compiles inline lambda steps. Bodies are expr-lang
// expressions evaluated with the lambda parameter as their only variable.
package lambda

import (
	"context"
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ib-77/ropipe/pkg/rop/step"
)

// Compile type-checks the body of l and returns the step it denotes. When the
// parameter type is declared the input is converted to it before the body
// runs; a declared return type converts the result.
func Compile(l step.InlineLambda) (step.Func, error) {
	paramType, err := resolve(l.ParamType)
	if err != nil {
		return nil, err
	}
	returnType, err := resolve(l.ReturnType)
	if err != nil {
		return nil, err
	}

	var opts []expr.Option
	if paramType != nil && paramType.Kind() != reflect.Interface {
		opts = append(opts, expr.Env(map[string]any{
			l.Param: reflect.Zero(paramType).Interface(),
		}))
	}

	program, err := expr.Compile(l.Body, opts...)
	if err != nil {
		return nil, fmt.Errorf("lambda: %w", err)
	}

	return bind(l, program, paramType, returnType), nil
}

func bind(l step.InlineLambda, program *vm.Program, paramType, returnType reflect.Type) step.Func {
	return func(_ context.Context, in any) (any, error) {
		arg := in
		if paramType != nil {
			v, err := step.Convert(in, paramType)
			if err != nil {
				return nil, fmt.Errorf("lambda |%s|: parameter: %w", l.Param, err)
			}
			arg = v
		}

		out, err := expr.Run(program, map[string]any{l.Param: arg})
		if err != nil {
			return nil, fmt.Errorf("lambda |%s|: %w", l.Param, err)
		}

		if returnType != nil {
			v, err := step.Convert(out, returnType)
			if err != nil {
				return nil, fmt.Errorf("lambda |%s|: result: %w", l.Param, err)
			}
			out = v
		}
		return out, nil
	}
}

func resolve(name string) (reflect.Type, error) {
	if name == "" {
		return nil, nil
	}
	t, ok := step.TypeOf(name)
	if !ok {
		return nil, fmt.Errorf("lambda: unsupported type %q", name)
	}
	return t, nil
}

// Value evaluates a standalone expression, such as the textual initial value
// of a chain.
func Value(src string) (any, error) {
	v, err := expr.Eval(src, nil)
	if err != nil {
		return nil, fmt.Errorf("lambda: value %q: %w", src, err)
	}
	return v, nil
}
