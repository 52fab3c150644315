package schema

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/typecodec/ir"
)

// ExprTags is a TagResolver deriving discriminators from an expression
// over the encoded object. The top-level properties are variables and
// obj is the whole object:
//
//	has(obj, "meows") ? "cat" : (has(obj, "barks") ? "dog" : "")
//
// getpath(obj, "$.a.b") returns the value at a path, nil when absent. An empty or non-string
// result means the expression cannot tell. Tags written on encode are the
// explicit tags of the subtypes, or their short names.
type ExprTags struct {
	Source  string
	program *vm.Program
}

func NewExprTags(src string) (*ExprTags, error) {
	e := &ExprTags{Source: src}
	prg, err := expr.Compile(src, e.options()...)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling tag expression %q: %w", ErrSchema, src, err)
	}
	e.program = prg
	return e, nil
}

func (e *ExprTags) options() []expr.Option {
	return []expr.Option{
		expr.Function("has", func(params ...any) (any, error) {
			m, _ := params[0].(map[string]any)
			_, ok := m[params[1].(string)]
			return ok, nil
		}, new(func(map[string]any, string) bool)),
		expr.Function("getpath", func(params ...any) (any, error) {
			env, _ := params[0].(map[string]any)
			obj, err := ir.FromAny(env)
			if err != nil {
				return nil, err
			}
			res, err := obj.GetPath(params[1].(string))
			if err != nil {
				return nil, nil
			}
			return ir.ToAny(res), nil
		}, new(func(map[string]any, string) any)),
	}
}

func (e *ExprTags) TagOf(t *Type) (string, error) {
	if t.Tag != "" {
		return t.Tag, nil
	}
	return ShortName(t.Name), nil
}

func (e *ExprTags) TagFrom(obj *ir.Node) (string, bool, error) {
	if obj == nil || obj.Type != ir.ObjectType {
		return "", false, nil
	}
	fields, _ := ir.ToAny(obj).(map[string]any)
	env := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		env[k] = v
	}
	env["obj"] = fields
	out, err := expr.Run(e.program, env)
	if err != nil {
		return "", false, fmt.Errorf("evaluating tag expression %q: %w", e.Source, err)
	}
	tag, ok := out.(string)
	if !ok || tag == "" {
		return "", false, nil
	}
	return tag, true, nil
}
