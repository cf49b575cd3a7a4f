package eval

import (
	"github.com/kjhall/minilisp/internal/diag"
	"github.com/kjhall/minilisp/internal/environment"
	"github.com/kjhall/minilisp/internal/value"
)

// evalQuote handles (quote datum), returning datum unevaluated.
func (m *Machine) evalQuote(expr value.Value) (value.Value, error) {
	args := m.listSlice(m.Heap.Cdr(expr))
	if len(args) != 1 {
		return value.Value{}, diag.SyntaxError(nil, "quote", "quote takes exactly one argument")
	}
	return args[0], nil
}

// evalIf handles (if test conseq [alt]). The branch taken is returned as a
// (expr, env) pair for the caller to continue evaluating in tail position,
// rather than being evaluated here, so that a tail call inside the branch
// stays a tail call.
func (m *Machine) evalIf(expr value.Value, env *environment.Frame) (nextExpr value.Value, nextEnv *environment.Frame, done bool, result value.Value, err error) {
	args := m.listSlice(m.Heap.Cdr(expr))
	if len(args) != 2 && len(args) != 3 {
		return value.Value{}, nil, true, value.Value{}, diag.SyntaxError(nil, "if", "if takes a test, a consequent, and an optional alternate")
	}
	test, err := m.Eval(args[0], env)
	if err != nil {
		return value.Value{}, nil, true, value.Value{}, err
	}
	if value.Truthy(test) {
		return args[1], env, false, value.Value{}, nil
	}
	if len(args) == 3 {
		return args[2], env, false, value.Value{}, nil
	}
	return value.Value{}, nil, true, value.Unspecified(), nil
}

// evalDefine handles both (define name value) and the lambda-shorthand
// (define (name . formals) body...), which desugars to
// (define name (lambda formals body...)).
func (m *Machine) evalDefine(expr value.Value, env *environment.Frame) (value.Value, error) {
	rest := m.Heap.Cdr(expr)
	if !rest.IsPair() {
		return value.Value{}, diag.SyntaxError(nil, "define", "define requires a name and a value")
	}
	target := m.Heap.Car(rest)
	body := m.Heap.Cdr(rest)

	if target.IsSymbol() {
		valExprs := m.listSlice(body)
		if len(valExprs) != 1 {
			return value.Value{}, diag.SyntaxError(nil, "define", "(define name value) takes exactly one value expression")
		}
		v, err := m.Eval(valExprs[0], env)
		if err != nil {
			return value.Value{}, err
		}
		env.Define(target.Symbol(), v)
		return value.Unspecified(), nil
	}

	if target.IsPair() {
		name := m.Heap.Car(target)
		if !name.IsSymbol() {
			return value.Value{}, diag.SyntaxError(nil, "define", "procedure name must be a symbol")
		}
		formals := m.Heap.Cdr(target)
		proc, err := m.makeLambda(formals, m.listSlice(body), env, name.Symbol().Name)
		if err != nil {
			return value.Value{}, err
		}
		env.Define(name.Symbol(), proc)
		return value.Unspecified(), nil
	}

	return value.Value{}, diag.SyntaxError(nil, "define", "malformed define")
}

// evalSetBang handles (set! name value).
func (m *Machine) evalSetBang(expr value.Value, env *environment.Frame) (value.Value, error) {
	args := m.listSlice(m.Heap.Cdr(expr))
	if len(args) != 2 || !args[0].IsSymbol() {
		return value.Value{}, diag.SyntaxError(nil, "set!", "set! takes a symbol and a value")
	}
	v, err := m.Eval(args[1], env)
	if err != nil {
		return value.Value{}, err
	}
	if err := env.Set(args[0].Symbol(), v, nil); err != nil {
		return value.Value{}, err
	}
	return value.Unspecified(), nil
}

// evalLambda handles (lambda formals body...), capturing env as the
// closure's defining scope.
func (m *Machine) evalLambda(expr value.Value, env *environment.Frame, name string) (value.Value, error) {
	rest := m.Heap.Cdr(expr)
	if !rest.IsPair() {
		return value.Value{}, diag.SyntaxError(nil, "lambda", "lambda requires a formals list and a body")
	}
	formals := m.Heap.Car(rest)
	body := m.listSlice(m.Heap.Cdr(rest))
	return m.makeLambda(formals, body, env, name)
}

// makeLambda builds a compound procedure from a formals spec (a proper
// list, an improper list ending in a rest symbol, or a bare symbol meaning
// "all arguments as a list") and a body.
func (m *Machine) makeLambda(formals value.Value, body []value.Value, env *environment.Frame, name string) (value.Value, error) {
	if len(body) == 0 {
		return value.Value{}, diag.SyntaxError(nil, "lambda", diag.ErrMsgEmptyBody)
	}

	if formals.IsSymbol() {
		return m.Heap.AllocCompound(name, nil, formals.Symbol(), body, env), nil
	}

	var params []*value.Symbol
	cur := formals
	for cur.IsPair() {
		p := m.Heap.Car(cur)
		if !p.IsSymbol() {
			return value.Value{}, diag.SyntaxError(nil, "lambda", "formal parameters must be symbols")
		}
		params = append(params, p.Symbol())
		cur = m.Heap.Cdr(cur)
	}
	var restSym *value.Symbol
	if cur.IsSymbol() {
		restSym = cur.Symbol()
	} else if !cur.IsNil() {
		return value.Value{}, diag.SyntaxError(nil, "lambda", "malformed formals list")
	}
	return m.Heap.AllocCompound(name, params, restSym, body, env), nil
}

// evalSequenceTail evaluates every form but the last (which may have
// side effects, e.g. internal defines or display calls) and returns the
// last form for the caller to continue evaluating in tail position.
// done/result are used for the degenerate empty-sequence case.
func (m *Machine) evalSequenceTail(forms []value.Value, env *environment.Frame) (next value.Value, done bool, result value.Value, err error) {
	if len(forms) == 0 {
		return value.Value{}, true, value.Unspecified(), nil
	}
	for _, f := range forms[:len(forms)-1] {
		if _, err := m.Eval(f, env); err != nil {
			return value.Value{}, true, value.Value{}, err
		}
	}
	return forms[len(forms)-1], false, value.Value{}, nil
}

// evalCond handles (cond (test expr...) ... [(else expr...)]), returning
// the winning clause's last expression for tail evaluation.
func (m *Machine) evalCond(expr value.Value, env *environment.Frame) (next value.Value, done bool, result value.Value, err error) {
	clauses := m.listSlice(m.Heap.Cdr(expr))
	for _, clause := range clauses {
		parts := m.listSlice(clause)
		if len(parts) == 0 {
			return value.Value{}, true, value.Value{}, diag.SyntaxError(nil, "cond", "cond clause must not be empty")
		}
		test := parts[0]
		isElse := test.IsSymbol() && test.Symbol() == symElse

		var matched bool
		var testVal value.Value
		if isElse {
			matched = true
		} else {
			testVal, err = m.Eval(test, env)
			if err != nil {
				return value.Value{}, true, value.Value{}, err
			}
			matched = value.Truthy(testVal)
		}
		if !matched {
			continue
		}

		body := parts[1:]
		if len(body) == 0 {
			// (test) with no body: the value of test itself is the result.
			return value.Value{}, true, testVal, nil
		}
		next, done, result, err := m.evalSequenceTail(body, env)
		return next, done, result, err
	}
	return value.Value{}, true, value.Unspecified(), nil
}

// evalAnd handles (and e1 e2 ... en): evaluates left to right, short-
// circuiting on the first falsy value, and returns the last expression for
// tail evaluation when every preceding expression was truthy.
func (m *Machine) evalAnd(expr value.Value, env *environment.Frame) (next value.Value, done bool, result value.Value, err error) {
	forms := m.listSlice(m.Heap.Cdr(expr))
	if len(forms) == 0 {
		return value.Value{}, true, value.NewBool(true), nil
	}
	for _, f := range forms[:len(forms)-1] {
		v, err := m.Eval(f, env)
		if err != nil {
			return value.Value{}, true, value.Value{}, err
		}
		if !value.Truthy(v) {
			return value.Value{}, true, v, nil
		}
	}
	return forms[len(forms)-1], false, value.Value{}, nil
}

// evalOr handles (or e1 e2 ... en): evaluates left to right, short-
// circuiting on the first truthy value.
func (m *Machine) evalOr(expr value.Value, env *environment.Frame) (next value.Value, done bool, result value.Value, err error) {
	forms := m.listSlice(m.Heap.Cdr(expr))
	if len(forms) == 0 {
		return value.Value{}, true, value.NewBool(false), nil
	}
	for _, f := range forms[:len(forms)-1] {
		v, err := m.Eval(f, env)
		if err != nil {
			return value.Value{}, true, value.Value{}, err
		}
		if value.Truthy(v) {
			return value.Value{}, true, v, nil
		}
	}
	return forms[len(forms)-1], false, value.Value{}, nil
}
