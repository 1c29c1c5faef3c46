package scm

// evalSpecialForm recognizes and executes a special form by head symbol.
// handled=false means name is not a special form and the caller should fall
// through to procedure application. When handled, isTail=true asks the
// caller's trampoline to continue looping on (nextExpr, nextEnv) instead of
// returning result directly — this is what keeps tail calls in constant
// stack depth.
func (ev *Evaluator) evalSpecialForm(name string, items []Value, form Value, env Env) (nextExpr Value, nextEnv Env, result Value, isTail bool, handled bool) {
	switch name {
	case "quote":
		requireArity(form, items, 2, 2)
		return Value{}, Env{}, items[1], false, true

	case "if":
		if len(items) < 3 || len(items) > 4 {
			panic(newArityRange(callSpan(form), 2, 3, len(items)-1))
		}
		cond := ev.eval(items[1], env)
		if cond.IsTruthy() {
			return items[2], env, Value{}, true, true
		}
		if len(items) == 4 {
			return items[3], env, Value{}, true, true
		}
		return Value{}, Env{}, Nil, false, true

	case "cond":
		for _, clause := range items[1:] {
			parts, ok := ToList(clause)
			if !ok || len(parts) == 0 {
				panic(newTypeError(callSpan(clause), "(test expr...)", "malformed cond clause"))
			}
			test := parts[0]
			isElse := test.kind == KindSymbol && test.s == "else"
			truthy := isElse
			if !isElse {
				truthy = ev.eval(test, env).IsTruthy()
			}
			if truthy {
				body := parts[1:]
				if len(body) == 0 {
					return Value{}, Env{}, ev.eval(test, env), false, true
				}
				for _, f := range body[:len(body)-1] {
					ev.eval(f, env)
				}
				return body[len(body)-1], env, Value{}, true, true
			}
		}
		return Value{}, Env{}, Nil, false, true

	case "define":
		requireArity(form, items, 3, -1)
		target := items[1]
		if target.IsCons() {
			// (define (name args...) body...) sugar for (define name (lambda (args...) body...))
			parts, _ := ToList(target)
			nameV := parts[0]
			if nameV.kind != KindSymbol {
				panic(newNotASymbol(elemSpan(target, 0), nameV.Kind().String()))
			}
			lambdaVal := ev.makeLambda(target.Cdr(), items[2:], env, nameV.s, false)
			env.Define(nameV.s, lambdaVal)
			return Value{}, Env{}, lambdaVal, false, true
		}
		if target.kind != KindSymbol {
			panic(newNotASymbol(elemSpan(form, 1), target.Kind().String()))
		}
		val := ev.eval(items[2], env)
		env.Define(target.s, val)
		return Value{}, Env{}, val, false, true

	case "defun":
		requireArity(form, items, 4, -1)
		nameV := items[1]
		if nameV.kind != KindSymbol {
			panic(newNotASymbol(elemSpan(form, 1), nameV.Kind().String()))
		}
		lambdaVal := ev.makeLambda(items[2], items[3:], env, nameV.s, false)
		env.Define(nameV.s, lambdaVal)
		return Value{}, Env{}, lambdaVal, false, true

	case "set!":
		requireArity(form, items, 3, 3)
		target := items[1]
		if target.kind != KindSymbol {
			panic(newNotASymbol(elemSpan(form, 1), target.Kind().String()))
		}
		val := ev.eval(items[2], env)
		if !env.Set(target.s, val) {
			panic(newSetUnbound(callSpan(form), target.s))
		}
		return Value{}, Env{}, val, false, true

	case "lambda":
		requireArity(form, items, 3, -1)
		return Value{}, Env{}, ev.makeLambda(items[1], items[2:], env, "", false), false, true

	case "defmacro":
		requireArity(form, items, 4, -1)
		nameV := items[1]
		if nameV.kind != KindSymbol {
			panic(newNotASymbol(elemSpan(form, 1), nameV.Kind().String()))
		}
		macroVal := ev.makeLambda(items[2], items[3:], env, nameV.s, true)
		env.Define(nameV.s, macroVal)
		return Value{}, Env{}, macroVal, false, true

	case "let":
		requireArity(form, items, 3, -1)
		bindings, ok := ToList(items[1])
		if !ok {
			panic(newTypeError(elemSpan(form, 1), "list of (name value) bindings", "non-list"))
		}
		child := env.Child()
		for _, b := range bindings {
			pair, ok := ToList(b)
			if !ok || len(pair) != 2 || pair[0].kind != KindSymbol {
				panic(newTypeError(callSpan(b), "(name value)", "malformed let binding"))
			}
			// Values are evaluated in the enclosing frame (not letrec): a
			// binding's initializer cannot see sibling bindings.
			child.Define(pair[0].s, ev.eval(pair[1], env))
		}
		body := items[2:]
		for _, f := range body[:len(body)-1] {
			ev.eval(f, child)
		}
		return body[len(body)-1], child, Value{}, true, true

	case "begin":
		requireArity(form, items, 2, -1)
		body := items[1:]
		for _, f := range body[:len(body)-1] {
			ev.eval(f, env)
		}
		return body[len(body)-1], env, Value{}, true, true

	case "and":
		if len(items) == 1 {
			return Value{}, Env{}, True, false, true
		}
		for _, f := range items[1 : len(items)-1] {
			if !ev.eval(f, env).IsTruthy() {
				return Value{}, Env{}, False, false, true
			}
		}
		return items[len(items)-1], env, Value{}, true, true

	case "or":
		if len(items) == 1 {
			return Value{}, Env{}, False, false, true
		}
		for _, f := range items[1 : len(items)-1] {
			if ev.eval(f, env).IsTruthy() {
				return Value{}, Env{}, True, false, true
			}
		}
		return items[len(items)-1], env, Value{}, true, true

	case "while":
		requireArity(form, items, 3, -1)
		cond, body := items[1], items[2:]
		for ev.eval(cond, env).IsTruthy() {
			for _, f := range body {
				ev.eval(f, env)
			}
		}
		return Value{}, Env{}, Nil, false, true

	case "quasiquote":
		requireArity(form, items, 2, 2)
		return Value{}, Env{}, ev.evalQuasiquote(items[1], env, 1), false, true

	case "unquote", "unquote-splicing":
		panic(NewCustomError(callSpan(form), name+" used outside of quasiquote"))

	default:
		return Value{}, Env{}, Value{}, false, false
	}
}

func requireArity(form Value, items []Value, min, max int) {
	got := len(items) - 1
	if got < min-1 || (max >= 0 && got > max-1) {
		panic(newArityRange(callSpan(form), min-1, max-1, got))
	}
}

// makeLambda builds a Lambda (or Macro, if asMacro) value from a raw
// parameter-list form and body forms, capturing env as its closure.
func (ev *Evaluator) makeLambda(paramsForm Value, body []Value, env Env, name string, asMacro bool) Value {
	params, rest := parseParamList(paramsForm)
	if asMacro {
		return ev.heap.newMacro(params, rest, body, env.frameRef(), name)
	}
	return ev.heap.newLambda(params, rest, body, env.frameRef(), name)
}

// parseParamList accepts a proper list of symbols, an improper (dotted)
// list ending in a rest symbol, or a bare symbol (all arguments collected
// into one list) — the generalization of spec.md's "(x . rest)" rest
// parameter support.
func parseParamList(form Value) (params []string, rest string) {
	v := form
	for v.kind == KindCons {
		if v.cons.car.kind != KindSymbol {
			panic(newNotASymbol(elemSpanFromCell(v), v.cons.car.Kind().String()))
		}
		params = append(params, v.cons.car.s)
		v = v.cons.cdr
	}
	switch v.kind {
	case KindNil:
		return params, ""
	case KindSymbol:
		return params, v.s
	default:
		panic(newNotASymbol(Span{}, v.Kind().String()))
	}
}

func elemSpanFromCell(v Value) Span {
	if s, ok := SpanOf(v); ok {
		return s
	}
	return Span{}
}
