package scm

// evalQuasiquote walks v, expanding unquote/unquote-splicing forms whose
// nesting depth matches the current backquote depth and leaving everything
// else as literal data. Entering a nested quasiquote increments depth;
// entering unquote/unquote-splicing decrements it — only at depth 1 does an
// unquote actually evaluate its operand, which is what lets
// `` `(a `(b ,(+ 1 2))) `` leave the inner unquote unexpanded.
func (ev *Evaluator) evalQuasiquote(v Value, env Env, depth int) Value {
	if v.kind != KindCons {
		return v
	}
	if items, proper := ToList(v); proper && len(items) == 2 && items[0].kind == KindSymbol {
		switch items[0].s {
		case "unquote":
			if depth == 1 {
				return ev.eval(items[1], env)
			}
			inner := ev.evalQuasiquote(items[1], env, depth-1)
			return ev.heap.NewCons(Symbol("unquote"), ev.heap.NewCons(inner, Nil))
		case "quasiquote":
			inner := ev.evalQuasiquote(items[1], env, depth+1)
			return ev.heap.NewCons(Symbol("quasiquote"), ev.heap.NewCons(inner, Nil))
		}
	}
	return ev.qqList(v, env, depth)
}

// qqList rebuilds a (possibly improper) list cell by cell, splicing in the
// evaluated contents of any unquote-splicing element found at the current
// depth's car position.
func (ev *Evaluator) qqList(v Value, env Env, depth int) Value {
	if v.kind != KindCons {
		return ev.evalQuasiquote(v, env, depth)
	}
	car, cdr := v.cons.car, v.cons.cdr

	if car.kind == KindCons {
		if carItems, proper := ToList(car); proper && len(carItems) == 2 &&
			carItems[0].kind == KindSymbol && carItems[0].s == "unquote-splicing" {
			if depth == 1 {
				spliced := ev.eval(carItems[1], env)
				rest := ev.qqList(cdr, env, depth)
				return spliceAppend(ev.heap, spliced, rest)
			}
			inner := ev.evalQuasiquote(carItems[1], env, depth-1)
			newCar := ev.heap.NewCons(Symbol("unquote-splicing"), ev.heap.NewCons(inner, Nil))
			rest := ev.qqList(cdr, env, depth)
			return ev.heap.NewCons(newCar, rest)
		}
	}

	newCar := ev.evalQuasiquote(car, env, depth)
	newCdr := ev.qqList(cdr, env, depth)
	return ev.heap.NewCons(newCar, newCdr)
}

func spliceAppend(h *Heap, list, tail Value) Value {
	items, ok := ToList(list)
	if !ok {
		panic(NewCustomError(Span{}, "unquote-splicing requires a proper list"))
	}
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = h.NewCons(items[i], result)
	}
	return result
}
