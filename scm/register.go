package scm

import "fmt"

// Declaration documents one prelude primitive: name, description, arity
// bounds and per-parameter docs, so a host can render usage text through
// Evaluator.Help without reading source. Trimmed from the
// teacher's equivalent: no Markdown chapter export, since that served the
// teacher's own documentation site rather than anything this library needs.
type Declaration struct {
	Name         string
	Desc         string
	MinParameter int
	MaxParameter int // -1 means unbounded
	Params       []DeclarationParameter
	Returns      string // any | string | number | int | bool | func | list | pair | symbol | foreign | nil
}

type DeclarationParameter struct {
	Name string
	Type string
	Desc string
}

// declare registers def's native implementation as a global binding and
// records def for Help.
func (ev *Evaluator) declare(def *Declaration, fn NativeFunc) {
	if ev.declarations == nil {
		ev.declarations = make(map[string]*Declaration)
	}
	ev.declarations[def.Name] = def
	ev.DefineNative(def.Name, def.MinParameter, def.MaxParameter, fn)
}

// Help renders a one-line usage string for a registered primitive, or
// ok=false if name was never declared via declare/Declaration.
func (ev *Evaluator) Help(name string) (string, bool) {
	def, ok := ev.declarations[name]
	if !ok {
		return "", false
	}
	usage := "(" + def.Name
	for _, p := range def.Params {
		usage += " " + p.Name
	}
	usage += ")"
	if def.Desc != "" {
		usage = fmt.Sprintf("%s — %s", usage, def.Desc)
	}
	return usage, true
}

// registerPrelude wires every builtin group into ev's global frame.
func (ev *Evaluator) registerPrelude() {
	ev.registerCoreBuiltins()
	ev.registerMathBuiltins()
	ev.registerListBuiltins()
	ev.registerStringBuiltins()
	ev.registerIOBuiltins()
	ev.registerParserGen()
}
