// Command scm is a REPL and script runner for the embeddable interpreter
// in package scm. It plays the role the teacher's own root main.go plays
// for its database (flag-driven entrypoint, file loading, hot reload via
// fsnotify) but scoped down to evaluating scripts against the language
// library instead of booting a storage engine.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chzyer/readline"
	"github.com/fsnotify/fsnotify"

	"github.com/hlisp/scm/scm"
)

// arrayFlags collects every -c flag given on the command line, following
// the teacher's own workaround for the flag package's lack of native
// repeated-flag support.
type arrayFlags []string

func (f *arrayFlags) String() string     { return "" }
func (f *arrayFlags) Set(v string) error { *f = append(*f, v); return nil }

func main() {
	var commands arrayFlags
	flag.Var(&commands, "c", "evaluate an expression, may be given multiple times")
	load := flag.String("load", "", "load and evaluate a script file before any -c commands run; no REPL is started")
	watch := flag.String("watch", "", "like -load, but re-evaluate the file whenever it changes on disk")
	gcThreshold := flag.String("gc-threshold", "64MiB", "approximate heap size before garbage collection kicks in")
	flag.Parse()

	ev := scm.WithPrelude(scm.WithGCThreshold(*gcThreshold))

	if *load != "" {
		runFile(ev, *load)
	}
	if *watch != "" {
		runFile(ev, *watch)
		go watchFile(ev, *watch)
	}
	for _, src := range commands {
		runSource(ev, "-c", src)
	}

	if len(commands) == 0 && *load == "" {
		repl(ev)
	}
}

// runFile loads and evaluates path in its entirety, exiting the process on
// a hard parse/lex error (a script passed by name is expected to be
// complete and well-formed, unlike a REPL line).
func runFile(ev *scm.Evaluator, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	runSource(ev, path, string(data))
}

func runSource(ev *scm.Evaluator, name, src string) {
	toks, err := scm.Tokenize(src, nil)
	if err != nil {
		reportLexError(src, err)
		os.Exit(1)
	}
	p := scm.NewParser(ev.Heap())
	p.PushTokens(toks)
	exprs, err := p.ParseAll()
	if err != nil {
		reportParseError(src, err)
		os.Exit(1)
	}
	if p.Pending() {
		reportParseError(src, p.UnexpectedEOFError())
		os.Exit(1)
	}
	for _, expr := range exprs {
		if _, err := ev.Eval(expr); err != nil {
			reportEvalError(src, err)
			os.Exit(1)
		}
	}
}

// watchFile re-runs path every time it changes, the way the teacher's own
// (watch) primitive does for a hot-reloaded module: rewatch after every
// event (editors commonly replace a file by rename rather than writing in
// place), and debounce a burst of events down to a single reread.
func watchFile(ev *scm.Evaluator, path string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer watcher.Close()
	if err := watcher.Add(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	for range watcher.Events {
	drain:
		for {
			time.Sleep(10 * time.Millisecond)
			select {
			case <-watcher.Events:
			default:
				break drain
			}
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintln(os.Stderr, "watch reload:", r)
				}
			}()
			runFileNonFatal(ev, path)
		}()
		watcher.Add(path)
	}
}

func runFileNonFatal(ev *scm.Evaluator, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	src := string(data)
	toks, err := scm.Tokenize(src, nil)
	if err != nil {
		reportLexError(src, err)
		return
	}
	p := scm.NewParser(ev.Heap())
	p.PushTokens(toks)
	exprs, err := p.ParseAll()
	if err != nil {
		reportParseError(src, err)
		return
	}
	if p.Pending() {
		reportParseError(src, p.UnexpectedEOFError())
		return
	}
	for _, expr := range exprs {
		if _, err := ev.Eval(expr); err != nil {
			reportEvalError(src, err)
			return
		}
	}
}

const (
	promptNew  = "\033[32m>\033[0m "
	promptCont = "\033[32m.\033[0m "
	promptEcho = "\033[31m=\033[0m "
)

// repl drives an interactive session: an incremental Parser accumulates
// tokens across lines, so a form spanning several lines prompts with
// promptCont instead of erroring, mirroring the teacher's own multi-line
// accumulation in scm/prompt.go.
func repl(ev *scm.Evaluator) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptNew,
		HistoryFile:       ".scm-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()
	rl.CaptureExitSignal()

	parser := scm.NewParser(ev.Heap())
	var pending string

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if pending == "" {
				continue
			}
			pending = ""
			parser = scm.NewParser(ev.Heap())
			rl.SetPrompt(promptNew)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			fmt.Fprintln(os.Stderr, err)
			break
		}

		source := pending + line + "\n"
		toks, err := scm.Tokenize(source, nil)
		if err != nil {
			reportLexError(source, err)
			pending = ""
			parser = scm.NewParser(ev.Heap())
			rl.SetPrompt(promptNew)
			continue
		}
		parser.PushTokens(toks)

		expr, ok, err := parser.Parse()
		if err != nil {
			reportParseError(source, err)
			pending = ""
			parser = scm.NewParser(ev.Heap())
			rl.SetPrompt(promptNew)
			continue
		}
		if !ok {
			pending = source
			rl.SetPrompt(promptCont)
			continue
		}
		pending = ""
		rl.SetPrompt(promptNew)

		result, err := ev.Eval(expr)
		if err != nil {
			reportEvalError(source, err)
			continue
		}
		fmt.Print(promptEcho)
		fmt.Println(scm.Write(result))
	}
}

func reportLexError(src string, err error) {
	if le, ok := err.(*scm.LexError); ok {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, scm.RenderFrame(src, le.Span))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func reportParseError(src string, err error) {
	if pe, ok := err.(*scm.ParseError); ok {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, scm.RenderFrame(src, pe.Span))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

func reportEvalError(src string, err error) {
	if ee, ok := err.(*scm.EvalError); ok {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, scm.RenderFrame(src, ee.Span))
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
