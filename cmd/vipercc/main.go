// cmd/vipercc is a thin driver over the BASIC front end: it reads one
// source file, runs it through the lexer, parser, and semantic
// analyzer, and renders whatever diagnostics come out. Full CLI
// argument parsing is out of scope (spec.md §1 Non-goals) — this
// exists to exercise the pipeline end to end, not to be a finished
// tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/kr/pretty"

	"viperc/internal/basic/lexer"
	"viperc/internal/basic/parser"
	"viperc/internal/basic/sema"
	"viperc/internal/diag"
	"viperc/internal/il/ilio"
	"viperc/internal/srcmap"
)

const version = "0.1.0"

func main() { os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr)) }

// runMain is main's logic factored out to take explicit args/streams
// and return an exit code instead of calling os.Exit itself, so the
// testscript-driven script tests can run it in-process via
// testscript.RunMain (cmd/vipercc/main_test.go).
func runMain(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	dumpAST := false
	dumpIL := false
	var path string
	for _, a := range args {
		switch a {
		case "-dump-ast":
			dumpAST = true
		case "-dump-il":
			dumpIL = true
		case "-version", "--version":
			fmt.Fprintln(stdout, "vipercc", version)
			return 0
		case "-h", "-help", "--help":
			usage(stdout)
			return 0
		default:
			path = a
		}
	}
	if path == "" {
		usage(stderr)
		return 2
	}

	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "vipercc: %v\n", err)
		return 1
	}

	if dumpIL {
		return runIL(path, string(src), stdout, stderr)
	}
	return run(path, string(src), dumpAST, stdout, stderr)
}

// run drives one file through the pipeline. A panic escaping the
// front end means an internal invariant broke (SPEC_FULL.md §2); this
// is the one recover boundary in the driver, reporting the pkg/errors
// stack trace rather than letting a bare Go panic tear down the
// process.
func run(path, src string, dumpAST bool, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(stderr, "vipercc: internal error: %+v\n", r)
			code = 1
		}
	}()

	srcs := srcmap.New()
	file := srcs.Add(path, src)
	emitter := diag.NewEmitter()

	toks := lexer.New(src, file, emitter).Tokenize()
	prog := parser.Parse(toks, emitter)
	sema.New(emitter).Analyze(prog)

	if dumpAST {
		fmt.Fprintf(stdout, "%# v\n", pretty.Formatter(prog))
	}

	emitter.Render(stdout, srcs)
	fmt.Fprintf(stdout, "%d errors in %s, %s\n",
		emitter.ErrorCount(), path, humanize.Bytes(uint64(len(src))))

	if emitter.HasErrors() {
		return 1
	}
	return 0
}

// runIL exercises the textual IL codec directly: parse then re-print,
// asserting the module's declared version meets the driver's floor.
// BASIC-to-IL lowering itself is out of scope (spec.md §4.4 documents
// the codec as operating on hand-written or test-fixture IL text).
func runIL(path, src string, stdout, stderr io.Writer) int {
	mod, err := ilio.Parse(src)
	if err != nil {
		fmt.Fprintf(stderr, "vipercc: %v\n", err)
		return 1
	}
	const floor = "0.1"
	if !ilio.MinVersion(mod.Version, floor) {
		fmt.Fprintf(stderr, "vipercc: module version %s is below the accepted floor %s\n", mod.Version, floor)
		return 1
	}
	fmt.Fprint(stdout, ilio.Print(mod))
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: vipercc [-dump-ast | -dump-il] <file>")
}
