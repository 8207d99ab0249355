// Command emberc compiles an Ember source bundle to a native object
// file, assembly, or textual LLVM IR. Usage: emberc -o <output>
// [-S|-L] <input>. On success it prints a green "ok :)" to stderr; on
// failure it prints the error in red followed by ":(" and exits
// nonzero.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/emberlang/emberc/internal/config"
	"github.com/emberlang/emberc/internal/driver"
	"github.com/emberlang/emberc/internal/frontend"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func main() {
	var (
		output   = flag.String("o", "", "output file (required)")
		assembly = flag.Bool("S", false, "emit assembly text")
		llvmIR   = flag.Bool("L", false, "emit textual LLVM IR")
	)
	flag.Parse()

	if *output == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: emberc -o <output> [-S|-L] <input>")
		os.Exit(1)
	}
	input := flag.Arg(0)

	if err := run(input, *output, *assembly, *llvmIR); err != nil {
		fmt.Fprintf(os.Stderr, "%s :(\n", red(err.Error()))
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, green("ok :)"))
}

func run(input, output string, assembly, llvmIR bool) error {
	cfg, err := config.LoadForInput(input)
	if err != nil {
		return err
	}

	// Explicit -S/-L flags win; otherwise an emberc.yaml output_kind
	// override replaces the built-in object-file default.
	kind := driver.Object
	switch {
	case llvmIR:
		kind = driver.LLVMIr
	case assembly:
		kind = driver.Assembly
	case cfg.OutputKind == "ir":
		kind = driver.LLVMIr
	case cfg.OutputKind == "asm":
		kind = driver.Assembly
	}

	repo, err := frontend.ParseBundle(input)
	if err != nil {
		return err
	}

	_, err = driver.Compile(repo, cfg, kind, output, os.Stderr)
	return err
}
