// Package driver orchestrates the compilation pipeline's three stages,
// checking, instantiation, and lowering, into the single `Compile`
// entry point a CLI or test harness calls with an already-built
// Repository: run the pipeline stage by stage, write the artifact, and
// surface the first error.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/llir/llvm/ir"

	"github.com/emberlang/emberc/internal/ast"
	"github.com/emberlang/emberc/internal/checker"
	"github.com/emberlang/emberc/internal/config"
	"github.com/emberlang/emberc/internal/errors"
	"github.com/emberlang/emberc/internal/instances"
	"github.com/emberlang/emberc/internal/lower"
	"github.com/emberlang/emberc/internal/types"
)

// OutputKind selects the artifact to emit: a single file containing
// textual IR, textual assembly, or a native object.
type OutputKind int

const (
	// Object is the default: emberc always builds IR and hands it to
	// llc for assembly/object emission, since llir/llvm itself stops at
	// IR construction.
	Object OutputKind = iota
	Assembly
	LLVMIr
)

// spewEnv, when set to a non-empty value, causes Compile to dump the
// lowered module to w before writing the artifact.
const spewEnv = "EMBERC_SPEW"

// Result is everything a successful Compile produced, for a caller
// that wants the intermediate module as well as the written artifact
// (the end-to-end test in driver_test.go, say).
type Result struct {
	Module *ir.Module
	Insts  *instances.Table
}

// Compile runs all three pipeline stages over repo and writes the
// selected artifact to outputPath. cfg may be nil, meaning "no
// emberc.yaml overrides". w receives the EMBERC_SPEW dump, if any; pass
// os.Stderr from the CLI, or nil to suppress it entirely (used by
// tests that don't want dump noise).
func Compile(repo *ast.Repository, cfg *config.Config, kind OutputKind, outputPath string, w io.Writer) (*Result, error) {
	tcx := types.NewTCX()
	insts := instances.NewTable()

	c := checker.New(repo, tcx, insts)
	if err := c.CheckAll(); err != nil {
		return nil, err
	}

	m, err := lower.Lower(insts)
	if err != nil {
		return nil, err
	}

	if w != nil && os.Getenv(spewEnv) != "" {
		fmt.Fprintln(w, m.String())
	}

	if err := emit(m, kind, outputPath, cfg); err != nil {
		return nil, errors.NewIO(fmt.Errorf("writing %s: %w", outputPath, err))
	}

	return &Result{Module: m, Insts: insts}, nil
}

// emit writes the module in the requested form. LLVMIr is the only
// kind llir/llvm can produce unassisted (module.String()); Assembly
// and Object are handed to the system llc over that same textual IR,
// since llir/llvm builds IR only and does not assemble or link.
func emit(m *ir.Module, kind OutputKind, outputPath string, cfg *config.Config) error {
	switch kind {
	case LLVMIr:
		return os.WriteFile(outputPath, []byte(m.String()), 0o644)
	case Assembly:
		return runLLC(m, outputPath, cfg, "-filetype=asm")
	default:
		return runLLC(m, outputPath, cfg, "-filetype=obj")
	}
}
