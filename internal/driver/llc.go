package driver

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/llir/llvm/ir"

	"github.com/emberlang/emberc/internal/config"
)

// runLLC pipes m's textual IR through the system llc to produce
// assembly or an object file, since llir/llvm only ever constructs IR
// and does not assemble or link.
func runLLC(m *ir.Module, outputPath string, cfg *config.Config, filetypeFlag string) error {
	args := []string{filetypeFlag, "-o", outputPath}
	if cfg != nil && cfg.Target != "" {
		args = append(args, "-mtriple="+cfg.Target)
	}

	cmd := exec.Command("llc", args...)
	cmd.Stdin = bytes.NewBufferString(m.String())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("llc: %w: %s", err, stderr.String())
	}
	return nil
}
