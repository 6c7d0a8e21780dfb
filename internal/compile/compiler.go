// Package compile hands staged images to the external target compiler.
package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shaniidev/targetforge/internal/core"
	"github.com/shaniidev/targetforge/internal/ui"
)

const stderrTailLimit = 4096

// Compiler turns an ordered list of images into a targets file.
type Compiler interface {
	Compile(ctx context.Context, inputs []string, output string) error
}

// ExecCompiler runs `<Command...> compile <inputs...> -o <output>` as a subprocess.
type ExecCompiler struct {
	Command []string
	Stdout  io.Writer
	Stderr  io.Writer
}

func NewExecCompiler(command []string) *ExecCompiler {
	return &ExecCompiler{
		Command: append([]string(nil), command...),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Args returns the compiler arguments that follow the command itself.
func Args(inputs []string, output string) []string {
	args := make([]string, 0, len(inputs)+3)
	args = append(args, "compile")
	args = append(args, inputs...)
	args = append(args, "-o", output)
	return args
}

func (c *ExecCompiler) Compile(ctx context.Context, inputs []string, output string) error {
	if len(c.Command) == 0 || c.Command[0] == "" {
		return fmt.Errorf("%w: empty compiler command", core.ErrCompileFailed)
	}
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no input images", core.ErrCompileFailed)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("%w: create output dir: %v", core.ErrCompileFailed, err)
	}

	var args []string
	args = append(args, c.Command[1:]...)
	args = append(args, Args(inputs, output)...)

	ui.Info("%s %s", c.Command[0], strings.Join(args, " "))

	tail := newTailBuffer(stderrTailLimit)
	cmd := exec.CommandContext(ctx, c.Command[0], args...)
	cmd.Stdout = c.Stdout
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(c.Stderr, tail)
	} else {
		cmd.Stderr = tail
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &core.CompileError{ExitCode: exitErr.ExitCode(), Stderr: tail.String()}
		}
		return fmt.Errorf("%w: %v", core.ErrCompileFailed, err)
	}
	return nil
}

// LookupTool checks that the compiler binary is in PATH and returns its location.
func LookupTool(command []string) (string, error) {
	if len(command) == 0 || command[0] == "" {
		return "", fmt.Errorf("%w: empty compiler command", core.ErrCompileFailed)
	}
	path, err := exec.LookPath(command[0])
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH", core.ErrCompileFailed, command[0])
	}
	return path, nil
}
