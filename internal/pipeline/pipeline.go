// Package pipeline runs a full target build: stage the source images,
// hand them to the compiler, then remove everything that was staged.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/shaniidev/targetforge/internal/compile"
	"github.com/shaniidev/targetforge/internal/config"
	"github.com/shaniidev/targetforge/internal/core"
	"github.com/shaniidev/targetforge/internal/download"
	"github.com/shaniidev/targetforge/internal/ui"
)

// Stager fetches sources into a staging directory.
type Stager interface {
	Stage(ctx context.Context, urls []string, dir string) ([]core.StagedFile, []core.FetchFailure, error)
}

type Deps struct {
	Stager   Stager
	Compiler compile.Compiler
}

// DefaultDeps wires the HTTP stager and the subprocess compiler from cfg.
func DefaultDeps(cfg *config.Config) Deps {
	return Deps{
		Stager:   download.NewStager(cfg),
		Compiler: compile.NewExecCompiler(cfg.Compiler),
	}
}

// Run executes one build. The returned result is never nil once the config is valid.
func Run(ctx context.Context, cfg *config.Config, deps Deps) (*core.RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := core.NewRunResult(cfg.Output)

	ui.Section("Download")
	staged, failures, err := deps.Stager.Stage(ctx, cfg.Sources, cfg.StagingDir)
	result.Staged = staged
	result.Failures = failures
	if err != nil {
		return result, errors.Join(err, finish(cfg, staged))
	}

	for _, f := range failures {
		ui.Warning("Skipped %s: %v", f.URL, f.Err)
	}

	if len(staged) == 0 {
		ui.Error("No images were downloaded!")
		return result, errors.Join(core.ErrNothingStaged, finish(cfg, staged))
	}

	printStaged(result)

	ui.Section("Compile")
	compileErr := deps.Compiler.Compile(ctx, result.StagedPaths(), cfg.Output)
	if compileErr == nil {
		result.Compiled = true
		ui.Success("Targets written to %s", cfg.Output)
	}

	if err := finish(cfg, staged); err != nil {
		return result, errors.Join(compileErr, err)
	}
	return result, compileErr
}

// finish cleans up unless the run was configured to keep the staging directory.
func finish(cfg *config.Config, staged []core.StagedFile) error {
	if cfg.KeepStaging {
		ui.Info("Keeping staging directory %s", cfg.StagingDir)
		return nil
	}
	return Cleanup(cfg.StagingDir, staged)
}

// Cleanup removes the staged files and then the staging directory itself.
// Only the given files are removed, so the directory removal fails if
// anything else is left in it.
func Cleanup(dir string, staged []core.StagedFile) error {
	for _, f := range staged {
		if err := os.Remove(f.LocalPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: remove %s: %v", core.ErrCleanup, f.LocalPath, err)
		}
	}
	// a staging path that is not a directory was never created by this run
	if info, err := os.Lstat(dir); err != nil || !info.IsDir() {
		ui.Debug("Removed %d staged files, %s is not a staging directory", len(staged), dir)
		return nil
	}
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", core.ErrCleanup, dir, err)
	}
	ui.Debug("Removed %d staged files and %s", len(staged), dir)
	return nil
}

func printStaged(result *core.RunResult) {
	rows := make([][2]string, 0, len(result.Staged))
	for _, f := range result.Staged {
		rows = append(rows, [2]string{filepath.Base(f.LocalPath), humanize.Bytes(uint64(f.Size))})
	}
	ui.PrintTable(rows, "Staged Images", 20)
	ui.Success("Staged %d images (%s)", len(result.Staged), humanize.Bytes(uint64(result.TotalBytes())))
}
