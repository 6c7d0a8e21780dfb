package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetchFailed marks a source that could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrFetchTimeout marks a source whose retrieval ran out of time.
	ErrFetchTimeout = errors.New("fetch timed out")
	// ErrNotAnImage marks a payload that does not start with a known image signature.
	ErrNotAnImage = errors.New("payload is not an image")
	// ErrNothingStaged is returned when no source could be staged.
	ErrNothingStaged = errors.New("no images were downloaded")
	// ErrCompileFailed marks a failed run of the target compiler.
	ErrCompileFailed = errors.New("target compile failed")
	// ErrCleanup marks a failure to remove staged files or the staging directory.
	ErrCleanup = errors.New("cleanup failed")
	// ErrInvalidConfig marks a configuration rejected by validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrFetchFailed
}

// CompileError is a non-zero exit of the target compiler.
type CompileError struct {
	ExitCode int
	Stderr   string
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", ErrCompileFailed, e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + lastLine(s)
	}
	return msg
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompileFailed
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
