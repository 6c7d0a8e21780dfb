package download

import (
	"fmt"
	"strings"
	"sync"

	"github.com/coregx/coregex"
)

const fallbackPrefix = "stamp"

// unsafeNameRe matches runs of characters that must not appear in a staged file name.
var unsafeNameRe = mustCompile(`[<>:"/\\|?*\x00-\x1f\s]+`)

// coregex lazy DFA is not safe for concurrent use
var unsafeNameMu sync.Mutex

func mustCompile(expr string) *coregex.Regexp {
	re, err := coregex.Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("download: compile %q: %v", expr, err))
	}
	return re
}

// StageName returns the deterministic file name for the source at index,
// e.g. StageName("stamp", 0, "jpg") == "stamp_0.jpg".
func StageName(prefix string, index int, ext string) string {
	prefix = sanitizeName(prefix)
	if prefix == "" {
		prefix = fallbackPrefix
	}
	ext = sanitizeName(strings.ToLower(strings.TrimLeft(ext, ".")))
	if ext == "" {
		return fmt.Sprintf("%s_%d", prefix, index)
	}
	return fmt.Sprintf("%s_%d.%s", prefix, index, ext)
}

// sanitizeName replaces unsafe characters with underscores and collapses repeats
func sanitizeName(name string) string {
	name = strings.Trim(name, ". ")

	unsafeNameMu.Lock()
	matches := unsafeNameRe.FindAll([]byte(name), -1)
	unsafeNameMu.Unlock()

	for _, m := range matches {
		name = strings.ReplaceAll(name, string(m), "_")
	}
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.Trim(name, "._")
}
