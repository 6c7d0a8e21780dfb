package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
	Bold   = "\033[1m"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stdout
)

// SetOutput redirects all console output. Defaults to os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetVerbose enables Debug lines.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

func write(format string, a ...interface{}) {
	mu.RLock()
	defer mu.RUnlock()
	fmt.Fprintf(output, format, a...)
}

func Printf(color string, format string, a ...interface{}) {
	write(color+format+Reset, a...)
}

func Println(color string, a ...interface{}) {
	write("%s%s%s\n", color, fmt.Sprint(a...), Reset)
}

func Info(format string, a ...interface{}) {
	write(Cyan+"[INFO] "+Reset+format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	write(Green+"[+] "+Reset+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	write(Red+"[-] "+Reset+format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	write(Yellow+"[!] "+Reset+format+"\n", a...)
}

// Debug prints only in verbose mode.
func Debug(format string, a ...interface{}) {
	if !IsVerbose() {
		return
	}
	write(Gray+"[DEBUG] "+Reset+format+"\n", a...)
}

func Section(title string) {
	write("\n"+Bold+Blue+"=== %s ==="+Reset+"\n", title)
}
