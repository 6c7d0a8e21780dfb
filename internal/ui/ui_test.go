package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	SetOutput(buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetVerbose(false)
	})
	return buf
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	buf := capture(t)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG]")
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLevels(t *testing.T) {
	buf := capture(t)

	Info("info line")
	Success("ok line")
	Warning("warn line")
	Error("err line")

	out := buf.String()
	assert.Contains(t, out, "[INFO] "+Reset+"info line")
	assert.Contains(t, out, "[+] "+Reset+"ok line")
	assert.Contains(t, out, "[!] "+Reset+"warn line")
	assert.Contains(t, out, "[-] "+Reset+"err line")
}

func TestProgressBar(t *testing.T) {
	buf := capture(t)

	bar := NewProgressBar(2, "Downloading")
	bar.Increment()
	assert.Contains(t, buf.String(), "(1/2)")
	assert.Contains(t, buf.String(), "[50.0%]")

	bar.Increment()
	assert.Contains(t, buf.String(), "(2/2)")
	assert.Contains(t, buf.String(), "[100.0%]")
	assert.Equal(t, 2, bar.Current)
}

func TestProgressBar_ZeroTotal(t *testing.T) {
	buf := capture(t)

	bar := NewProgressBar(0, "Downloading")
	bar.Increment()
	assert.Contains(t, buf.String(), "[100.0%]")
}

func TestPrintTable_Limit(t *testing.T) {
	buf := capture(t)

	rows := [][2]string{
		{"stamp_0.jpg", "12 kB"},
		{"stamp_1.jpg", "13 kB"},
		{"stamp_2.jpg", "14 kB"},
	}
	PrintTable(rows, "Staged", 2)

	out := buf.String()
	assert.Contains(t, out, "=== Staged ===")
	assert.Contains(t, out, "stamp_0.jpg")
	assert.Contains(t, out, "stamp_1.jpg")
	assert.NotContains(t, out, "stamp_2.jpg")
	assert.Contains(t, out, "... and 1 more not shown")
}
