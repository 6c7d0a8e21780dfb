package ui

import (
	"strings"
	"sync"
)

// ProgressBar simple progress indicator
type ProgressBar struct {
	Total   int
	Current int
	Width   int
	Prefix  string
	Mu      sync.Mutex
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{
		Total:  total,
		Width:  40,
		Prefix: prefix,
	}
}

func (p *ProgressBar) Increment() {
	p.Mu.Lock()
	defer p.Mu.Unlock()
	p.Current++
	p.render()
}

func (p *ProgressBar) render() {
	percent := 1.0
	if p.Total > 0 {
		percent = float64(p.Current) / float64(p.Total)
	}
	if percent > 1.0 {
		percent = 1.0
	}

	filled := int(float64(p.Width) * percent)
	if filled > p.Width {
		filled = p.Width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.Width-filled)

	write("\r%s %s [%.1f%%] (%d/%d)   ",
		Blue+p.Prefix+Reset,
		Cyan+bar+Reset,
		percent*100,
		p.Current, p.Total,
	)

	if p.Current >= p.Total {
		write("\n")
	}
}

// PrintTable prints rows of (name, detail) pairs, showing at most limit rows
func PrintTable(rows [][2]string, title string, limit int) {
	Section(title)

	write("%s\n", strings.Repeat("-", 60))
	write("%-5s | %-30s | %s\n", "#", "File", "Detail")
	write("%s\n", strings.Repeat("-", 60))

	count := len(rows)
	displayCount := count
	if displayCount > limit {
		displayCount = limit
	}

	for i := 0; i < displayCount; i++ {
		name := rows[i][0]
		if len(name) > 30 {
			name = "..." + name[len(name)-27:]
		}
		write("%-5d | %s%-30s%s | %s\n", i+1, Green, name, Reset, rows[i][1])
	}

	if count > limit {
		write("%s\n", strings.Repeat("-", 60))
		write(Yellow+"... and %d more not shown (displaying first %d)."+Reset+"\n", count-limit, limit)
	}
	write("%s\n", strings.Repeat("-", 60))
}
