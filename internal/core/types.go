package core

// StagedFile is a source image that was fetched and written to the staging directory
type StagedFile struct {
	Index     int // position in the source list
	URL       string
	LocalPath string
	Size      int64
}

// FetchFailure records a source that was skipped
type FetchFailure struct {
	Index      int
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

// RunResult holds the data as it flows through the stages
type RunResult struct {
	Staged   []StagedFile
	Failures []FetchFailure
	Compiled bool
	Output   string
}

func NewRunResult(output string) *RunResult {
	return &RunResult{
		Staged:   make([]StagedFile, 0),
		Failures: make([]FetchFailure, 0),
		Output:   output,
	}
}

// StagedPaths returns the local paths of the staged files in source order
func (r *RunResult) StagedPaths() []string {
	paths := make([]string, 0, len(r.Staged))
	for _, f := range r.Staged {
		paths = append(paths, f.LocalPath)
	}
	return paths
}

// TotalBytes sums the size of all staged files
func (r *RunResult) TotalBytes() int64 {
	var total int64
	for _, f := range r.Staged {
		total += f.Size
	}
	return total
}
